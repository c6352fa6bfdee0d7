// Package validation holds the input rules shared by the services.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits, in characters.
const (
	MaxCaptionLen  = 2200
	MaxCommentLen  = 2200
	MaxFullnameLen = 128
	MaxBioLen      = 500
)

// Rule describes a free-text field.
type Rule struct {
	Label    string
	Max      int
	Required bool
}

var (
	Caption  = Rule{Label: "Caption", Max: MaxCaptionLen}
	Comment  = Rule{Label: "Comment", Max: MaxCommentLen, Required: true}
	Fullname = Rule{Label: "Fullname", Max: MaxFullnameLen, Required: true}
	Bio      = Rule{Label: "Bio", Max: MaxBioLen}
)

// Clean trims value and checks it against the rule.
func (r Rule) Clean(value string) (string, error) {
	value = strings.TrimSpace(value)
	if r.Required && value == "" {
		return "", fmt.Errorf("%s is required", r.Label)
	}
	if r.Max > 0 && utf8.RuneCountInString(value) > r.Max {
		return "", fmt.Errorf("%s too long (max %d characters)", r.Label, r.Max)
	}
	return value, nil
}
