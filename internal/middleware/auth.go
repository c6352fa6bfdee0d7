// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"lumen/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SubjectLocal is the Fiber locals key holding the verified identity subject.
const SubjectLocal = "subject"

var (
	errMissingSubject = errors.New("token has no subject")
	errBadIssuer      = errors.New("invalid token issuer")
	errBadAudience    = errors.New("invalid token audience")
)

// TokenVerifier validates bearer tokens issued by the identity provider.
// Issuer and audience are only enforced when configured.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier creates a verifier for HMAC-signed tokens.
func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

// Subject parses the token and returns its "sub" claim.
func (v *TokenVerifier) Subject(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return "", errBadIssuer
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return "", errBadAudience
		}
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

// Sign issues a token for subject. Used by tooling and tests.
func (v *TokenVerifier) Sign(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	if v.issuer != "" {
		claims["iss"] = v.issuer
	}
	if v.audience != "" {
		claims["aud"] = v.audience
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// AuthRequired verifies the bearer token and stores its subject in locals.
// Resolving the subject to a local user is left to the handler.
func AuthRequired(v *TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization header required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Invalid authorization header format"))
		}

		subject, err := v.Subject(parts[1])
		if err != nil {
			msg := "Invalid or expired token"
			switch {
			case errors.Is(err, errBadIssuer):
				msg = "Invalid token issuer"
			case errors.Is(err, errBadAudience):
				msg = "Invalid token audience"
			case errors.Is(err, errMissingSubject):
				msg = "Invalid token structure - missing subject"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthenticatedError(msg))
		}

		c.Locals(SubjectLocal, subject)
		c.SetUserContext(context.WithValue(c.UserContext(), SubjectKey, subject))
		return c.Next()
	}
}

// SubjectFrom returns the verified subject stored by AuthRequired.
func SubjectFrom(c *fiber.Ctx) string {
	sub, _ := c.Locals(SubjectLocal).(string)
	return sub
}
