package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{NewUnauthenticatedError("no token"), fiber.StatusUnauthorized},
		{NewUserNotFoundError("ext_1"), fiber.StatusNotFound},
		{NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{NewForbiddenError("not yours"), fiber.StatusForbidden},
		{NewValidationError("empty"), fiber.StatusBadRequest},
		{NewStorageResolutionError("abc", nil), fiber.StatusUnprocessableEntity},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewForbiddenError("x")), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("delete post: %w", NewNotFoundError("Post", 5))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeForbidden))
	assert.False(t, HasCode(errors.New("x"), CodeNotFound))
}
