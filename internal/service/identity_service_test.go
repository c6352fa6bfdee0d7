package service

import (
	"context"
	"testing"

	"lumen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	_, err := env.identity.Resolve(ctx, "")
	assert.True(t, models.HasCode(err, models.CodeUnauthenticated))

	_, err = env.identity.Resolve(ctx, "ext-ghost")
	assert.True(t, models.HasCode(err, models.CodeUserNotFound))

	got, err := env.identity.Resolve(ctx, a.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestIdentityService_ProvisionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := ProvisionUserInput{
		ExternalID: "user_2abc",
		Email:      "grace@example.com",
		FirstName:  "Grace",
		LastName:   "",
		ImageURL:   "https://img.example.com/grace.png",
	}

	u, created, err := env.identity.Provision(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "grace", u.Username)
	assert.Equal(t, "Grace", u.Fullname)
	assert.Equal(t, "https://img.example.com/grace.png", u.AvatarURL)
	assert.Empty(t, u.Bio)
	assert.Zero(t, u.Followers)
	assert.Zero(t, u.Following)
	assert.Zero(t, u.Posts)

	again, created, err := env.identity.Provision(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	_, _, err = env.identity.Provision(ctx, ProvisionUserInput{})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "ada", UsernameFromEmail(" ada@example.com "))
	assert.Equal(t, "", UsernameFromEmail(""))
	assert.Equal(t, "plain", UsernameFromEmail("plain"))
}
