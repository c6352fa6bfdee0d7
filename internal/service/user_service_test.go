package service

import (
	"context"
	"strings"
	"testing"

	"lumen/internal/cache"
	"lumen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	_, err := env.users.UpdateProfile(ctx, a, UpdateProfileInput{Fullname: "X", Bio: strPtr("Y")})
	require.NoError(t, err)

	got, err := env.users.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Fullname)
	assert.Equal(t, "Y", got.Bio)

	// Omitted bio keeps the previous value.
	_, err = env.users.UpdateProfile(ctx, a, UpdateProfileInput{Fullname: "Z"})
	require.NoError(t, err)
	got, err = env.users.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z", got.Fullname)
	assert.Equal(t, "Y", got.Bio)

	// An explicit empty bio clears it.
	updated, err := env.users.UpdateProfile(ctx, a, UpdateProfileInput{Fullname: "Z", Bio: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)
}

func TestUpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	_, err := env.users.UpdateProfile(ctx, a, UpdateProfileInput{Fullname: "  "})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = env.users.UpdateProfile(ctx, a, UpdateProfileInput{Fullname: "ok", Bio: strPtr(strings.Repeat("b", 501))})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestGetProfile_CachedAndInvalidatedByFollow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	_, err := env.users.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, env.mr.Exists(cache.UserKey(b.ID)))

	_, err = env.relationships.ToggleFollow(ctx, a, b.ID)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(cache.UserKey(b.ID)))

	got, err := env.users.GetProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Followers)

	_, err = env.users.GetProfile(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestGetByExternalID(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")

	got, err := env.users.GetByExternalID(context.Background(), a.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = env.users.GetByExternalID(context.Background(), "ext-nobody")
	assert.True(t, models.HasCode(err, models.CodeUserNotFound))
}
