package service

import (
	"context"
	"testing"
	"time"

	"lumen/internal/cache"
	"lumen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeed_NewestFirstWithViewerState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	older := env.post(t, a, "older")
	newer := env.post(t, b, "newer")

	_, err := env.relationships.ToggleLike(ctx, a, newer.ID)
	require.NoError(t, err)
	_, err = env.relationships.ToggleBookmark(ctx, a, older.ID)
	require.NoError(t, err)

	feed, err := env.feed.ListFeed(ctx, a)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, "bob", feed[0].Author.Username)
	assert.True(t, feed[0].IsLiked)
	assert.False(t, feed[0].IsBookmarked)

	assert.Equal(t, older.ID, feed[1].ID)
	assert.False(t, feed[1].IsLiked)
	assert.True(t, feed[1].IsBookmarked)
}

func TestListFeatured_OrderedByLikesAndCached(t *testing.T) {
	env := newTestEnv(t)
	env.feed = NewFeedService(env.repos, time.Minute)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")
	quiet := env.post(t, a, "")
	popular := env.post(t, a, "")

	for _, u := range []*models.User{b, c} {
		_, err := env.relationships.ToggleLike(ctx, u, popular.ID)
		require.NoError(t, err)
	}

	featured, err := env.feed.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, popular.ID, featured[0].ID)
	assert.Equal(t, 2, featured[0].Likes)
	assert.Equal(t, quiet.ID, featured[1].ID)
	assert.True(t, env.mr.Exists(cache.FeaturedKey))

	// A like invalidates the cached ordering.
	for _, u := range []*models.User{b, c} {
		_, err := env.relationships.ToggleLike(ctx, u, quiet.ID)
		require.NoError(t, err)
	}
	_, err = env.relationships.ToggleLike(ctx, a, quiet.ID)
	require.NoError(t, err)
	assert.False(t, env.mr.Exists(cache.FeaturedKey))

	featured, err = env.feed.ListFeatured(ctx)
	require.NoError(t, err)
	assert.Equal(t, quiet.ID, featured[0].ID)
	assert.Equal(t, "alice", featured[0].Author.Username)
}

func TestListPostsByUser_DefaultsToActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	env.post(t, a, "one")
	env.post(t, a, "two")
	env.post(t, b, "three")

	mine, err := env.feed.ListPostsByUser(ctx, a, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "two", mine[0].Caption)

	theirs, err := env.feed.ListPostsByUser(ctx, a, &b.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "three", theirs[0].Caption)

	missing := uint(9999)
	_, err = env.feed.ListPostsByUser(ctx, a, &missing)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestListBookmarkedPosts_SkipsDeletedPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	p1 := env.post(t, b, "one")
	p2 := env.post(t, b, "two")

	for _, p := range []*models.Post{p1, p2} {
		_, err := env.relationships.ToggleBookmark(ctx, a, p.ID)
		require.NoError(t, err)
	}
	// Simulate a bookmark left behind by a post that vanished.
	require.NoError(t, env.db.Delete(&models.Post{}, p1.ID).Error)

	saved, err := env.feed.ListBookmarkedPosts(ctx, a)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p2.ID, saved[0].ID)
	assert.True(t, saved[0].IsBookmarked)
	assert.Equal(t, "bob", saved[0].Author.Username)
}
