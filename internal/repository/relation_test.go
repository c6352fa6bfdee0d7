package repository

import (
	"context"
	"testing"

	"lumen/internal/models"
	"lumen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationRepository_AddRemoveReportChanges(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, bob, "img-1")

	likes := NewLikeRepository(db)

	added, err := likes.Add(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = likes.Add(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, added, "duplicate pair must not insert")

	exists, err := likes.Exists(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := likes.CountForTarget(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := likes.Remove(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = likes.Remove(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRelationRepository_FollowIsDirected(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	follows := NewFollowRepository(db)
	_, err := follows.Add(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	ab, err := follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	ba, err := follows.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.False(t, ba)

	following, err := follows.CountForActor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)
}

func TestRelationRepository_FilterAndTargets(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	p1 := testutil.CreatePost(t, db, bob, "img-1")
	p2 := testutil.CreatePost(t, db, bob, "img-2")
	p3 := testutil.CreatePost(t, db, bob, "img-3")

	bookmarks := NewBookmarkRepository(db)
	for _, p := range []*models.Post{p1, p3} {
		_, err := bookmarks.Add(ctx, alice.ID, p.ID)
		require.NoError(t, err)
	}

	set, err := bookmarks.FilterTargets(ctx, alice.ID, []uint{p1.ID, p2.ID, p3.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{p1.ID: true, p3.ID: true}, set)

	targets, err := bookmarks.TargetsOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p3.ID}, targets)

	removed, err := bookmarks.RemoveAllForTarget(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	empty, err := bookmarks.FilterTargets(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRelationRepository_AddTwiceInOneTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := New(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	var first, second bool
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		var err error
		if first, err = tx.Follows.Add(ctx, alice.ID, bob.ID); err != nil {
			return err
		}
		second, err = tx.Follows.Add(ctx, alice.ID, bob.ID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)

	n, err := repos.Follows.CountForActor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
