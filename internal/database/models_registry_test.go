package database

import (
	"testing"

	"lumen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModels_IncludesRelations(t *testing.T) {
	var hasLike, hasBookmark, hasFollow, hasNotification bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.Like:
			hasLike = true
		case *models.Bookmark:
			hasBookmark = true
		case *models.Follow:
			hasFollow = true
		case *models.Notification:
			hasNotification = true
		}
	}
	assert.True(t, hasLike)
	assert.True(t, hasBookmark)
	assert.True(t, hasFollow)
	assert.True(t, hasNotification)
}

func TestPersistentModels_UniquePairIndexes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	require.NoError(t, db.Create(&models.Like{UserID: 1, PostID: 2}).Error)
	assert.Error(t, db.Create(&models.Like{UserID: 1, PostID: 2}).Error)

	require.NoError(t, db.Create(&models.Follow{FollowerID: 1, FollowingID: 2}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: 2, FollowingID: 1}).Error)
	assert.Error(t, db.Create(&models.Follow{FollowerID: 1, FollowingID: 2}).Error)
}
