// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"lumen/internal/database"
	"lumen/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB returns a migrated, private in-memory SQLite database. A single
// connection serialises transactions the way row locks would on Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:lumen_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose external identity is "ext-<username>".
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		ExternalID: "ext-" + username,
		Username:   username,
		Fullname:   username + " tester",
		Email:      username + "@example.com",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreatePost inserts a post directly and bumps the owner's post counter.
func CreatePost(t *testing.T, db *gorm.DB, owner *models.User, storageID string) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:    owner.ID,
		StorageID: storageID,
		ImageURL:  "https://cdn.example.com/" + storageID,
	}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", owner.ID).
		UpdateColumn("posts", gorm.Expr("posts + 1")).Error)
	return p
}

// ReloadUser reads the user's current counters.
func ReloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return &u
}

// ReloadPost reads the post's current counters.
func ReloadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.First(&p, id).Error)
	return &p
}
