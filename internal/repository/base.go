// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"lumen/internal/database"
	"lumen/internal/models"

	"gorm.io/gorm"
)

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// wrapErr maps driver errors onto the application error taxonomy.
func wrapErr(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Notifications NotificationRepository
	Likes         RelationRepository
	Bookmarks     RelationRepository
	Follows       RelationRepository

	db *gorm.DB
}

// New builds the repository bundle. List queries go to the read replica when
// one is configured.
func New(db *gorm.DB) *Repositories {
	return build(db, readDB(db))
}

func build(db, read *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db, read),
		Comments:      NewCommentRepository(db),
		Notifications: NewNotificationRepository(db, read),
		Likes:         NewLikeRepository(db),
		Bookmarks:     NewBookmarkRepository(db),
		Follows:       NewFollowRepository(db),
		db:            db,
	}
}

// Transaction runs fn with a bundle bound to a single database transaction.
// Every read and write inside fn must go through tx.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(build(tx, tx))
	})
	var appErr *models.AppError
	if err != nil && !errors.As(err, &appErr) {
		return models.NewInternalError(err)
	}
	return err
}

// DB exposes the underlying handle for health checks and tooling.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}
