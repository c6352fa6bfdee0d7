package repository

import (
	"context"

	"lumen/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository manages a unique (actor, target) pair table whose row
// existence is the relation state. Add and Remove report whether they changed
// anything, which lets callers branch on the write itself instead of a prior read.
type RelationRepository interface {
	Exists(ctx context.Context, actorID, targetID uint) (bool, error)
	Add(ctx context.Context, actorID, targetID uint) (bool, error)
	Remove(ctx context.Context, actorID, targetID uint) (bool, error)
	RemoveAllForTarget(ctx context.Context, targetID uint) (int64, error)
	FilterTargets(ctx context.Context, actorID uint, targetIDs []uint) (map[uint]bool, error)
	TargetsOf(ctx context.Context, actorID uint) ([]uint, error)
	CountForTarget(ctx context.Context, targetID uint) (int64, error)
	CountForActor(ctx context.Context, actorID uint) (int64, error)
}

type relationRepository[T any] struct {
	db        *gorm.DB
	name      string
	actorCol  string
	targetCol string
	newRow    func(actorID, targetID uint) *T
}

// NewLikeRepository returns the (user, post) like relation.
func NewLikeRepository(db *gorm.DB) RelationRepository {
	return &relationRepository[models.Like]{
		db: db, name: "Like", actorCol: "user_id", targetCol: "post_id",
		newRow: func(a, t uint) *models.Like { return &models.Like{UserID: a, PostID: t} },
	}
}

// NewBookmarkRepository returns the (user, post) bookmark relation.
func NewBookmarkRepository(db *gorm.DB) RelationRepository {
	return &relationRepository[models.Bookmark]{
		db: db, name: "Bookmark", actorCol: "user_id", targetCol: "post_id",
		newRow: func(a, t uint) *models.Bookmark { return &models.Bookmark{UserID: a, PostID: t} },
	}
}

// NewFollowRepository returns the (follower, following) relation.
func NewFollowRepository(db *gorm.DB) RelationRepository {
	return &relationRepository[models.Follow]{
		db: db, name: "Follow", actorCol: "follower_id", targetCol: "following_id",
		newRow: func(a, t uint) *models.Follow { return &models.Follow{FollowerID: a, FollowingID: t} },
	}
}

func (r *relationRepository[T]) pair(ctx context.Context, actorID, targetID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where(r.actorCol+" = ? AND "+r.targetCol+" = ?", actorID, targetID)
}

func (r *relationRepository[T]) Exists(ctx context.Context, actorID, targetID uint) (bool, error) {
	var n int64
	if err := r.pair(ctx, actorID, targetID).Model(new(T)).Count(&n).Error; err != nil {
		return false, wrapErr(err, r.name, targetID)
	}
	return n > 0, nil
}

// Add inserts the pair; it returns false when the pair already existed.
func (r *relationRepository[T]) Add(ctx context.Context, actorID, targetID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(r.newRow(actorID, targetID))
	if res.Error != nil {
		return false, wrapErr(res.Error, r.name, targetID)
	}
	return res.RowsAffected == 1, nil
}

// Remove deletes the pair; it returns false when there was nothing to delete.
func (r *relationRepository[T]) Remove(ctx context.Context, actorID, targetID uint) (bool, error) {
	res := r.pair(ctx, actorID, targetID).Delete(new(T))
	if res.Error != nil {
		return false, wrapErr(res.Error, r.name, targetID)
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository[T]) RemoveAllForTarget(ctx context.Context, targetID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where(r.targetCol+" = ?", targetID).Delete(new(T))
	return res.RowsAffected, wrapErr(res.Error, r.name, targetID)
}

// FilterTargets reports which of targetIDs the actor is related to.
func (r *relationRepository[T]) FilterTargets(ctx context.Context, actorID uint, targetIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if len(targetIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.actorCol+" = ? AND "+r.targetCol+" IN ?", actorID, uniqueIDs(targetIDs)).
		Pluck(r.targetCol, &ids).Error
	if err != nil {
		return nil, wrapErr(err, r.name, actorID)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// TargetsOf returns the actor's targets, most recent relation first.
func (r *relationRepository[T]) TargetsOf(ctx context.Context, actorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.actorCol+" = ?", actorID).
		Order("created_at DESC").Order("id DESC").
		Pluck(r.targetCol, &ids).Error
	return ids, wrapErr(err, r.name, actorID)
}

func (r *relationRepository[T]) CountForTarget(ctx context.Context, targetID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(r.targetCol+" = ?", targetID).Count(&n).Error
	return n, wrapErr(err, r.name, targetID)
}

func (r *relationRepository[T]) CountForActor(ctx context.Context, actorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(r.actorCol+" = ?", actorID).Count(&n).Error
	return n, wrapErr(err, r.name, actorID)
}
