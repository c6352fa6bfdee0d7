package repository

import (
	"context"

	"lumen/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Comment, error)
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return wrapErr(r.db.WithContext(ctx).Create(comment).Error, "Comment", comment.PostID)
}

// ListByPost returns the post's comments oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, wrapErr(err, "Comment", postID)
}

func (r *commentRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Comment, error) {
	out := make(map[uint]*models.Comment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&comments).Error; err != nil {
		return nil, wrapErr(err, "Comment", ids)
	}
	for _, c := range comments {
		out[c.ID] = c
	}
	return out, nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	return res.RowsAffected, wrapErr(res.Error, "Comment", postID)
}
