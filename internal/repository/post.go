package repository

import (
	"context"

	"lumen/internal/models"
	"lumen/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Post, error)
	ListNewest(ctx context.Context) ([]*models.Post, error)
	ListByLikes(ctx context.Context) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	AdjustCounter(ctx context.Context, id uint, counter Counter, delta int) error
}

// postRepository implements PostRepository
type postRepository struct {
	db   *gorm.DB
	read *gorm.DB
}

// NewPostRepository creates a new post repository. Feed listings run on read.
func NewPostRepository(db, read *gorm.DB) PostRepository {
	return &postRepository{db: db, read: read}
}

// Create inserts post. A storage reference backs at most one post; reusing one
// is a validation error.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "storage_id"}}, DoNothing: true}).
		Create(post)
	if res.Error != nil {
		return wrapErr(res.Error, "Post", post.StorageID)
	}
	if res.RowsAffected == 0 {
		return models.NewValidationError("Image is already attached to another post")
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, wrapErr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Post, error) {
	out := make(map[uint]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []*models.Post
	if err := r.read.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&posts).Error; err != nil {
		return nil, wrapErr(err, "Post", ids)
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

// ListNewest returns every post with its author, newest first.
func (r *postRepository) ListNewest(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("list_newest", "posts")()
	var posts []*models.Post
	err := r.read.WithContext(ctx).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, wrapErr(err, "Post", "feed")
}

// ListByLikes returns every post with its author, most liked first.
func (r *postRepository) ListByLikes(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_likes", "posts")()
	var posts []*models.Post
	err := r.read.WithContext(ctx).Preload("User").
		Order("likes DESC").Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, wrapErr(err, "Post", "featured")
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.read.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, wrapErr(err, "Post", userID)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return wrapErr(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) AdjustCounter(ctx context.Context, id uint, counter Counter, delta int) error {
	if err := checkCounter(postCounters, counter, "post"); err != nil {
		return models.NewInternalError(err)
	}
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn(string(counter), counterExpr(counter, delta)).Error
	return wrapErr(err, "Post", id)
}
