package service

import (
	"context"
	"strings"

	"lumen/internal/cache"
	"lumen/internal/middleware"
	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/observability"
	"lumen/internal/repository"
	"lumen/internal/storage"
	"lumen/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PostService creates and deletes posts and records comments on them.
type PostService struct {
	repos    *repository.Repositories
	blobs    storage.BlobStore
	notifier *notifications.Notifier
}

type CreatePostInput struct {
	StorageID string
	Caption   string
}

type AddCommentInput struct {
	PostID  uint
	Content string
}

func NewPostService(repos *repository.Repositories, blobs storage.BlobStore, notifier *notifications.Notifier) *PostService {
	return &PostService{repos: repos, blobs: blobs, notifier: notifier}
}

// GenerateUploadURL reserves a storage reference for a new post image.
func (s *PostService) GenerateUploadURL(ctx context.Context, actor *models.User) (*storage.UploadTarget, error) {
	target, err := s.blobs.GenerateUploadURL(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "upload reserved", "user_id", actor.ID, "storage_id", target.StorageID)
	return target, nil
}

// CreatePost records a post for an uploaded image and bumps the owner's
// post count.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in CreatePostInput) (post *models.Post, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost",
		attribute.Int64("user.id", int64(actor.ID)), attribute.String("storage.id", in.StorageID))
	defer func() { span.Finish(err) }()

	storageID := strings.TrimSpace(in.StorageID)
	if storageID == "" {
		return nil, models.NewValidationError("Storage ID is required")
	}
	caption, err := validation.Caption.Clean(in.Caption)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	imageURL, err := s.blobs.ResolveURL(ctx, storageID)
	if err != nil {
		return nil, models.NewStorageResolutionError(storageID, err)
	}

	post = &models.Post{
		UserID:    actor.ID,
		StorageID: storageID,
		ImageURL:  imageURL,
		Caption:   caption,
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		return tx.Users.AdjustCounter(ctx, actor.ID, repository.CounterPosts, 1)
	})
	if err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidateUsers(actor.ID)
	fx.invalidate(cache.FeaturedKey)
	fx.apply(ctx, s.notifier)
	return post, nil
}

// DeletePost removes an owned post with its likes, comments, bookmarks,
// notifications and blob, then decrements the owner's post count.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, postID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.DeletePost",
		attribute.Int64("user.id", int64(actor.ID)), attribute.Int64("post.id", int64(postID)))
	defer func() {
		span.Finish(err)
		observability.PostDeletes.WithLabelValues(deleteOutcome(err)).Inc()
	}()

	var storageID string
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID != actor.ID {
			return models.NewForbiddenError("Only the owner can delete this post")
		}
		storageID = post.StorageID

		if _, err := tx.Likes.RemoveAllForTarget(ctx, post.ID); err != nil {
			return err
		}
		if _, err := tx.Comments.DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		if _, err := tx.Bookmarks.RemoveAllForTarget(ctx, post.ID); err != nil {
			return err
		}
		if _, err := tx.Notifications.DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		if err := s.blobs.Delete(ctx, post.StorageID); err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Posts.Delete(ctx, post.ID); err != nil {
			return err
		}
		return tx.Users.AdjustCounter(ctx, actor.ID, repository.CounterPosts, -1)
	})
	if err != nil {
		if storageID != "" && !models.HasCode(err, models.CodeForbidden) {
			middleware.Logger.ErrorContext(ctx, "post delete rolled back",
				"post_id", postID, "storage_id", storageID, "error", err)
		}
		return err
	}

	var fx effects
	fx.invalidateUsers(actor.ID)
	fx.invalidate(cache.FeaturedKey)
	fx.apply(ctx, s.notifier)
	return nil
}

func deleteOutcome(err error) string {
	switch {
	case err == nil:
		return "deleted"
	case models.HasCode(err, models.CodeNotFound):
		return "not_found"
	case models.HasCode(err, models.CodeForbidden):
		return "forbidden"
	default:
		return "failed"
	}
}

// AddComment records a comment, bumps the post's comment count and notifies
// the post owner unless they wrote it.
func (s *PostService) AddComment(ctx context.Context, actor *models.User, in AddCommentInput) (view *models.CommentView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.AddComment",
		attribute.Int64("user.id", int64(actor.ID)), attribute.Int64("post.id", int64(in.PostID)))
	defer func() { span.Finish(err) }()

	content, err := validation.Comment.Clean(in.Content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{UserID: actor.ID, PostID: in.PostID, Content: content}
	var fx effects
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return err
		}
		if err := tx.Posts.AdjustCounter(ctx, post.ID, repository.CounterComments, 1); err != nil {
			return err
		}
		if post.UserID == actor.ID {
			return nil
		}
		n := models.NewCommentNotification(actor.ID, post.UserID, post.ID, comment.ID)
		if err := tx.Notifications.Create(ctx, n); err != nil {
			return err
		}
		fx.notify(n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	fx.invalidate(cache.FeaturedKey)
	fx.apply(ctx, s.notifier)
	return &models.CommentView{Comment: *comment, Author: actor.Summary()}, nil
}

// ListComments returns a post's comments oldest first with their authors.
func (s *PostService) ListComments(ctx context.Context, postID uint) ([]*models.CommentView, error) {
	if _, err := s.repos.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	authors, err := s.repos.Users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, &models.CommentView{Comment: *c, Author: authors[c.UserID].Summary()})
	}
	return out, nil
}
