package service

import (
	"context"
	"time"

	"lumen/internal/cache"
	"lumen/internal/models"
	"lumen/internal/repository"
)

// FeedService answers the read-only post listings.
type FeedService struct {
	repos       *repository.Repositories
	featuredTTL time.Duration
}

// NewFeedService caches the featured listing for featuredTTL; zero disables it.
func NewFeedService(repos *repository.Repositories, featuredTTL time.Duration) *FeedService {
	return &FeedService{repos: repos, featuredTTL: featuredTTL}
}

// ListFeed returns every post newest first, annotated with its author and
// whether the actor liked or bookmarked it.
func (s *FeedService) ListFeed(ctx context.Context, actor *models.User) ([]*models.FeedPost, error) {
	posts, err := s.repos.Posts.ListNewest(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, actor, posts)
}

// ListFeatured returns every post ordered by likes, most liked first.
// Callers truncate for display.
func (s *FeedService) ListFeatured(ctx context.Context) ([]*models.FeedPost, error) {
	var out []*models.FeedPost
	fetch := func() error {
		posts, err := s.repos.Posts.ListByLikes(ctx)
		if err != nil {
			return err
		}
		out = make([]*models.FeedPost, 0, len(posts))
		for _, p := range posts {
			out = append(out, &models.FeedPost{Post: *p, Author: p.User.Summary()})
		}
		return nil
	}
	if s.featuredTTL <= 0 {
		return out, fetch()
	}
	if err := cache.Aside(ctx, "featured", cache.FeaturedKey, &out, s.featuredTTL, fetch); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPostsByUser returns the raw posts of userID, or of the actor when
// userID is nil, newest first. An unknown userID is NOT_FOUND.
func (s *FeedService) ListPostsByUser(ctx context.Context, actor *models.User, userID *uint) ([]*models.Post, error) {
	id := actor.ID
	if userID != nil {
		owner, err := s.repos.Users.GetByID(ctx, *userID)
		if err != nil {
			return nil, err
		}
		id = owner.ID
	}
	return s.repos.Posts.ListByUser(ctx, id)
}

// ListBookmarkedPosts returns the actor's bookmarked posts, most recently
// bookmarked first. Bookmarks of vanished posts are skipped.
func (s *FeedService) ListBookmarkedPosts(ctx context.Context, actor *models.User) ([]*models.FeedPost, error) {
	ids, err := s.repos.Bookmarks.TargetsOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	byID, err := s.repos.Posts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return s.annotate(ctx, actor, posts)
}

func (s *FeedService) annotate(ctx context.Context, actor *models.User, posts []*models.Post) ([]*models.FeedPost, error) {
	postIDs := make([]uint, 0, len(posts))
	var missingAuthors []uint
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if p.User == nil {
			missingAuthors = append(missingAuthors, p.UserID)
		}
	}

	liked, err := s.repos.Likes.FilterTargets(ctx, actor.ID, postIDs)
	if err != nil {
		return nil, err
	}
	bookmarked, err := s.repos.Bookmarks.FilterTargets(ctx, actor.ID, postIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.repos.Users.GetByIDs(ctx, missingAuthors)
	if err != nil {
		return nil, err
	}

	out := make([]*models.FeedPost, 0, len(posts))
	for _, p := range posts {
		author := p.User
		if author == nil {
			author = authors[p.UserID]
		}
		out = append(out, &models.FeedPost{
			Post:         *p,
			Author:       author.Summary(),
			IsLiked:      liked[p.ID],
			IsBookmarked: bookmarked[p.ID],
		})
	}
	return out, nil
}
