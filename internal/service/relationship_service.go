package service

import (
	"context"

	"lumen/internal/cache"
	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/observability"
	"lumen/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RelationshipService toggles likes, bookmarks and follows.
//
// Each toggle is one transaction. The branch is chosen by the rows affected
// by a conditional delete and an insert-if-absent, so concurrent toggles on
// the same pair cannot both take the same branch and counters track rows.
type RelationshipService struct {
	repos    *repository.Repositories
	notifier *notifications.Notifier
}

func NewRelationshipService(repos *repository.Repositories, notifier *notifications.Notifier) *RelationshipService {
	return &RelationshipService{repos: repos, notifier: notifier}
}

// toggle flips the (actor, target) relation. onChange runs in the same
// transaction with +1 after an insert or -1 after a delete; it is skipped
// when a concurrent caller already inserted the pair.
func toggle(
	ctx context.Context,
	rel repository.RelationRepository,
	actorID, targetID uint,
	onChange func(delta int) error,
) (bool, error) {
	removed, err := rel.Remove(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, onChange(-1)
	}
	added, err := rel.Add(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if !added {
		// Lost the insert race: the winner already counted and notified.
		return true, nil
	}
	return true, onChange(1)
}

// ToggleLike likes or unlikes a post and reports whether it is now liked.
func (s *RelationshipService) ToggleLike(ctx context.Context, actor *models.User, postID uint) (liked bool, err error) {
	span, ctx := observability.NewSpan(ctx, "RelationshipService.ToggleLike",
		attribute.Int64("user.id", int64(actor.ID)), attribute.Int64("post.id", int64(postID)))
	defer func() { span.Finish(err) }()

	var fx effects
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		liked, err = toggle(ctx, tx.Likes, actor.ID, post.ID, func(delta int) error {
			if err := tx.Posts.AdjustCounter(ctx, post.ID, repository.CounterLikes, delta); err != nil {
				return err
			}
			if delta < 0 || post.UserID == actor.ID {
				return nil
			}
			n := models.NewLikeNotification(actor.ID, post.UserID, post.ID)
			if err := tx.Notifications.Create(ctx, n); err != nil {
				return err
			}
			fx.notify(n)
			return nil
		})
		return err
	})
	if err != nil {
		return false, err
	}

	observability.RecordToggle("like", liked)
	fx.invalidate(cache.FeaturedKey)
	fx.apply(ctx, s.notifier)
	return liked, nil
}

// ToggleBookmark saves or unsaves a post. Bookmarks carry no counter and
// emit no notification.
func (s *RelationshipService) ToggleBookmark(ctx context.Context, actor *models.User, postID uint) (bookmarked bool, err error) {
	span, ctx := observability.NewSpan(ctx, "RelationshipService.ToggleBookmark",
		attribute.Int64("user.id", int64(actor.ID)), attribute.Int64("post.id", int64(postID)))
	defer func() { span.Finish(err) }()

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		bookmarked, err = toggle(ctx, tx.Bookmarks, actor.ID, post.ID, func(int) error { return nil })
		return err
	})
	if err != nil {
		return false, err
	}

	observability.RecordToggle("bookmark", bookmarked)
	return bookmarked, nil
}

// ToggleFollow follows or unfollows targetID and reports whether the actor
// now follows them. Only the follow branch notifies.
func (s *RelationshipService) ToggleFollow(ctx context.Context, actor *models.User, targetID uint) (following bool, err error) {
	span, ctx := observability.NewSpan(ctx, "RelationshipService.ToggleFollow",
		attribute.Int64("user.id", int64(actor.ID)), attribute.Int64("target.id", int64(targetID)))
	defer func() { span.Finish(err) }()

	if targetID == actor.ID {
		return false, models.NewValidationError("You cannot follow yourself")
	}

	var fx effects
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		target, err := tx.Users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		following, err = toggle(ctx, tx.Follows, actor.ID, target.ID, func(delta int) error {
			if err := tx.Users.AdjustCounter(ctx, actor.ID, repository.CounterFollowing, delta); err != nil {
				return err
			}
			if err := tx.Users.AdjustCounter(ctx, target.ID, repository.CounterFollowers, delta); err != nil {
				return err
			}
			fx.invalidateUsers(actor.ID, target.ID)
			if delta < 0 {
				return nil
			}
			n := models.NewFollowNotification(actor.ID, target.ID)
			if err := tx.Notifications.Create(ctx, n); err != nil {
				return err
			}
			fx.notify(n)
			return nil
		})
		return err
	})
	if err != nil {
		return false, err
	}

	observability.RecordToggle("follow", following)
	fx.apply(ctx, s.notifier)
	return following, nil
}

// IsFollowing reports whether the actor follows targetID.
func (s *RelationshipService) IsFollowing(ctx context.Context, actor *models.User, targetID uint) (bool, error) {
	return s.repos.Follows.Exists(ctx, actor.ID, targetID)
}
