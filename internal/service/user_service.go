package service

import (
	"context"

	"lumen/internal/cache"
	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/repository"
	"lumen/internal/validation"
)

// UserService serves profiles and profile edits.
type UserService struct {
	repos    *repository.Repositories
	notifier *notifications.Notifier
}

// UpdateProfileInput carries a profile edit. A nil Bio leaves the stored bio
// unchanged; a pointer to "" clears it.
type UpdateProfileInput struct {
	Fullname string
	Bio      *string
}

func NewUserService(repos *repository.Repositories, notifier *notifications.Notifier) *UserService {
	return &UserService{repos: repos, notifier: notifier}
}

// GetProfile returns the user row, served from cache when possible.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, "user", cache.UserKey(userID), &user, cache.UserTTL, func() error {
		u, err := s.repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByExternalID returns the local user for an external identity.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	user, err := s.repos.Users.GetByExternalID(ctx, externalID)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewUserNotFoundError(externalID)
	}
	return user, err
}

// UpdateProfile edits the actor's fullname and, when given, bio.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, in UpdateProfileInput) (*models.User, error) {
	fullname, err := validation.Fullname.Clean(in.Fullname)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	var bio *string
	if in.Bio != nil {
		cleaned, err := validation.Bio.Clean(*in.Bio)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		bio = &cleaned
	}

	if err := s.repos.Users.UpdateProfile(ctx, actor.ID, fullname, bio); err != nil {
		return nil, err
	}

	var fx effects
	fx.invalidateUsers(actor.ID)
	fx.invalidate(cache.FeaturedKey)
	fx.apply(ctx, s.notifier)

	return s.repos.Users.GetByID(ctx, actor.ID)
}
