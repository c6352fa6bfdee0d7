package service

import (
	"context"
	"strings"

	"lumen/internal/models"
	"lumen/internal/repository"
)

// IdentityService maps external identities onto local users.
type IdentityService struct {
	repos *repository.Repositories
}

func NewIdentityService(repos *repository.Repositories) *IdentityService {
	return &IdentityService{repos: repos}
}

// Resolve returns the local user for an authenticated external identity.
func (s *IdentityService) Resolve(ctx context.Context, externalID string) (*models.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, models.NewUnauthenticatedError("Missing caller identity")
	}
	user, err := s.repos.Users.GetByExternalID(ctx, externalID)
	if models.HasCode(err, models.CodeNotFound) {
		return nil, models.NewUserNotFoundError(externalID)
	}
	return user, err
}

// ProvisionUserInput is the identity provider's account-created payload.
type ProvisionUserInput struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	ImageURL   string
}

// Provision creates the local user for a new external identity. Replayed
// events return the existing user with created == false.
func (s *IdentityService) Provision(ctx context.Context, in ProvisionUserInput) (user *models.User, created bool, err error) {
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		return nil, false, models.NewValidationError("External identity is required")
	}

	email := strings.TrimSpace(in.Email)
	username := UsernameFromEmail(email)
	if username == "" {
		username = externalID
	}

	user = &models.User{
		ExternalID: externalID,
		Username:   username,
		Fullname:   strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName)),
		Email:      email,
		AvatarURL:  in.ImageURL,
	}
	created, err = s.repos.Users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, false, err
	}
	if !created {
		user, err = s.repos.Users.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, false, err
		}
	}
	return user, created, nil
}

// UsernameFromEmail derives a username from the local part of an address.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
