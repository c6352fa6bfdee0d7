// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"lumen/internal/models"
	"lumen/internal/service"
	"lumen/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Factory builds domain entities through the services so every counter
// and notification stays consistent with what real clients produce.
type Factory struct {
	identity      *service.IdentityService
	posts         *service.PostService
	relationships *service.RelationshipService
	faker         *gofakeit.Faker
	rng           *rand.Rand
}

// NewFactory creates a Factory seeded with seed; zero picks a time-based seed.
func NewFactory(identity *service.IdentityService, posts *service.PostService,
	relationships *service.RelationshipService, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		identity:      identity,
		posts:         posts,
		relationships: relationships,
		faker:         gofakeit.New(seed),
		//nolint:gosec // Weak random number generator is fine for seeding
		rng: rand.New(rand.NewSource(seed)),
	}
}

// CreateUser provisions a user the way the identity webhook does.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*service.ProvisionUserInput)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	in := service.ProvisionUserInput{
		ExternalID: "seed_" + uuid.NewString(),
		Email: fmt.Sprintf("%s.%s%d@example.com",
			strings.ToLower(first), strings.ToLower(last), f.faker.Number(100, 999)),
		FirstName: first,
		LastName:  last,
		ImageURL:  "https://i.pravatar.cc/150?u=" + f.faker.UUID(),
	}
	for _, override := range overrides {
		override(&in)
	}

	user, _, err := f.identity.Provision(ctx, in)
	return user, err
}

// CreatePost reserves a placeholder image and publishes a post for user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User) (*models.Post, error) {
	target, err := f.posts.GenerateUploadURL(ctx, user)
	if err != nil {
		return nil, err
	}
	caption := ""
	if f.rng.Intn(4) > 0 {
		caption = f.faker.Sentence(f.rng.Intn(10) + 3)
	}
	return f.posts.CreatePost(ctx, user, service.CreatePostInput{
		StorageID: target.StorageID,
		Caption:   caption,
	})
}

// CreateComment adds a short comment from user on post.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post) (*models.CommentView, error) {
	return f.posts.AddComment(ctx, user, service.AddCommentInput{
		PostID:  post.ID,
		Content: f.faker.Sentence(f.rng.Intn(8) + 2),
	})
}

// Like makes user like post if it does not already.
func (f *Factory) Like(ctx context.Context, user *models.User, post *models.Post) error {
	liked, err := f.relationships.ToggleLike(ctx, user, post.ID)
	if err != nil || liked {
		return err
	}
	_, err = f.relationships.ToggleLike(ctx, user, post.ID)
	return err
}

// Follow makes follower follow target if it does not already.
func (f *Factory) Follow(ctx context.Context, follower, target *models.User) error {
	following, err := f.relationships.ToggleFollow(ctx, follower, target.ID)
	if err != nil || following {
		return err
	}
	_, err = f.relationships.ToggleFollow(ctx, follower, target.ID)
	return err
}

// PlaceholderBlobs is a storage.BlobStore whose references always resolve to
// a stock photo, so seeded posts need no uploaded bytes.
type PlaceholderBlobs struct{}

var _ storage.BlobStore = PlaceholderBlobs{}

func (PlaceholderBlobs) GenerateUploadURL(_ context.Context) (*storage.UploadTarget, error) {
	id := uuid.NewString()
	return &storage.UploadTarget{
		StorageID: id,
		UploadURL: "about:blank",
		Method:    "PUT",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (PlaceholderBlobs) ResolveURL(_ context.Context, storageID string) (string, error) {
	return fmt.Sprintf("https://picsum.photos/seed/%s/1080/1080", storageID), nil
}

func (PlaceholderBlobs) Delete(_ context.Context, _ string) error {
	return nil
}
