package seed

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"
	"sort"

	"lumen/internal/models"
	"lumen/internal/repository"
	"lumen/internal/service"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed presets.yaml
var builtinPresets []byte

// Options sizes a seeding run.
type Options struct {
	Users              int   `yaml:"users"`
	PostsPerUser       int   `yaml:"posts_per_user"`
	MaxLikesPerPost    int   `yaml:"max_likes_per_post"`
	MaxCommentsPerPost int   `yaml:"max_comments_per_post"`
	FollowsPerUser     int   `yaml:"follows_per_user"`
	RandomSeed         int64 `yaml:"random_seed"`
}

type presetFile struct {
	Presets map[string]Options `yaml:"presets"`
}

// LoadPresets parses a presets document.
func LoadPresets(r io.Reader) (map[string]Options, error) {
	var doc presetFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	if len(doc.Presets) == 0 {
		return nil, fmt.Errorf("no presets defined")
	}
	return doc.Presets, nil
}

// Preset returns a built-in preset by name.
func Preset(name string) (Options, error) {
	var doc presetFile
	if err := yaml.Unmarshal(builtinPresets, &doc); err != nil {
		return Options{}, fmt.Errorf("decode built-in presets: %w", err)
	}
	opts, ok := doc.Presets[name]
	if !ok {
		names := make([]string, 0, len(doc.Presets))
		for n := range doc.Presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Options{}, fmt.Errorf("unknown preset %q (available: %v)", name, names)
	}
	return opts, nil
}

// Result counts what a seeding run created.
type Result struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
	Follows  int
}

// Seeder drives the services to populate a database.
type Seeder struct {
	db      *gorm.DB
	repos   *repository.Repositories
	factory *Factory
}

// NewSeeder wires the services against db with placeholder images and no
// event publishing.
func NewSeeder(db *gorm.DB, randomSeed int64) *Seeder {
	repos := repository.New(db)
	return &Seeder{
		db:    db,
		repos: repos,
		factory: NewFactory(
			service.NewIdentityService(repos),
			service.NewPostService(repos, PlaceholderBlobs{}, nil),
			service.NewRelationshipService(repos, nil),
			randomSeed,
		),
	}
}

// ClearAll deletes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🗑️  Clearing existing data...")
	tables := []any{
		&models.Notification{}, &models.Like{}, &models.Bookmark{}, &models.Follow{},
		&models.Comment{}, &models.Post{}, &models.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}
		return nil
	})
}

// Run creates users, their posts, then follows, likes and comments between them.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("users must be positive")
	}
	f := s.factory
	res := &Result{}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)
	log.Printf("✓ %d users created", res.Users)

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			p, err := f.CreatePost(ctx, u)
			if err != nil {
				return res, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, p)
		}
	}
	res.Posts = len(posts)
	log.Printf("✓ %d posts created", res.Posts)

	for _, u := range users {
		for _, target := range f.pick(users, opts.FollowsPerUser) {
			if target.ID == u.ID {
				continue
			}
			if err := f.Follow(ctx, u, target); err != nil {
				return res, fmt.Errorf("follow: %w", err)
			}
			res.Follows++
		}
	}
	log.Printf("✓ %d follows created", res.Follows)

	for _, p := range posts {
		for _, liker := range f.pick(users, f.upTo(opts.MaxLikesPerPost)) {
			if err := f.Like(ctx, liker, p); err != nil {
				return res, fmt.Errorf("like: %w", err)
			}
			res.Likes++
		}
		for _, commenter := range f.pick(users, f.upTo(opts.MaxCommentsPerPost)) {
			if _, err := f.CreateComment(ctx, commenter, p); err != nil {
				return res, fmt.Errorf("comment: %w", err)
			}
			res.Comments++
		}
	}
	log.Printf("✓ %d likes and %d comments created", res.Likes, res.Comments)

	return res, nil
}

// pick returns up to n distinct users in random order.
func (f *Factory) pick(users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	if n <= 0 {
		return nil
	}
	picked := make([]*models.User, 0, n)
	for _, i := range f.rng.Perm(len(users))[:n] {
		picked = append(picked, users[i])
	}
	return picked
}

func (f *Factory) upTo(n int) int {
	if n <= 0 {
		return 0
	}
	return f.rng.Intn(n + 1)
}
