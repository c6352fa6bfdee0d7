// Command main runs the database seeder for Lumen.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"lumen/internal/bootstrap"
	"lumen/internal/config"
	"lumen/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 30, "Number of users to create")
	postsPerUser := flag.Int("posts", 4, "Posts per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a named preset (tiny, demo, crowded)")
	presetFile := flag.String("preset-file", "", "YAML file with additional presets")
	randomSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	verify := flag.Bool("verify", true, "Recount relations afterwards and report counter drift")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	opts := seed.Options{
		Users:              *numUsers,
		PostsPerUser:       *postsPerUser,
		MaxLikesPerPost:    *numUsers / 2,
		MaxCommentsPerPost: 4,
		FollowsPerUser:     *numUsers / 3,
		RandomSeed:         *randomSeed,
	}
	if *preset != "" {
		var err error
		opts, err = resolvePreset(*preset, *presetFile)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if *randomSeed != 0 {
			opts.RandomSeed = *randomSeed
		}
		log.Printf("Applying preset: %s (ignoring size flags)\n", *preset)
	}
	log.Printf("Target: %d users, %d posts each, clean=%v\n", opts.Users, opts.PostsPerUser, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true, SkipBlobs: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(rt.DB, opts.RandomSeed)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, opts)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Printf("✨ All done! users=%d posts=%d likes=%d comments=%d follows=%d",
		res.Users, res.Posts, res.Likes, res.Comments, res.Follows)

	if !*verify {
		return
	}
	mismatches, err := s.Verify(ctx)
	if err != nil {
		log.Fatalf("❌ Verification failed: %v", err)
	}
	for _, m := range mismatches {
		log.Printf("⚠️  %s", m)
	}
	if len(mismatches) > 0 {
		os.Exit(1)
	}
}

func resolvePreset(name, file string) (seed.Options, error) {
	if file == "" {
		return seed.Preset(name)
	}
	f, err := os.Open(file)
	if err != nil {
		return seed.Options{}, err
	}
	defer func() { _ = f.Close() }()
	presets, err := seed.LoadPresets(f)
	if err != nil {
		return seed.Options{}, err
	}
	if opts, ok := presets[name]; ok {
		return opts, nil
	}
	return seed.Preset(name)
}
