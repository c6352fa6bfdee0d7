// Package bootstrap assembles the process-wide dependencies shared by the
// server and the tooling commands.
package bootstrap

import (
	"context"
	"fmt"

	"lumen/internal/cache"
	"lumen/internal/config"
	"lumen/internal/database"
	"lumen/internal/middleware"
	"lumen/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs the configured schema policy after connecting.
	ApplySchema bool
	// SkipBlobs leaves Runtime.Blobs nil for commands that never touch media.
	SkipBlobs bool
}

// Runtime holds initialized infrastructure.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Blobs storage.BlobStore
}

// InitRuntime connects to the database, Redis and blob storage.
// Redis may be nil when unreachable; callers treat it as optional.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("schema apply failed: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)
	rt := &Runtime{DB: db, Redis: cache.GetClient()}

	if opts.SkipBlobs {
		return rt, nil
	}

	blobs, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("blob storage init failed: %w", err)
	}
	if ms, ok := blobs.(*storage.MinioStore); ok {
		if err := ms.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %q: %w", cfg.MinioBucket, err)
		}
	}
	middleware.Logger.Info("blob storage ready", "driver", cfg.StorageDriver)
	rt.Blobs = blobs
	return rt, nil
}
