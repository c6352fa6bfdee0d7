// Package storage implements the blob store that holds post images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lumen/internal/config"

	"github.com/google/uuid"
)

var (
	// ErrObjectNotFound is returned when a storage reference has no uploaded bytes.
	ErrObjectNotFound = errors.New("storage object not found")
	// ErrInvalidStorageID is returned for references that are not UUIDs.
	ErrInvalidStorageID = errors.New("invalid storage id")
	// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	// ErrUnsupportedContent is returned when uploaded bytes are not a supported image.
	ErrUnsupportedContent = errors.New("upload is not a supported image")
	// ErrUploadExpired is returned when the reservation for a reference lapsed.
	ErrUploadExpired = errors.New("upload url expired")
)

// UploadTarget is a reserved storage reference plus where to send its bytes.
type UploadTarget struct {
	StorageID string    `json:"storage_id"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BlobStore is the external blob service posts reference by storage ID.
type BlobStore interface {
	GenerateUploadURL(ctx context.Context) (*UploadTarget, error)
	ResolveURL(ctx context.Context, storageID string) (string, error)
	Delete(ctx context.Context, storageID string) error
}

// New returns the blob store selected by STORAGE_DRIVER.
func New(cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageDriver {
	case config.StorageLocal:
		return NewLocalStore(cfg)
	case config.StorageMinio:
		return NewMinioStore(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func newStorageID() string {
	return uuid.NewString()
}

func validStorageID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func uploadExpiry(cfg *config.Config) time.Duration {
	if cfg.UploadURLExpiryMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(cfg.UploadURLExpiryMinutes) * time.Minute
}
