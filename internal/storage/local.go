package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lumen/internal/config"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const pendingDir = ".pending"

// LocalStore keeps blobs on disk. Upload URLs point back at this service,
// which accepts the bytes through Put.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	expiry   time.Duration
	now      func() time.Time
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(cfg *config.Config) (*LocalStore, error) {
	dir := filepath.Clean(cfg.StorageLocalDir)
	if err := os.MkdirAll(filepath.Join(dir, pendingDir), 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:      dir,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes: int64(cfg.ImageMaxUploadSizeMB) << 20,
		expiry:   uploadExpiry(cfg),
		now:      time.Now,
	}, nil
}

func (s *LocalStore) GenerateUploadURL(_ context.Context) (*UploadTarget, error) {
	id := newStorageID()
	expiresAt := s.now().Add(s.expiry).UTC()
	marker := filepath.Join(s.dir, pendingDir, id)
	if err := os.WriteFile(marker, []byte(expiresAt.Format(time.RFC3339Nano)), 0o600); err != nil {
		return nil, fmt.Errorf("reserve upload: %w", err)
	}
	return &UploadTarget{
		StorageID: id,
		UploadURL: s.baseURL + "/api/uploads/" + id,
		Method:    "PUT",
		ExpiresAt: expiresAt,
	}, nil
}

// Put stores the bytes for a reserved reference.
func (s *LocalStore) Put(_ context.Context, storageID string, r io.Reader) error {
	if !validStorageID(storageID) {
		return ErrInvalidStorageID
	}
	marker := filepath.Join(s.dir, pendingDir, storageID)
	raw, err := os.ReadFile(marker)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("read reservation: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil || s.now().After(expiresAt) {
		_ = os.Remove(marker)
		return ErrUploadExpired
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return ErrUploadTooLarge
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return ErrUnsupportedContent
	}

	tmp, err := os.CreateTemp(s.dir, storageID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.blobPath(storageID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit blob: %w", err)
	}
	_ = os.Remove(marker)
	return nil
}

func (s *LocalStore) ResolveURL(_ context.Context, storageID string) (string, error) {
	if _, err := s.FilePath(storageID); err != nil {
		return "", err
	}
	return s.baseURL + "/media/" + storageID, nil
}

// FilePath returns the on-disk path of an uploaded blob.
func (s *LocalStore) FilePath(storageID string) (string, error) {
	if !validStorageID(storageID) {
		return "", ErrInvalidStorageID
	}
	p := s.blobPath(storageID)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("stat blob: %w", err)
	}
	return p, nil
}

// Delete removes the blob. Deleting a missing blob succeeds.
func (s *LocalStore) Delete(_ context.Context, storageID string) error {
	if !validStorageID(storageID) {
		return ErrInvalidStorageID
	}
	for _, p := range []string{s.blobPath(storageID), filepath.Join(s.dir, pendingDir, storageID)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete blob: %w", err)
		}
	}
	return nil
}

func (s *LocalStore) blobPath(storageID string) string {
	return filepath.Join(s.dir, storageID)
}
