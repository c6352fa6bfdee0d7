package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lumen/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultMinioRegion = "us-east-1"

// MinioStore keeps blobs in an S3-compatible bucket. Clients upload directly
// with a presigned PUT URL.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
}

// NewMinioStore builds the client. No request is made until first use.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: defaultMinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	publicURL := strings.TrimRight(cfg.MinioPublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/")
	}
	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: publicURL,
		expiry:    uploadExpiry(cfg),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: defaultMinioRegion}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (s *MinioStore) GenerateUploadURL(ctx context.Context) (*UploadTarget, error) {
	id := newStorageID()
	u, err := s.client.PresignedPutObject(ctx, s.bucket, id, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTarget{
		StorageID: id,
		UploadURL: u.String(),
		Method:    http.MethodPut,
		ExpiresAt: time.Now().Add(s.expiry).UTC(),
	}, nil
}

func (s *MinioStore) ResolveURL(ctx context.Context, storageID string) (string, error) {
	if !validStorageID(storageID) {
		return "", ErrInvalidStorageID
	}
	if _, err := s.client.StatObject(ctx, s.bucket, storageID, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("stat object: %w", err)
	}
	return s.objectURL(storageID), nil
}

func (s *MinioStore) Delete(ctx context.Context, storageID string) error {
	if !validStorageID(storageID) {
		return ErrInvalidStorageID
	}
	if err := s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{}); err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *MinioStore) objectURL(storageID string) string {
	return s.publicURL + "/" + s.bucket + "/" + storageID
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
