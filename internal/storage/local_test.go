package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lumen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(&config.Config{
		StorageLocalDir:        t.TempDir(),
		PublicBaseURL:          "http://localhost:8375/",
		ImageMaxUploadSizeMB:   1,
		UploadURLExpiryMinutes: 10,
	})
	require.NoError(t, err)
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLocalStore_UploadLifecycle(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	target, err := s.GenerateUploadURL(ctx)
	require.NoError(t, err)
	assert.True(t, validStorageID(target.StorageID))
	assert.Equal(t, "http://localhost:8375/api/uploads/"+target.StorageID, target.UploadURL)
	assert.Equal(t, "PUT", target.Method)

	_, err = s.ResolveURL(ctx, target.StorageID)
	assert.ErrorIs(t, err, ErrObjectNotFound, "reserved but not uploaded")

	require.NoError(t, s.Put(ctx, target.StorageID, bytes.NewReader(pngBytes(t))))

	url, err := s.ResolveURL(ctx, target.StorageID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8375/media/"+target.StorageID, url)

	require.NoError(t, s.Delete(ctx, target.StorageID))
	_, err = s.ResolveURL(ctx, target.StorageID)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, target.StorageID))
}

func TestLocalStore_PutRejections(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	t.Run("unreserved id", func(t *testing.T) {
		err := s.Put(ctx, newStorageID(), bytes.NewReader(pngBytes(t)))
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		err := s.Put(ctx, "../etc/passwd", bytes.NewReader(pngBytes(t)))
		assert.ErrorIs(t, err, ErrInvalidStorageID)
	})

	t.Run("not an image", func(t *testing.T) {
		target, err := s.GenerateUploadURL(ctx)
		require.NoError(t, err)
		err = s.Put(ctx, target.StorageID, strings.NewReader("hello"))
		assert.ErrorIs(t, err, ErrUnsupportedContent)
	})

	t.Run("too large", func(t *testing.T) {
		target, err := s.GenerateUploadURL(ctx)
		require.NoError(t, err)
		err = s.Put(ctx, target.StorageID, bytes.NewReader(make([]byte, (1<<20)+1)))
		assert.ErrorIs(t, err, ErrUploadTooLarge)
	})

	t.Run("expired reservation", func(t *testing.T) {
		target, err := s.GenerateUploadURL(ctx)
		require.NoError(t, err)
		s.now = func() time.Time { return time.Now().Add(time.Hour) }
		defer func() { s.now = time.Now }()
		err = s.Put(ctx, target.StorageID, bytes.NewReader(pngBytes(t)))
		assert.ErrorIs(t, err, ErrUploadExpired)
		_, statErr := os.Stat(filepath.Join(s.dir, pendingDir, target.StorageID))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestNew_SelectsDriver(t *testing.T) {
	local, err := New(&config.Config{StorageDriver: config.StorageLocal, StorageLocalDir: t.TempDir(), ImageMaxUploadSizeMB: 1})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, local)

	remote, err := New(&config.Config{StorageDriver: config.StorageMinio, MinioEndpoint: "localhost:9000", MinioBucket: "posts"})
	require.NoError(t, err)
	assert.IsType(t, &MinioStore{}, remote)

	_, err = New(&config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
