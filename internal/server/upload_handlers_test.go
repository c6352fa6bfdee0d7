package server

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lumen/internal/config"
	"lumen/internal/middleware"
	"lumen/internal/models"
	"lumen/internal/storage"
	"lumen/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		JWTSecret:              testJWTSecret,
		PublicBaseURL:          "http://localhost:8375",
		StorageLocalDir:        t.TempDir(),
		ImageMaxUploadSizeMB:   1,
		UploadURLExpiryMinutes: 10,
	}
	blobs, err := storage.NewLocalStore(cfg)
	require.NoError(t, err)
	srv, err := NewServerWithDeps(cfg, db, nil, blobs)
	require.NoError(t, err)
	return &apiHarness{
		t:      t,
		db:     db,
		server: srv,
		app:    srv.newApp(),
		signer: middleware.NewTokenVerifier(testJWTSecret, "", ""),
	}
}

func (h *apiHarness) putBlob(user *models.User, storageID string, body []byte) int {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/uploads/"+storageID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Authorization", "Bearer "+h.token(user))
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestUploadBlob_LocalDriverRoundTrip(t *testing.T) {
	h := newLocalAPIHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice")

	var target storage.UploadTarget
	require.Equal(t, http.StatusCreated, h.do(alice, http.MethodPost, "/api/posts/upload-url", nil, &target))
	assert.Equal(t, "http://localhost:8375/api/uploads/"+target.StorageID, target.UploadURL)

	img := tinyPNG(t)
	require.Equal(t, http.StatusNoContent, h.putBlob(alice, target.StorageID, img))

	var post models.Post
	require.Equal(t, http.StatusCreated, h.do(alice, http.MethodPost, "/api/posts",
		fiber.Map{"storage_id": target.StorageID}, &post))
	assert.Equal(t, "http://localhost:8375/media/"+target.StorageID, post.ImageURL)

	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/media/"+target.StorageID, nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, img, served)
}

func TestUploadBlob_RejectsNonImage(t *testing.T) {
	h := newLocalAPIHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice")

	var target storage.UploadTarget
	require.Equal(t, http.StatusCreated, h.do(alice, http.MethodPost, "/api/posts/upload-url", nil, &target))
	assert.Equal(t, http.StatusBadRequest, h.putBlob(alice, target.StorageID, []byte("definitely not an image")))
}

func TestUploadBlob_UnreservedReference(t *testing.T) {
	h := newLocalAPIHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice")

	assert.Equal(t, http.StatusNotFound,
		h.putBlob(alice, "00000000-0000-4000-8000-000000000001", tinyPNG(t)))
}

func TestUploadRoutes_AbsentForRemoteDriver(t *testing.T) {
	h := newAPIHarness(t)
	alice := testutil.CreateUser(t, h.db, "alice")

	assert.Equal(t, http.StatusNotFound, h.putBlob(alice, "00000000-0000-4000-8000-000000000001", tinyPNG(t)))
}
