package server

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lumen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testWebhookKey    = []byte("webhook-signing-key-for-tests")
	testWebhookSecret = "whsec_" + base64.StdEncoding.EncodeToString(testWebhookKey)
)

const userCreatedPayload = `{
	"type": "user.created",
	"data": {
		"id": "user_2abc",
		"email_addresses": [{"email_address": "carol@example.com"}],
		"first_name": "Carol",
		"last_name": "Danvers",
		"image_url": "https://img.example.com/carol.png"
	}
}`

func signedWebhookRequest(t *testing.T, body string, ts time.Time, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	stamp := strconv.FormatInt(ts.Unix(), 10)
	req.Header.Set(webhookIDHeader, "msg_1")
	req.Header.Set(webhookTimestampHeader, stamp)
	if signature == "" {
		signature = "v1," + signWebhook(testWebhookKey, "msg_1", stamp, []byte(body))
	}
	req.Header.Set(webhookSignatureHeader, signature)
	return req
}

func TestVerifyWebhook(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	stamp := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"type":"user.created"}`)
	good := "v1," + signWebhook(testWebhookKey, "msg_1", stamp, body)

	tests := []struct {
		name      string
		secret    string
		timestamp string
		signature string
		wantErr   error
	}{
		{"valid", testWebhookSecret, stamp, good, nil},
		{"one of several signatures", testWebhookSecret, stamp, "v1,bm9wZQ== " + good, nil},
		{"wrong signature", testWebhookSecret, stamp, "v1,bm9wZQ==", errWebhookSignature},
		{"wrong version", testWebhookSecret, stamp, "v2," + good[3:], errWebhookSignature},
		{"stale timestamp", testWebhookSecret, strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10), good, errWebhookTimestamp},
		{"future timestamp", testWebhookSecret, strconv.FormatInt(now.Add(6*time.Minute).Unix(), 10), good, errWebhookTimestamp},
		{"garbage timestamp", testWebhookSecret, "yesterday", good, errWebhookTimestamp},
		{"missing secret", "", stamp, good, errWebhookSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyWebhook(tt.secret, "msg_1", tt.timestamp, tt.signature, body, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIdentityWebhook_ProvisionsUserOnce(t *testing.T) {
	h := newAPIHarness(t)

	for i := 0; i < 2; i++ {
		resp, err := h.app.Test(signedWebhookRequest(t, userCreatedPayload, time.Now(), ""), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var users []models.User
	require.NoError(t, h.db.Where("external_id = ?", "user_2abc").Find(&users).Error)
	require.Len(t, users, 1)
	u := users[0]
	assert.Equal(t, "carol", u.Username)
	assert.Equal(t, "Carol Danvers", u.Fullname)
	assert.Equal(t, "https://img.example.com/carol.png", u.AvatarURL)
	assert.Equal(t, "", u.Bio)
	assert.Zero(t, u.Followers)
	assert.Zero(t, u.Following)
	assert.Zero(t, u.Posts)
}

func TestIdentityWebhook_RejectsBadSignature(t *testing.T) {
	h := newAPIHarness(t)

	resp, err := h.app.Test(signedWebhookRequest(t, userCreatedPayload, time.Now(), "v1,bm9wZQ=="), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var count int64
	require.NoError(t, h.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIdentityWebhook_MissingHeaders(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewBufferString(userCreatedPayload))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIdentityWebhook_IgnoresOtherEvents(t *testing.T) {
	h := newAPIHarness(t)

	resp, err := h.app.Test(signedWebhookRequest(t, `{"type":"user.deleted","data":{"id":"user_2abc"}}`, time.Now(), ""), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var count int64
	require.NoError(t, h.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIdentityWebhook_ProvisioningFailureIs500(t *testing.T) {
	h := newAPIHarness(t)

	resp, err := h.app.Test(signedWebhookRequest(t, `{"type":"user.created","data":{"id":""}}`, time.Now(), ""), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
