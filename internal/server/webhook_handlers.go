package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"lumen/internal/middleware"
	"lumen/internal/models"
	"lumen/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	webhookIDHeader        = "svix-id"
	webhookTimestampHeader = "svix-timestamp"
	webhookSignatureHeader = "svix-signature"
	webhookTolerance       = 5 * time.Minute
)

var (
	errWebhookSecret    = errors.New("webhook secret is not configured")
	errWebhookTimestamp = errors.New("webhook timestamp outside tolerance")
	errWebhookSignature = errors.New("no matching webhook signature")
)

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		ImageURL  string `json:"image_url"`
	} `json:"data"`
}

// IdentityWebhook handles POST /api/webhooks/identity
func (s *Server) IdentityWebhook(c *fiber.Ctx) error {
	msgID := c.Get(webhookIDHeader)
	timestamp := c.Get(webhookTimestampHeader)
	signature := c.Get(webhookSignatureHeader)
	if msgID == "" || timestamp == "" || signature == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing webhook headers"))
	}

	body := c.Body()
	if err := verifyWebhook(s.config.WebhookSecret, msgID, timestamp, signature, body, time.Now()); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "webhook verification failed",
			"msg_id", msgID, "error", err)
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid webhook signature"))
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid webhook payload"))
	}

	if event.Type != "user.created" {
		return c.SendStatus(fiber.StatusOK)
	}

	in := service.ProvisionUserInput{
		ExternalID: event.Data.ID,
		FirstName:  event.Data.FirstName,
		LastName:   event.Data.LastName,
		ImageURL:   event.Data.ImageURL,
	}
	if len(event.Data.EmailAddresses) > 0 {
		in.Email = event.Data.EmailAddresses[0].EmailAddress
	}

	user, created, err := s.identityService.Provision(c.UserContext(), in)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "user provisioning failed",
			"external_id", in.ExternalID, "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	middleware.Logger.InfoContext(c.UserContext(), "user provisioned",
		"user_id", user.ID, "created", created)
	return c.SendStatus(fiber.StatusOK)
}

// verifyWebhook checks a signed webhook delivery. The secret is "whsec_"
// followed by a base64 key; the signature header holds one or more
// space-separated "v1,<base64 HMAC-SHA256(id.timestamp.body)>" entries.
func verifyWebhook(secret, msgID, timestamp, signatures string, body []byte, now time.Time) error {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil || len(key) == 0 {
		return errWebhookSecret
	}

	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errWebhookTimestamp
	}
	sent := time.Unix(sec, 0)
	if now.Sub(sent) > webhookTolerance || sent.Sub(now) > webhookTolerance {
		return errWebhookTimestamp
	}

	expected := signWebhook(key, msgID, timestamp, body)
	for _, candidate := range strings.Fields(signatures) {
		version, sig, ok := strings.Cut(candidate, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return errWebhookSignature
}

func signWebhook(key []byte, msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
