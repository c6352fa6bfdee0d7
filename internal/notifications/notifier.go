// Package notifications publishes notification events for real-time consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"lumen/internal/models"

	"github.com/redis/go-redis/v9"
)

// Event is the payload published for a committed notification.
type Event struct {
	Type      string                  `json:"type"`
	Kind      models.NotificationType `json:"kind"`
	ID        uint                    `json:"id"`
	SenderID  uint                    `json:"sender_id"`
	PostID    *uint                   `json:"post_id,omitempty"`
	CommentID *uint                   `json:"comment_id,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, payload string,
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishNotification publishes a committed notification to its receiver.
// Delivery is best effort.
func (n *Notifier) PublishNotification(ctx context.Context, notif *models.Notification) error {
	if n == nil || n.rdb == nil || notif == nil {
		return nil
	}
	b, err := json.Marshal(Event{
		Type:      "notification",
		Kind:      notif.Type,
		ID:        notif.ID,
		SenderID:  notif.SenderID,
		PostID:    notif.PostID,
		CommentID: notif.CommentID,
		CreatedAt: notif.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return n.PublishUser(ctx, notif.ReceiverID, string(b))
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
