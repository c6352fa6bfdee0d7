package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NotificationType discriminates the notification variant.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

var (
	// ErrSelfNotification is returned when sender and receiver are the same user.
	ErrSelfNotification = errors.New("notification sender and receiver must differ")
	// ErrNotificationShape is returned when the references do not match the type.
	ErrNotificationShape = errors.New("notification references do not match its type")
)

// Notification is a tagged variant: like carries PostID, comment carries
// PostID and CommentID, follow carries neither. Use the New*Notification
// constructors; BeforeCreate rejects any other shape.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	SenderID   uint             `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint             `gorm:"not null;index:idx_notifications_receiver_created,priority:1" json:"receiver_id"`
	Type       NotificationType `gorm:"size:16;not null" json:"type"`
	PostID     *uint            `gorm:"index" json:"post_id,omitempty"`
	CommentID  *uint            `json:"comment_id,omitempty"`
	CreatedAt  time.Time        `gorm:"index:idx_notifications_receiver_created,priority:2" json:"created_at"`
}

func NewLikeNotification(senderID, receiverID, postID uint) *Notification {
	return &Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       NotificationLike,
		PostID:     &postID,
	}
}

func NewCommentNotification(senderID, receiverID, postID, commentID uint) *Notification {
	return &Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       NotificationComment,
		PostID:     &postID,
		CommentID:  &commentID,
	}
}

func NewFollowNotification(senderID, receiverID uint) *Notification {
	return &Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       NotificationFollow,
	}
}

// Validate checks the variant invariants.
func (n *Notification) Validate() error {
	if n.SenderID == n.ReceiverID {
		return ErrSelfNotification
	}
	switch n.Type {
	case NotificationLike:
		if n.PostID == nil || n.CommentID != nil {
			return fmt.Errorf("%w: like", ErrNotificationShape)
		}
	case NotificationComment:
		if n.PostID == nil || n.CommentID == nil {
			return fmt.Errorf("%w: comment", ErrNotificationShape)
		}
	case NotificationFollow:
		if n.PostID != nil || n.CommentID != nil {
			return fmt.Errorf("%w: follow", ErrNotificationShape)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrNotificationShape, n.Type)
	}
	return nil
}

// BeforeCreate refuses to persist an invalid variant.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	return n.Validate()
}

// NotificationView is a notification joined with the data the inbox displays.
// Missing references leave the corresponding fields empty.
type NotificationView struct {
	ID             uint             `json:"id"`
	Type           NotificationType `json:"type"`
	Sender         *UserSummary     `json:"sender,omitempty"`
	PostID         *uint            `json:"post_id,omitempty"`
	PostImageURL   string           `json:"post_image_url,omitempty"`
	CommentID      *uint            `json:"comment_id,omitempty"`
	CommentContent string           `json:"comment_content,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
