package repository

import (
	"context"

	"lumen/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForReceiver(ctx context.Context, receiverID uint) ([]*models.Notification, error)
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
}

type notificationRepository struct {
	db   *gorm.DB
	read *gorm.DB
}

// NewNotificationRepository creates a new notification repository. Inbox
// listings run on read.
func NewNotificationRepository(db, read *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db, read: read}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := n.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	return wrapErr(r.db.WithContext(ctx).Create(n).Error, "Notification", n.ReceiverID)
}

// ListForReceiver returns the receiver's notifications newest first.
func (r *notificationRepository) ListForReceiver(ctx context.Context, receiverID uint) ([]*models.Notification, error) {
	var out []*models.Notification
	err := r.read.WithContext(ctx).Where("receiver_id = ?", receiverID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, wrapErr(err, "Notification", receiverID)
}

func (r *notificationRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Notification{})
	return res.RowsAffected, wrapErr(res.Error, "Notification", postID)
}
