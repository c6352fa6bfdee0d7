// Package service implements the social-graph operations on top of the
// repositories. Every operation takes the resolved actor explicitly.
package service

import (
	"context"

	"lumen/internal/cache"
	"lumen/internal/middleware"
	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/observability"
)

// effects collects what a committed mutation must announce. It runs only after
// the transaction commits so readers never see events for rolled-back rows.
type effects struct {
	notifications []*models.Notification
	users         []uint
	keys          []string
}

func (e *effects) notify(n *models.Notification) {
	e.notifications = append(e.notifications, n)
}

func (e *effects) invalidateUsers(ids ...uint) {
	e.users = append(e.users, ids...)
}

func (e *effects) invalidate(keys ...string) {
	e.keys = append(e.keys, keys...)
}

func (e *effects) apply(ctx context.Context, notifier *notifications.Notifier) {
	for _, n := range e.notifications {
		observability.NotificationsEmitted.WithLabelValues(string(n.Type)).Inc()
		if err := notifier.PublishNotification(ctx, n); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish notification",
				"notification_id", n.ID, "receiver_id", n.ReceiverID, "error", err)
		}
	}
	cache.InvalidateUser(ctx, e.users...)
	cache.Invalidate(ctx, e.keys...)
}
