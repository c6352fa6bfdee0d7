package service

import (
	"context"

	"lumen/internal/models"
	"lumen/internal/repository"
)

// NotificationService reads a user's notifications joined with what they
// reference.
type NotificationService struct {
	repos *repository.Repositories
}

func NewNotificationService(repos *repository.Repositories) *NotificationService {
	return &NotificationService{repos: repos}
}

// ListNotifications returns the actor's notifications newest first. Each is
// joined with its sender, the referenced post's image and, for comments, the
// comment text. References that no longer resolve are left empty.
func (s *NotificationService) ListNotifications(ctx context.Context, actor *models.User) ([]*models.NotificationView, error) {
	notifs, err := s.repos.Notifications.ListForReceiver(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var senderIDs, postIDs, commentIDs []uint
	for _, n := range notifs {
		senderIDs = append(senderIDs, n.SenderID)
		if n.PostID != nil {
			postIDs = append(postIDs, *n.PostID)
		}
		if n.CommentID != nil {
			commentIDs = append(commentIDs, *n.CommentID)
		}
	}

	senders, err := s.repos.Users.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	posts, err := s.repos.Posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.GetByIDs(ctx, commentIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*models.NotificationView, 0, len(notifs))
	for _, n := range notifs {
		view := &models.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			PostID:    n.PostID,
			CommentID: n.CommentID,
			CreatedAt: n.CreatedAt,
		}
		if sender, ok := senders[n.SenderID]; ok {
			summary := sender.Summary()
			view.Sender = &summary
		}
		if n.PostID != nil {
			if p, ok := posts[*n.PostID]; ok {
				view.PostImageURL = p.ImageURL
			}
		}
		if n.Type == models.NotificationComment && n.CommentID != nil {
			if c, ok := comments[*n.CommentID]; ok {
				view.CommentContent = c.Content
			}
		}
		out = append(out, view)
	}
	return out, nil
}
