package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationVariants(t *testing.T) {
	t.Parallel()

	postID := uint(7)
	commentID := uint(9)

	tests := []struct {
		name    string
		n       *Notification
		wantErr error
	}{
		{"like", NewLikeNotification(1, 2, 7), nil},
		{"comment", NewCommentNotification(1, 2, 7, 9), nil},
		{"follow", NewFollowNotification(1, 2), nil},
		{"self like", NewLikeNotification(3, 3, 7), ErrSelfNotification},
		{"self follow", NewFollowNotification(3, 3), ErrSelfNotification},
		{"like without post", &Notification{SenderID: 1, ReceiverID: 2, Type: NotificationLike}, ErrNotificationShape},
		{"like with comment", &Notification{SenderID: 1, ReceiverID: 2, Type: NotificationLike, PostID: &postID, CommentID: &commentID}, ErrNotificationShape},
		{"comment without comment id", &Notification{SenderID: 1, ReceiverID: 2, Type: NotificationComment, PostID: &postID}, ErrNotificationShape},
		{"follow with post", &Notification{SenderID: 1, ReceiverID: 2, Type: NotificationFollow, PostID: &postID}, ErrNotificationShape},
		{"unknown type", &Notification{SenderID: 1, ReceiverID: 2, Type: "mention"}, ErrNotificationShape},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.n.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNotificationConstructorsCarryReferences(t *testing.T) {
	t.Parallel()

	c := NewCommentNotification(1, 2, 3, 4)
	assert.Equal(t, NotificationComment, c.Type)
	if assert.NotNil(t, c.PostID) && assert.NotNil(t, c.CommentID) {
		assert.Equal(t, uint(3), *c.PostID)
		assert.Equal(t, uint(4), *c.CommentID)
	}

	f := NewFollowNotification(1, 2)
	assert.Nil(t, f.PostID)
	assert.Nil(t, f.CommentID)
}
