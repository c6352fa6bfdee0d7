package models

import "time"

// Comment is a text reply on a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment joined with its author.
type CommentView struct {
	Comment
	Author UserSummary `json:"author"`
}
