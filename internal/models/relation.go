package models

import "time"

// Like records that a user currently likes a post. One row per pair.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post,priority:1" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post,priority:2;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark records that a user saved a post. One row per pair.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post,priority:1" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post,priority:2;index" json:"post_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Follow records that FollowerID follows FollowingID. One row per ordered pair.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair,priority:1" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follows_pair,priority:2;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
