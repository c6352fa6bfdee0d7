// Package models contains data structures for the application's domain models.
package models

import "time"

// Post is an image post. Likes and Comments are denormalized counters.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	StorageID string    `gorm:"size:191;not null;uniqueIndex" json:"storage_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	Caption   string    `gorm:"type:text" json:"caption"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Comments  int       `gorm:"not null;default:0" json:"comments"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// FeedPost is a post annotated with its author and the viewer's relation state.
type FeedPost struct {
	Post
	Author       UserSummary `json:"author"`
	IsLiked      bool        `json:"is_liked"`
	IsBookmarked bool        `json:"is_bookmarked"`
}
