package models

import "time"

// User is the local record for an external identity. Followers, Following
// and Posts are denormalized counters maintained by the write paths.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"size:191;not null;uniqueIndex" json:"external_id"`
	Username   string    `gorm:"size:64;not null;index" json:"username"`
	Fullname   string    `gorm:"size:128" json:"fullname"`
	Email      string    `gorm:"size:255" json:"email"`
	AvatarURL  string    `json:"avatar_url"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Followers  int       `gorm:"not null;default:0" json:"followers"`
	Following  int       `gorm:"not null;default:0" json:"following"`
	Posts      int       `gorm:"not null;default:0" json:"posts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSummary is the author/sender projection embedded in read models.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	AvatarURL string `json:"avatar_url"`
}

// Summary projects the user onto its display fields.
func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		AvatarURL: u.AvatarURL,
	}
}
