package models

import (
	"time"

	"github.com/lib/pq"
)

// User carries the public profile plus the follow graph. Identity itself
// (email, credentials) lives in the external auth provider; the id here is
// the provider's subject uuid.
type User struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username string `gorm:"column:username;type:text;uniqueIndex" json:"username"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`
	Bio      string `gorm:"column:bio;type:text" json:"bio"`
	Link     string `gorm:"column:link;type:text" json:"link"`

	ProfileImageURL string `gorm:"column:profile_image_url;type:text" json:"profile_image_url"`
	CoverImageURL   string `gorm:"column:cover_image_url;type:text" json:"cover_image_url"`

	Followers pq.StringArray `gorm:"column:followers;type:text[]" json:"followers"`
	Following pq.StringArray `gorm:"column:following;type:text[]" json:"following"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsFollowing(userID string) bool {
	for _, id := range u.Following {
		if id == userID {
			return true
		}
	}
	return false
}
