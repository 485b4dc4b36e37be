package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Text     string `gorm:"column:text;type:text" json:"text"`
	ImageURL string `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	AudioURL string `gorm:"column:audio_url;type:text" json:"audio_url,omitempty"`

	// Audio posts carry their transcript as a separate record.
	TranscriptID *string `gorm:"column:transcript_id;type:uuid;index" json:"transcript_id,omitempty"`

	LikedBy pq.StringArray `gorm:"column:liked_by;type:text[]" json:"liked_by"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

func (p *Post) IsLikedBy(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
