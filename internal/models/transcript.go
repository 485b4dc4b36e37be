package models

import (
	"time"

	"gorm.io/datatypes"
)

// TranscriptRecord is the persisted form of an edited transcript. Segments
// are stored as the JSON wire format produced by the transcript package so
// the record round-trips through the editing surface unchanged.
type TranscriptRecord struct {
	ID     string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string  `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	PostID *string `gorm:"column:post_id;type:uuid;index" json:"post_id,omitempty"`

	Title string `gorm:"column:title;type:text" json:"title"`

	// Nullable: live-capture transcripts have no backing audio file.
	AudioURL      *string `gorm:"column:audio_url;type:text" json:"audio_url,omitempty"`
	AudioFileName string  `gorm:"column:audio_file_name;type:text" json:"audio_file_name,omitempty"`
	AudioSize     int64   `gorm:"column:audio_size;type:bigint" json:"audio_size,omitempty"`

	Segments datatypes.JSON `gorm:"column:segments;type:jsonb" json:"segments"`

	DurationSeconds float64 `gorm:"column:duration_seconds;type:double precision" json:"duration_seconds"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (TranscriptRecord) TableName() string { return "transcripts" }
