package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LiveSession tracks one live speech-capture session. Segments arrive
// incrementally over the websocket pipeline and are buffered in Mongo
// until the session ends and a TranscriptRecord is assembled.
type LiveSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	Language string `bson:"language" json:"language"` // BCP-47, ex: en-US
	Status   string `bson:"status" json:"status"`     // active|ended
	Title    string `bson:"title,omitempty" json:"title,omitempty"`

	// TranscriptID is set when the session is ended: the id of the
	// transcript record the buffered segments were (or will be)
	// assembled into.
	TranscriptID string `bson:"transcript_id,omitempty" json:"transcript_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	DurationSeconds float64 `bson:"duration_seconds" json:"duration_seconds"`
}

// LiveSegment is one buffered transcript segment produced by the live
// transcription worker. Seq preserves arrival order; time fields are
// relative to session start since there is no backing audio file.
type LiveSegment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Seq       int64              `bson:"seq" json:"seq"`

	SegmentID  string  `bson:"segment_id" json:"segment_id"`
	Text       string  `bson:"text" json:"text"`
	StartTime  float64 `bson:"start_time" json:"start_time"`
	EndTime    float64 `bson:"end_time" json:"end_time"`
	Speaker    string  `bson:"speaker" json:"speaker"`
	Confidence float64 `bson:"confidence" json:"confidence"`

	NeedsReview bool `bson:"needs_review" json:"needs_review"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
