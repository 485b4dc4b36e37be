package transcript

// Segment is a time-bounded, speaker-attributed span of transcribed text.
// JSON field names match the wire format the web client renders and saves,
// so the json export round-trips losslessly.
type Segment struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	StartTime  float64 `json:"startTime"` // seconds from start of audio
	EndTime    float64 `json:"endTime"`
	Speaker    string  `json:"speaker"`
	Confidence float64 `json:"confidence"` // [0,1] from the transcription source

	IsConfirmed bool `json:"isConfirmed"`
	IsEdited    bool `json:"isEdited"`
	NeedsReview bool `json:"needsReview"`
}

type Status string

const (
	StatusConfirmed   Status = "confirmed"
	StatusEdited      Status = "edited"
	StatusNeedsReview Status = "needs-review"
	StatusPending     Status = "pending"
)

// Status classifies a segment for display. Exactly one status applies;
// confirmation always wins over the other flags.
func (s Segment) Status() Status {
	switch {
	case s.IsConfirmed:
		return StatusConfirmed
	case s.IsEdited:
		return StatusEdited
	case s.NeedsReview:
		return StatusNeedsReview
	default:
		return StatusPending
	}
}

// Duration of a transcript is derived from the last segment's end time.
func Duration(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].EndTime
}
