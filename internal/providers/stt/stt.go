package stt

import (
	"context"

	"github.com/Vijayaa21/blabber/internal/transcript"
)

const (
	// DefaultReviewThreshold flags low-confidence segments from file-based
	// transcription for human review.
	DefaultReviewThreshold = 0.7
	// LiveReviewThreshold is stricter: live captures tend to be noisier.
	LiveReviewThreshold = 0.8
)

// Options are per-call source policy, not engine invariants. A zero
// ReviewThreshold means DefaultReviewThreshold.
type Options struct {
	Language        string
	ReviewThreshold float64
}

func (o Options) Threshold() float64 {
	if o.ReviewThreshold <= 0 {
		return DefaultReviewThreshold
	}
	return o.ReviewThreshold
}

// Provider turns raw audio into time-ordered transcript segments.
// A nil error with zero segments means the audio contained no speech;
// failure is always signalled through the error.
type Provider interface {
	TranscribeSegments(ctx context.Context, audio []byte, opts Options) ([]transcript.Segment, error)
	Close() error
}
