package stt

import (
	"context"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/Vijayaa21/blabber/internal/transcript"
)

// minSegmentSeconds is the synthesized duration for recognition results
// that carry no word offsets and no result end time.
const minSegmentSeconds = 0.1

type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	var opts []option.ClientOption
	if f := os.Getenv("GOOGLE_CREDENTIALS_FILE"); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, // let the API sniff containers (webm/ogg/wav)
		SampleRateHz: 0,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

// TranscribeSegments recognizes the audio with word time offsets enabled
// and folds each recognition result into one time-bounded segment. Results
// arrive in audio order, so the segment list is already time-ordered.
func (g *GoogleSpeech) TranscribeSegments(ctx context.Context, audio []byte, opts Options) ([]transcript.Segment, error) {
	language := opts.Language
	if language == "" {
		language = "en-US"
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   g.Encoding,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
			EnableWordTimeOffsets:      true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, err
	}

	return foldResults(resp.Results, opts.Threshold()), nil
}

func foldResults(results []*speechpb.SpeechRecognitionResult, threshold float64) []transcript.Segment {
	var segments []transcript.Segment
	var lastEnd float64
	for _, r := range results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if alt.Transcript == "" {
			continue
		}

		start, end := lastEnd, lastEnd
		if len(alt.Words) > 0 {
			start = alt.Words[0].StartTime.AsDuration().Seconds()
			end = alt.Words[len(alt.Words)-1].EndTime.AsDuration().Seconds()
		} else if r.ResultEndTime != nil {
			end = r.ResultEndTime.AsDuration().Seconds()
		}
		// Results without usable offsets must still produce a valid
		// start < end window.
		if end <= start {
			end = start + minSegmentSeconds
		}
		lastEnd = end

		conf := float64(alt.Confidence)
		segments = append(segments, transcript.Segment{
			ID:          uuid.NewString(),
			Text:        strings.TrimSpace(alt.Transcript),
			StartTime:   start,
			EndTime:     end,
			Speaker:     "User",
			Confidence:  conf,
			NeedsReview: conf < threshold,
		})
	}
	return segments
}
