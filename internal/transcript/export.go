package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Format string

const (
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat indicates a caller bug, unlike the store's silent
// unknown-id policy.
type ErrUnsupportedFormat struct {
	Format Format
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported export format %q", string(e.Format))
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTXT, FormatSRT, FormatJSON:
		return f, nil
	default:
		return "", &ErrUnsupportedFormat{Format: f}
	}
}

// Ext returns the suggested file extension for a download.
func (f Format) Ext() string { return string(f) }

// Export renders segments to the requested format. It is a pure function:
// identical input yields byte-identical output. txt and srt drop the
// confidence and review flags; json is a lossless dump of every field.
func Export(segments []Segment, f Format) ([]byte, error) {
	switch f {
	case FormatTXT:
		return exportTXT(segments), nil
	case FormatSRT:
		return exportSRT(segments), nil
	case FormatJSON:
		return json.MarshalIndent(segments, "", "  ")
	default:
		return nil, &ErrUnsupportedFormat{Format: f}
	}
}

func exportTXT(segments []Segment) []byte {
	blocks := make([]string, len(segments))
	for i, seg := range segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Speaker"
		}
		blocks[i] = fmt.Sprintf("[%s - %s] %s: %s",
			formatClock(seg.StartTime), formatClock(seg.EndTime), speaker, seg.Text)
	}
	return []byte(strings.Join(blocks, "\n\n"))
}

func exportSRT(segments []Segment) []byte {
	blocks := make([]string, len(segments))
	for i, seg := range segments {
		blocks[i] = fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, formatSRTTime(seg.StartTime), formatSRTTime(seg.EndTime), seg.Text)
	}
	return []byte(strings.Join(blocks, "\n"))
}

// formatClock renders M:SS with unbounded minutes and no hours component.
func formatClock(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// formatSRTTime renders HH:MM:SS,mmm with milliseconds taken from the
// fractional part of the seconds value.
func formatSRTTime(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	ms := int(math.Floor(math.Mod(seconds, 1) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}
