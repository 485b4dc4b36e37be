package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestExportTXT(t *testing.T) {
	segments := []Segment{
		{ID: "1", Text: "Hello world", StartTime: 0, EndTime: 2.9, Speaker: "User"},
		{ID: "2", Text: "second part", StartTime: 62.4, EndTime: 65},
	}

	out, err := Export(segments, FormatTXT)
	if err != nil {
		t.Fatalf("export txt: %v", err)
	}

	want := "[0:00 - 0:02] User: Hello world\n\n[1:02 - 1:05] Speaker: second part"
	if string(out) != want {
		t.Fatalf("txt export:\n%q\nwant:\n%q", out, want)
	}
}

func TestExportSRTScenario(t *testing.T) {
	segments := []Segment{{Text: "hi", StartTime: 0, EndTime: 2, Speaker: "User"}}

	out, err := Export(segments, FormatSRT)
	if err != nil {
		t.Fatalf("export srt: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\nhi\n"
	if string(out) != want {
		t.Fatalf("srt export:\n%q\nwant:\n%q", out, want)
	}
}

func TestExportSRTNumberingAndTiming(t *testing.T) {
	segments := []Segment{
		{ID: "a7", Text: "one", StartTime: 0.5, EndTime: 3661.25},
		{ID: "b3", Text: "two", StartTime: 3661.25, EndTime: 3700},
	}

	out, err := Export(segments, FormatSRT)
	if err != nil {
		t.Fatalf("export srt: %v", err)
	}
	want := "1\n00:00:00,500 --> 01:01:01,250\none\n" +
		"\n2\n01:01:01,250 --> 01:01:40,000\ntwo\n"
	if string(out) != want {
		t.Fatalf("srt export:\n%q\nwant:\n%q", out, want)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	segments := []Segment{
		{ID: "1", Text: "Hello", StartTime: 0, EndTime: 2.25, Speaker: "User",
			Confidence: 0.95, IsConfirmed: true},
		{ID: "2", Text: "um test", StartTime: 2.25, EndTime: 4, Speaker: "User",
			Confidence: 0.5, IsEdited: true, NeedsReview: true},
	}

	out, err := Export(segments, FormatJSON)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}

	var back []Segment
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal exported json: %v", err)
	}
	if !reflect.DeepEqual(back, segments) {
		t.Fatalf("round trip mismatch:\n%+v\nwant:\n%+v", back, segments)
	}
}

func TestExportDeterministic(t *testing.T) {
	segments := sampleSegments()
	for _, f := range []Format{FormatTXT, FormatSRT, FormatJSON} {
		a, err := Export(segments, f)
		if err != nil {
			t.Fatalf("export %s: %v", f, err)
		}
		b, err := Export(segments, f)
		if err != nil {
			t.Fatalf("export %s again: %v", f, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("%s export is not byte-identical across runs", f)
		}
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(sampleSegments(), Format("pdf"))
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	var uf *ErrUnsupportedFormat
	if !errors.As(err, &uf) {
		t.Fatalf("error type = %T, want *ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SRT ")
	if err != nil || f != FormatSRT {
		t.Fatalf("ParseFormat = %q, %v", f, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
