package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/providers/stt"
	"github.com/Vijayaa21/blabber/internal/transcript"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type fakeTranscriptRepo struct {
	records   map[string]*models.TranscriptRecord
	inserts   int
	updates   int
	insertErr error
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{records: map[string]*models.TranscriptRecord{}}
}

func (r *fakeTranscriptRepo) Insert(_ context.Context, rec *models.TranscriptRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserts++
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeTranscriptRepo) GetByID(_ context.Context, id string) (*models.TranscriptRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeTranscriptRepo) ListByUser(_ context.Context, userID string, _ int) ([]models.TranscriptRecord, error) {
	var out []models.TranscriptRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeTranscriptRepo) UpdateSegments(_ context.Context, id string, segments datatypes.JSON, duration float64) error {
	rec, ok := r.records[id]
	if !ok {
		return utils.ErrNotFound
	}
	r.updates++
	rec.Segments = segments
	rec.DurationSeconds = duration
	return nil
}

func (r *fakeTranscriptRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

type fakeSTT struct {
	segments []transcript.Segment
	err      error
	lastOpts stt.Options
}

func (f *fakeSTT) TranscribeSegments(_ context.Context, _ []byte, opts stt.Options) ([]transcript.Segment, error) {
	f.lastOpts = opts
	return f.segments, f.err
}

func (f *fakeSTT) Close() error { return nil }

type fakeUploader struct {
	objects []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, objectName, _ string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.objects = append(f.objects, objectName)
	return "https://storage.example.com/" + objectName, nil
}

func testSegments() []transcript.Segment {
	return []transcript.Segment{
		{ID: "1", Text: "Hello world", StartTime: 0, EndTime: 5, Speaker: "User", Confidence: 0.95},
		{ID: "2", Text: "um test", StartTime: 5, EndTime: 8, Speaker: "User", Confidence: 0.60, NeedsReview: true},
	}
}

func seed(t *testing.T, repo *fakeTranscriptRepo, userID string, segments []transcript.Segment) *models.TranscriptRecord {
	t.Helper()
	raw, err := encodeSegments(segments)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rec := &models.TranscriptRecord{
		ID:       "t1",
		UserID:   userID,
		Title:    "seeded",
		Segments: raw,
	}
	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	repo.inserts = 0
	return rec
}

func TestGenerateValidation(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{segments: testSegments()}, &fakeUploader{})

	cases := []struct {
		name string
		in   GenerateInput
	}{
		{"empty audio", GenerateInput{MimeType: "audio/mpeg"}},
		{"bad mime", GenerateInput{Audio: []byte("x"), MimeType: "video/avi"}},
		{"too large", GenerateInput{Audio: make([]byte, maxAudioBytes+1), MimeType: "audio/mpeg"}},
	}
	for _, tc := range cases {
		if _, err := svc.Generate(context.Background(), "u1", tc.in); !utils.IsCode(err, utils.CodeInvalidArgument) {
			t.Fatalf("%s: want INVALID_ARGUMENT, got %v", tc.name, err)
		}
	}
	if repo.inserts != 0 {
		t.Fatalf("rejected input must not persist, got %d inserts", repo.inserts)
	}
}

func TestGenerateFailureLeavesNothing(t *testing.T) {
	repo := newFakeTranscriptRepo()
	provider := &fakeSTT{err: errors.New("speech api down")}
	svc := NewTranscriptService(repo, provider, &fakeUploader{})

	_, err := svc.Generate(context.Background(), "u1", GenerateInput{
		Audio:    []byte("audio-bytes"),
		MimeType: "audio/wav",
		FileName: "memo.wav",
	})
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("want UNAVAILABLE, got %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("failed generation must not persist, got %d inserts", repo.inserts)
	}
}

func TestGeneratePersistsRecord(t *testing.T) {
	repo := newFakeTranscriptRepo()
	provider := &fakeSTT{segments: testSegments()}
	up := &fakeUploader{}
	svc := NewTranscriptService(repo, provider, up)

	rec, err := svc.Generate(context.Background(), "u1", GenerateInput{
		Audio:    []byte("audio-bytes"),
		MimeType: "audio/mpeg",
		FileName: "memo.mp3",
		Title:    "Standup notes",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Title != "Standup notes" {
		t.Fatalf("title = %q", rec.Title)
	}
	if rec.DurationSeconds != 8 {
		t.Fatalf("duration = %v, want 8", rec.DurationSeconds)
	}
	if rec.AudioURL == nil || !strings.HasPrefix(*rec.AudioURL, "https://storage.example.com/audio/") {
		t.Fatalf("audio url = %v", rec.AudioURL)
	}
	if len(up.objects) != 1 || !strings.HasSuffix(up.objects[0], ".mp3") {
		t.Fatalf("uploaded objects = %v", up.objects)
	}
	if provider.lastOpts.Threshold() != stt.DefaultReviewThreshold {
		t.Fatalf("threshold = %v", provider.lastOpts.Threshold())
	}

	got, err := DecodeSegments(rec.Segments)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Text != "Hello world" {
		t.Fatalf("stored segments = %+v", got)
	}
}

func TestUpdateSegmentTextPersists(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)
	seed(t, repo, "u1", testSegments())

	rec, err := svc.UpdateSegmentText(context.Background(), "u1", "t1", "2", "  a test  ")
	if err != nil {
		t.Fatalf("UpdateSegmentText: %v", err)
	}
	segments, err := DecodeSegments(rec.Segments)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if segments[1].Text != "a test" || !segments[1].IsEdited {
		t.Fatalf("segment = %+v", segments[1])
	}
	if repo.updates != 1 {
		t.Fatalf("updates = %d, want 1", repo.updates)
	}
}

func TestSegmentOpNoopSkipsWrite(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)
	seeded := seed(t, repo, "u1", testSegments())

	// Unknown id: returned record is unchanged, nothing written.
	rec, err := svc.ConfirmSegment(context.Background(), "u1", "t1", "no-such-id")
	if err != nil {
		t.Fatalf("ConfirmSegment: %v", err)
	}
	if string(rec.Segments) != string(seeded.Segments) {
		t.Fatalf("record changed on unknown id")
	}

	// Unchanged text: same.
	if _, err := svc.UpdateSegmentText(context.Background(), "u1", "t1", "1", "Hello world"); err != nil {
		t.Fatalf("UpdateSegmentText: %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("updates = %d, want 0", repo.updates)
	}
}

func TestConfirmThenStats(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)
	seed(t, repo, "u1", testSegments())

	if _, err := svc.ConfirmSegment(context.Background(), "u1", "t1", "2"); err != nil {
		t.Fatalf("ConfirmSegment: %v", err)
	}
	stats, err := svc.Stats(context.Background(), "u1", "t1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Confirmed != 1 || stats.NeedsReview != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)
	seed(t, repo, "u1", testSegments())

	if _, err := svc.Get(context.Background(), "intruder", "t1"); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("want FORBIDDEN, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "u1", "missing"); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestExportFilenameAndFormat(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)
	seed(t, repo, "u1", testSegments())

	payload, filename, err := svc.Export(context.Background(), "u1", "t1", "SRT")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filename != "transcript.srt" {
		t.Fatalf("filename = %q", filename)
	}
	if !strings.Contains(string(payload), "00:00:00,000 --> 00:00:05,000") {
		t.Fatalf("payload = %q", payload)
	}

	if _, _, err := svc.Export(context.Background(), "u1", "t1", "pdf"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT, got %v", err)
	}
}

func TestCreateFromSegmentsNilAudio(t *testing.T) {
	repo := newFakeTranscriptRepo()
	svc := NewTranscriptService(repo, &fakeSTT{}, nil)

	rec, err := svc.CreateFromSegments(context.Background(), "", "u1", "", nil, testSegments())
	if err != nil {
		t.Fatalf("CreateFromSegments: %v", err)
	}
	if rec.AudioURL != nil {
		t.Fatalf("live capture should have no audio url, got %v", rec.AudioURL)
	}
	if !strings.HasPrefix(rec.Title, "Live capture ") {
		t.Fatalf("title = %q", rec.Title)
	}
	if rec.DurationSeconds != 8 {
		t.Fatalf("duration = %v", rec.DurationSeconds)
	}
}
