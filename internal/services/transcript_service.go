package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/providers/stt"
	pgrepo "github.com/Vijayaa21/blabber/internal/repositories/postgres"
	"github.com/Vijayaa21/blabber/internal/storage"
	"github.com/Vijayaa21/blabber/internal/transcript"
	"github.com/Vijayaa21/blabber/internal/utils"
)

const maxAudioBytes = 50 << 20 // 50MB

var allowedAudioTypes = map[string]string{
	"audio/mpeg": "mp3",
	"audio/mp3":  "mp3",
	"audio/wav":  "wav",
	"audio/ogg":  "ogg",
	"audio/mp4":  "m4a",
	"audio/webm": "webm",
}

type GenerateInput struct {
	Audio    []byte
	MimeType string
	FileName string
	Title    string
	Language string
}

type TranscriptService interface {
	Generate(ctx context.Context, userID string, in GenerateInput) (*models.TranscriptRecord, error)
	Get(ctx context.Context, userID, id string) (*models.TranscriptRecord, error)
	List(ctx context.Context, userID string, limit int) ([]models.TranscriptRecord, error)
	Delete(ctx context.Context, userID, id string) error

	SaveSegments(ctx context.Context, userID, id string, segments []transcript.Segment) (*models.TranscriptRecord, error)
	UpdateSegmentText(ctx context.Context, userID, id, segmentID, text string) (*models.TranscriptRecord, error)
	ConfirmSegment(ctx context.Context, userID, id, segmentID string) (*models.TranscriptRecord, error)
	FlagSegment(ctx context.Context, userID, id, segmentID string) (*models.TranscriptRecord, error)

	Stats(ctx context.Context, userID, id string) (transcript.Stats, error)
	Export(ctx context.Context, userID, id, format string) (payload []byte, filename string, err error)

	// CreateFromSegments persists an already-generated segment list, e.g.
	// when a live capture session ends. audioURL is nil for live capture.
	// An empty id generates one; callers pass an id to make a retried
	// create land on the same record.
	CreateFromSegments(ctx context.Context, id, userID, title string, audioURL *string, segments []transcript.Segment) (*models.TranscriptRecord, error)
}

type transcriptService struct {
	repo     pgrepo.TranscriptRepository
	provider stt.Provider
	uploader storage.Uploader
}

func NewTranscriptService(repo pgrepo.TranscriptRepository, provider stt.Provider, uploader storage.Uploader) TranscriptService {
	return &transcriptService{repo: repo, provider: provider, uploader: uploader}
}

// Generate runs the full file-based pipeline: validate, transcribe, store
// the audio, persist the record. Nothing is written until the transcription
// source has succeeded, so a failed generation never leaves a partial
// transcript behind.
func (s *transcriptService) Generate(ctx context.Context, userID string, in GenerateInput) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.Generate"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if len(in.Audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no audio provided", nil)
	}
	if len(in.Audio) > maxAudioBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio must be smaller than 50MB", nil)
	}
	ext, ok := allowedAudioTypes[in.MimeType]
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio must be MP3, WAV, OGG, MP4, or WebM", nil)
	}

	segments, err := s.provider.TranscribeSegments(ctx, in.Audio, stt.Options{
		Language:        in.Language,
		ReviewThreshold: stt.DefaultReviewThreshold,
	})
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "transcription failed", err)
	}

	var audioURL *string
	if s.uploader != nil {
		objectName := path.Join("audio", uuid.NewString()+"."+ext)
		url, uerr := s.uploader.Upload(ctx, objectName, in.MimeType, bytes.NewReader(in.Audio))
		if uerr != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to store audio", uerr)
		}
		audioURL = &url
	}

	title := in.Title
	if title == "" {
		title = "Recording " + time.Now().UTC().Format("2006-01-02 15:04")
	}

	raw, err := encodeSegments(segments)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode segments", err)
	}

	now := time.Now().UTC()
	rec := &models.TranscriptRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           title,
		AudioURL:        audioURL,
		AudioFileName:   in.FileName,
		AudioSize:       int64(len(in.Audio)),
		Segments:        raw,
		DurationSeconds: transcript.Duration(segments),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist transcript", err)
	}
	return rec, nil
}

func (s *transcriptService) CreateFromSegments(ctx context.Context, id, userID, title string, audioURL *string, segments []transcript.Segment) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.CreateFromSegments"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if id == "" {
		id = uuid.NewString()
	}
	raw, err := encodeSegments(segments)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode segments", err)
	}
	if title == "" {
		title = "Live capture " + time.Now().UTC().Format("2006-01-02 15:04")
	}

	now := time.Now().UTC()
	rec := &models.TranscriptRecord{
		ID:              id,
		UserID:          userID,
		Title:           title,
		AudioURL:        audioURL,
		Segments:        raw,
		DurationSeconds: transcript.Duration(segments),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist transcript", err)
	}
	return rec, nil
}

func (s *transcriptService) Get(ctx context.Context, userID, id string) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.Get"
	return s.owned(ctx, op, userID, id)
}

func (s *transcriptService) List(ctx context.Context, userID string, limit int) ([]models.TranscriptRecord, error) {
	const op = "TranscriptService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list transcripts", err)
	}
	return out, nil
}

func (s *transcriptService) Delete(ctx context.Context, userID, id string) error {
	const op = "TranscriptService.Delete"

	if _, err := s.owned(ctx, op, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete transcript", err)
	}
	return nil
}

// SaveSegments replaces the stored list with the client's current editing
// state. Edits racing a save simply land in the next save; there is one
// editing session per transcript, so no locking.
func (s *transcriptService) SaveSegments(ctx context.Context, userID, id string, segments []transcript.Segment) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.SaveSegments"

	rec, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return nil, err
	}
	return s.persistSegments(ctx, op, rec, segments)
}

func (s *transcriptService) UpdateSegmentText(ctx context.Context, userID, id, segmentID, text string) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.UpdateSegmentText"
	return s.applySegmentOp(ctx, op, userID, id, func(store *transcript.Store) bool {
		return store.UpdateText(segmentID, text)
	})
}

func (s *transcriptService) ConfirmSegment(ctx context.Context, userID, id, segmentID string) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.ConfirmSegment"
	return s.applySegmentOp(ctx, op, userID, id, func(store *transcript.Store) bool {
		return store.MarkConfirmed(segmentID)
	})
}

func (s *transcriptService) FlagSegment(ctx context.Context, userID, id, segmentID string) (*models.TranscriptRecord, error) {
	const op = "TranscriptService.FlagSegment"
	return s.applySegmentOp(ctx, op, userID, id, func(store *transcript.Store) bool {
		return store.MarkNeedsReview(segmentID)
	})
}

func (s *transcriptService) Stats(ctx context.Context, userID, id string) (transcript.Stats, error) {
	const op = "TranscriptService.Stats"

	rec, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return transcript.Stats{}, err
	}
	segments, err := DecodeSegments(rec.Segments)
	if err != nil {
		return transcript.Stats{}, utils.E(utils.CodeInternal, op, "corrupt segment data", err)
	}
	return transcript.ComputeStats(segments), nil
}

// Export renders the stored segments. The format error is loud, unlike the
// benign unknown-segment no-ops: a bad format is a caller bug.
func (s *transcriptService) Export(ctx context.Context, userID, id, format string) ([]byte, string, error) {
	const op = "TranscriptService.Export"

	f, err := transcript.ParseFormat(format)
	if err != nil {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "unsupported export format", err)
	}

	rec, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return nil, "", err
	}
	segments, err := DecodeSegments(rec.Segments)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "corrupt segment data", err)
	}

	payload, err := transcript.Export(segments, f)
	if err != nil {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "unsupported export format", err)
	}
	return payload, fmt.Sprintf("transcript.%s", f.Ext()), nil
}

// applySegmentOp loads the record into a Store, runs one mutation, and
// persists the result. An unknown segment id is a no-op: the record is
// returned unchanged and nothing is written.
func (s *transcriptService) applySegmentOp(ctx context.Context, op, userID, id string, mutate func(*transcript.Store) bool) (*models.TranscriptRecord, error) {
	rec, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return nil, err
	}

	segments, err := DecodeSegments(rec.Segments)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "corrupt segment data", err)
	}

	store := transcript.NewStore()
	store.Load(segments)
	if !mutate(store) {
		return rec, nil
	}
	return s.persistSegments(ctx, op, rec, store.Segments())
}

func (s *transcriptService) persistSegments(ctx context.Context, op string, rec *models.TranscriptRecord, segments []transcript.Segment) (*models.TranscriptRecord, error) {
	raw, err := encodeSegments(segments)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode segments", err)
	}
	duration := transcript.Duration(segments)
	if err := s.repo.UpdateSegments(ctx, rec.ID, raw, duration); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save segments", err)
	}
	rec.Segments = raw
	rec.DurationSeconds = duration
	rec.UpdatedAt = time.Now().UTC()
	return rec, nil
}

func (s *transcriptService) owned(ctx context.Context, op, userID, id string) (*models.TranscriptRecord, error) {
	if userID == "" || id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and transcript id are required", nil)
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "transcript not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load transcript", err)
	}
	if rec.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	return rec, nil
}

func encodeSegments(segments []transcript.Segment) (datatypes.JSON, error) {
	if segments == nil {
		segments = []transcript.Segment{}
	}
	b, err := json.Marshal(segments)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeSegments unpacks the JSONB segment column back into the editing
// model.
func DecodeSegments(raw datatypes.JSON) ([]transcript.Segment, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var segments []transcript.Segment
	if err := json.Unmarshal(raw, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}
