package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Vijayaa21/blabber/internal/models"
	mongorepo "github.com/Vijayaa21/blabber/internal/repositories/mongo"
	"github.com/Vijayaa21/blabber/internal/transcript"
	"github.com/Vijayaa21/blabber/internal/utils"
)

// LiveService coordinates live speech-capture sessions: segments stream in
// from the transcription worker, accumulate in the Mongo buffer, and are
// assembled into a transcript record when the session ends.
type LiveService interface {
	Start(ctx context.Context, userID, language, title string) (*models.LiveSession, error)
	Get(ctx context.Context, sessionID string) (*models.LiveSession, error)
	AppendSegment(ctx context.Context, sessionID string, seq int64, seg transcript.Segment) error
	End(ctx context.Context, sessionID string) (*models.TranscriptRecord, error)
}

type liveService struct {
	sessions    mongorepo.LiveSessionRepository
	segments    mongorepo.LiveSegmentRepository
	transcripts TranscriptService
	bufferTTL   time.Duration
}

func NewLiveService(sessions mongorepo.LiveSessionRepository, segments mongorepo.LiveSegmentRepository, transcripts TranscriptService, bufferTTL time.Duration) LiveService {
	if bufferTTL <= 0 {
		bufferTTL = 24 * time.Hour
	}
	return &liveService{sessions: sessions, segments: segments, transcripts: transcripts, bufferTTL: bufferTTL}
}

func (s *liveService) Start(ctx context.Context, userID, language, title string) (*models.LiveSession, error) {
	const op = "LiveService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if language == "" {
		language = "en-US"
	}

	sess := &models.LiveSession{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Language:  language,
		Status:    "active",
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return sess, nil
}

func (s *liveService) Get(ctx context.Context, sessionID string) (*models.LiveSession, error) {
	const op = "LiveService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return sess, nil
}

func (s *liveService) AppendSegment(ctx context.Context, sessionID string, seq int64, seg transcript.Segment) error {
	const op = "LiveService.AppendSegment"

	if sessionID == "" || seq <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required and seq must be > 0", nil)
	}

	now := time.Now().UTC()
	doc := &models.LiveSegment{
		SessionID:   sessionID,
		Seq:         seq,
		SegmentID:   seg.ID,
		Text:        seg.Text,
		StartTime:   seg.StartTime,
		EndTime:     seg.EndTime,
		Speaker:     seg.Speaker,
		Confidence:  seg.Confidence,
		NeedsReview: seg.NeedsReview,
		Timestamp:   now,
		ExpiresAt:   now.Add(s.bufferTTL),
	}
	if err := s.segments.Append(ctx, doc); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to buffer segment", err)
	}
	return nil
}

// End closes the session and turns the buffered segments into a durable
// transcript record. The session is claimed (active -> ended, with the
// record id stored on it) before the record is written, so a retried End
// resolves to the already-built record instead of inserting a duplicate.
// Live captures have no backing audio file, so the record's audio URL
// stays nil.
func (s *liveService) End(ctx context.Context, sessionID string) (*models.TranscriptRecord, error) {
	const op = "LiveService.End"

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	buffered, err := s.segments.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read buffered segments", err)
	}

	segments := make([]transcript.Segment, 0, len(buffered))
	for _, b := range buffered {
		segments = append(segments, transcript.Segment{
			ID:          b.SegmentID,
			Text:        b.Text,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Speaker:     b.Speaker,
			Confidence:  b.Confidence,
			NeedsReview: b.NeedsReview,
		})
	}

	recID := sess.TranscriptID
	if sess.Status == "ended" {
		if recID == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "session already ended", nil)
		}
		rec, gerr := s.transcripts.Get(ctx, sess.UserID, recID)
		if gerr == nil {
			return rec, nil
		}
		if !utils.IsCode(gerr, utils.CodeNotFound) {
			return nil, gerr
		}
		// claimed on an earlier attempt but the record never landed;
		// rebuild it under the same id
	} else {
		recID = uuid.NewString()
		now := time.Now().UTC()
		if err := s.sessions.End(ctx, sessionID, now, transcript.Duration(segments), recID); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeInvalidArgument, op, "session already ended", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
		}
	}

	rec, err := s.transcripts.CreateFromSegments(ctx, recID, sess.UserID, sess.Title, nil, segments)
	if err != nil {
		return nil, err
	}
	_ = s.segments.DeleteBySession(ctx, sessionID) // TTL would reap them anyway

	return rec, nil
}
