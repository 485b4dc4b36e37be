package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type LiveSessionRepository interface {
	Create(ctx context.Context, s *models.LiveSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.LiveSession, error)
	End(ctx context.Context, sessionID string, endedAt time.Time, duration float64, transcriptID string) error
}

type liveSessionRepo struct {
	col *mongo.Collection
}

func NewLiveSessionRepo(db *mongo.Database) LiveSessionRepository {
	return &liveSessionRepo{col: db.Collection("live_sessions")}
}

func (r *liveSessionRepo) Create(ctx context.Context, s *models.LiveSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *liveSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.LiveSession, error) {
	var out models.LiveSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// End transitions an active session to ended and records the transcript
// the buffer is assembled into. The filter matches only active sessions,
// so concurrent enders race for one claim; the loser gets ErrNotFound.
func (r *liveSessionRepo) End(ctx context.Context, sessionID string, endedAt time.Time, duration float64, transcriptID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "status": "active"},
		bson.M{"$set": bson.M{
			"status":           "ended",
			"ended_at":         endedAt,
			"duration_seconds": duration,
			"transcript_id":    transcriptID,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

type LiveSegmentRepository interface {
	Append(ctx context.Context, seg *models.LiveSegment) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.LiveSegment, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type liveSegmentRepo struct {
	col *mongo.Collection
}

func NewLiveSegmentRepo(db *mongo.Database) LiveSegmentRepository {
	return &liveSegmentRepo{col: db.Collection("live_segments")}
}

func (r *liveSegmentRepo) Append(ctx context.Context, seg *models.LiveSegment) error {
	if seg.Timestamp.IsZero() {
		seg.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, seg)
	return err
}

// ListBySession returns buffered segments in arrival order, which is also
// time order for a single live capture. A limit <= 0 returns every
// buffered segment; session assembly must never drop any.
func (r *liveSegmentRepo) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.LiveSegment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		opts,
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LiveSegment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *liveSegmentRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"session_id": sessionID})
	return err
}
