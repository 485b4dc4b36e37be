package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type TranscriptRepository interface {
	Insert(ctx context.Context, rec *models.TranscriptRecord) error
	GetByID(ctx context.Context, id string) (*models.TranscriptRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.TranscriptRecord, error)
	UpdateSegments(ctx context.Context, id string, segments datatypes.JSON, duration float64) error
	Delete(ctx context.Context, id string) error
}

type transcriptRepo struct {
	db *gorm.DB
}

func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Insert(ctx context.Context, rec *models.TranscriptRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *transcriptRepo) GetByID(ctx context.Context, id string) (*models.TranscriptRecord, error) {
	var row models.TranscriptRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *transcriptRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.TranscriptRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.TranscriptRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// UpdateSegments replaces the stored segment list wholesale and bumps
// updated_at; every edit, confirm, or flag lands through here.
func (r *transcriptRepo) UpdateSegments(ctx context.Context, id string, segments datatypes.JSON, duration float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.TranscriptRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"segments":         segments,
			"duration_seconds": duration,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *transcriptRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TranscriptRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
