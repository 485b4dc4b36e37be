package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type UserRepository interface {
	Upsert(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error
	AddFollow(ctx context.Context, followerID, followedID string) error
	RemoveFollow(ctx context.Context, followerID, followedID string) error
	Suggested(ctx context.Context, forUserID string, limit int) ([]models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Upsert(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *userRepo) UpdateProfile(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// AddFollow appends each side of the edge with array_append, guarded so a
// repeated follow stays idempotent.
func (r *userRepo) AddFollow(ctx context.Context, followerID, followedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE users SET following = array_append(following, ?) WHERE id = ? AND NOT (? = ANY(coalesce(following, '{}')))`,
			followedID, followerID, followedID).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE users SET followers = array_append(followers, ?) WHERE id = ? AND NOT (? = ANY(coalesce(followers, '{}')))`,
			followerID, followedID, followerID).Error
	})
}

func (r *userRepo) RemoveFollow(ctx context.Context, followerID, followedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE users SET following = array_remove(following, ?) WHERE id = ?`,
			followedID, followerID).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE users SET followers = array_remove(followers, ?) WHERE id = ?`,
			followerID, followedID).Error
	})
}

// Suggested returns users the given user does not already follow.
func (r *userRepo) Suggested(ctx context.Context, forUserID string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", forUserID).
		Where("NOT (? = ANY(coalesce(followers, '{}')))", forUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
