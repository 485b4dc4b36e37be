package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type PostRepository interface {
	Insert(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context, limit int) ([]models.Post, error)
	ListByUsers(ctx context.Context, userIDs []string, limit int) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, id string) error
}

type postRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Insert(ctx context.Context, p *models.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var row models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *postRepo) ListAll(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *postRepo) ListByUsers(ctx context.Context, userIDs []string, limit int) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *postRepo) AddLike(ctx context.Context, postID, userID string) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE posts SET liked_by = array_append(liked_by, ?) WHERE id = ? AND NOT (? = ANY(coalesce(liked_by, '{}')))`,
		userID, postID, userID)
	return res.Error
}

func (r *postRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE posts SET liked_by = array_remove(liked_by, ?) WHERE id = ?`,
		userID, postID).Error
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
