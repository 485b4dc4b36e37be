package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Vijayaa21/blabber/internal/models"
	pgrepo "github.com/Vijayaa21/blabber/internal/repositories/postgres"
	"github.com/Vijayaa21/blabber/internal/utils"
)

type ProfileUpdate struct {
	FullName        *string `json:"full_name"`
	Bio             *string `json:"bio"`
	Link            *string `json:"link"`
	ProfileImageURL *string `json:"profile_image_url"`
	CoverImageURL   *string `json:"cover_image_url"`
}

type UserService interface {
	EnsureUser(ctx context.Context, id, username string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error)
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	Suggested(ctx context.Context, userID string, limit int) ([]models.User, error)
}

type userService struct {
	users         pgrepo.UserRepository
	notifications pgrepo.NotificationRepository
}

func NewUserService(users pgrepo.UserRepository, notifications pgrepo.NotificationRepository) UserService {
	return &userService{users: users, notifications: notifications}
}

// EnsureUser creates the local profile row on first sight of a subject id
// from the auth provider.
func (s *userService) EnsureUser(ctx context.Context, id, username string) (*models.User, error) {
	const op = "UserService.EnsureUser"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	u, err := s.users.GetByID(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	now := time.Now().UTC()
	u = &models.User{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "UserService.GetByUsername"

	if username == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username is required", nil)
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	const op = "UserService.UpdateProfile"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		fields["full_name"] = *upd.FullName
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Link != nil {
		fields["link"] = *upd.Link
	}
	if upd.ProfileImageURL != nil {
		fields["profile_image_url"] = *upd.ProfileImageURL
	}
	if upd.CoverImageURL != nil {
		fields["cover_image_url"] = *upd.CoverImageURL
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload user", err)
	}
	return u, nil
}

func (s *userService) Follow(ctx context.Context, followerID, followedID string) error {
	const op = "UserService.Follow"

	if followerID == "" || followedID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "both user ids are required", nil)
	}
	if followerID == followedID {
		return utils.E(utils.CodeInvalidArgument, op, "you can't follow yourself", nil)
	}

	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if err := s.users.AddFollow(ctx, followerID, followedID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to follow", err)
	}

	// fan-out; best effort, the follow itself already committed
	_ = s.notifications.Insert(ctx, &models.Notification{
		ID:         uuid.NewString(),
		FromUserID: followerID,
		ToUserID:   followedID,
		Type:       models.NotificationFollow,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *userService) Unfollow(ctx context.Context, followerID, followedID string) error {
	const op = "UserService.Unfollow"

	if followerID == "" || followedID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "both user ids are required", nil)
	}
	if err := s.users.RemoveFollow(ctx, followerID, followedID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to unfollow", err)
	}
	return nil
}

func (s *userService) Suggested(ctx context.Context, userID string, limit int) ([]models.User, error) {
	const op = "UserService.Suggested"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	out, err := s.users.Suggested(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load suggestions", err)
	}
	return out, nil
}
