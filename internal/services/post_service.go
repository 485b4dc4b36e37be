package services

import (
	"bytes"
	"context"
	"errors"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/Vijayaa21/blabber/internal/cache"
	"github.com/Vijayaa21/blabber/internal/models"
	pgrepo "github.com/Vijayaa21/blabber/internal/repositories/postgres"
	"github.com/Vijayaa21/blabber/internal/storage"
	"github.com/Vijayaa21/blabber/internal/utils"
)

const feedCacheTTL = 30 * time.Second

type CreatePostInput struct {
	Text         string
	Image        []byte
	ImageType    string
	AudioURL     string
	TranscriptID *string
}

type PostService interface {
	Create(ctx context.Context, userID string, in CreatePostInput) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) (liked bool, err error)
	Feed(ctx context.Context, limit int) ([]models.Post, error)
	FollowingFeed(ctx context.Context, userID string, limit int) ([]models.Post, error)
}

type postService struct {
	posts         pgrepo.PostRepository
	users         pgrepo.UserRepository
	notifications pgrepo.NotificationRepository
	uploader      storage.Uploader
	cache         cache.Cache
}

func NewPostService(posts pgrepo.PostRepository, users pgrepo.UserRepository, notifications pgrepo.NotificationRepository, uploader storage.Uploader, c cache.Cache) PostService {
	return &postService{posts: posts, users: users, notifications: notifications, uploader: uploader, cache: c}
}

func (s *postService) Create(ctx context.Context, userID string, in CreatePostInput) (*models.Post, error) {
	const op = "PostService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if in.Text == "" && len(in.Image) == 0 && in.AudioURL == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "post must have text, image, or audio", nil)
	}

	var imageURL string
	if len(in.Image) > 0 {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
		}
		objectName := path.Join("images", uuid.NewString())
		url, err := s.uploader.Upload(ctx, objectName, in.ImageType, bytes.NewReader(in.Image))
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to upload image", err)
		}
		imageURL = url
	}

	now := time.Now().UTC()
	p := &models.Post{
		ID:           uuid.NewString(),
		UserID:       userID,
		Text:         in.Text,
		ImageURL:     imageURL,
		AudioURL:     in.AudioURL,
		TranscriptID: in.TranscriptID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.posts.Insert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create post", err)
	}

	s.invalidateFeeds(ctx, userID)
	return p, nil
}

func (s *postService) Delete(ctx context.Context, userID, postID string) error {
	const op = "PostService.Delete"

	p, err := s.loadPost(ctx, op, postID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return utils.E(utils.CodeForbidden, op, "you can only delete your own posts", nil)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete post", err)
	}

	s.invalidateFeeds(ctx, userID)
	return nil
}

// Like toggles: liking an already-liked post unlikes it, matching the web
// client's single heart button.
func (s *postService) Like(ctx context.Context, userID, postID string) (bool, error) {
	const op = "PostService.Like"

	p, err := s.loadPost(ctx, op, postID)
	if err != nil {
		return false, err
	}

	if p.IsLikedBy(userID) {
		if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
			return false, utils.E(utils.CodeInternal, op, "failed to unlike", err)
		}
		return false, nil
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to like", err)
	}
	if p.UserID != userID {
		_ = s.notifications.Insert(ctx, &models.Notification{
			ID:         uuid.NewString(),
			FromUserID: userID,
			ToUserID:   p.UserID,
			Type:       models.NotificationLike,
			PostID:     &p.ID,
			CreatedAt:  time.Now().UTC(),
		})
	}
	return true, nil
}

func (s *postService) Feed(ctx context.Context, limit int) ([]models.Post, error) {
	const op = "PostService.Feed"

	var cached []models.Post
	if s.cache != nil {
		if hit, _ := s.cache.GetJSON(ctx, cache.FeedKey(), &cached); hit {
			return cached, nil
		}
	}

	rows, err := s.posts.ListAll(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load feed", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cache.FeedKey(), rows, feedCacheTTL)
	}
	return rows, nil
}

func (s *postService) FollowingFeed(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	const op = "PostService.FollowingFeed"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	var cached []models.Post
	if s.cache != nil {
		if hit, _ := s.cache.GetJSON(ctx, cache.FollowingFeedKey(userID), &cached); hit {
			return cached, nil
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	rows, err := s.posts.ListByUsers(ctx, u.Following, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load feed", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cache.FollowingFeedKey(userID), rows, feedCacheTTL)
	}
	return rows, nil
}

func (s *postService) loadPost(ctx context.Context, op, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "post id is required", nil)
	}
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "post not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load post", err)
	}
	return p, nil
}

func (s *postService) invalidateFeeds(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, cache.FeedKey(), cache.FollowingFeedKey(userID))
}
