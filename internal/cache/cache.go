package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Keys used across services. Feeds are invalidated on every post mutation.
func FeedKey() string { return "feed:all" }

func FollowingFeedKey(userID string) string { return "feed:following:" + userID }
