package cache

import (
	"context"
	"time"
)

const (
	// FeedKey caches the public visible feed. A short TTL keeps the feed
	// close to live even if an invalidation is missed.
	FeedKey = "feed:visible"
)

const (
	FeedTTL = 30 * time.Second
)

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeed drops the cached public feed. Called after every mutation
// that can change visibility: create, approve, unapprove, delete, report.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}
