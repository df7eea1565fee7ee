package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCounters caches per-(channel, viewer) unread counts. Counts are
// always derivable from storage, so every entry carries a short TTL and
// every read-state mutation invalidates its channel.
type UnreadCounters struct {
	cli    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewUnreadCounters(cli *redis.Client, prefix string, ttl time.Duration) *UnreadCounters {
	if prefix == "" {
		prefix = "unread"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &UnreadCounters{cli: cli, prefix: prefix, ttl: ttl}
}

func (u *UnreadCounters) key(channelID, viewerID string) string {
	return u.prefix + ":" + channelID + ":" + viewerID
}

// Get returns the cached count and whether the entry was present.
func (u *UnreadCounters) Get(ctx context.Context, channelID, viewerID string) (int64, bool) {
	s, err := u.cli.Get(ctx, u.key(channelID, viewerID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (u *UnreadCounters) Set(ctx context.Context, channelID, viewerID string, n int64) {
	_ = u.cli.Set(ctx, u.key(channelID, viewerID), strconv.FormatInt(n, 10), u.ttl).Err()
}

// InvalidateChannel drops every viewer's counter for the channel.
func (u *UnreadCounters) InvalidateChannel(ctx context.Context, channelID string) {
	iter := u.cli.Scan(ctx, 0, u.prefix+":"+channelID+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = u.cli.Del(ctx, iter.Val()).Err()
	}
}
