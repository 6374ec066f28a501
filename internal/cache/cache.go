package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"blogly/internal/middleware"
	"blogly/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix = "blogly:user:%d"
	TagKeyPrefix  = "blogly:tag:%d"
	UsersListKey  = "blogly:users"
	TagsListKey   = "blogly:tags"

	// EpochKey is bumped by Flush. Cache fills started before a flush are
	// discarded.
	EpochKey = "blogly:epoch"

	keyPattern = "blogly:*"
	genPrefix  = "blogly:gen:"
)

// genTTL bounds how long a generation counter outlives its last bump.
const genTTL = 24 * time.Hour

// DefaultTTL is used when a Cache is built with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TagKey(tagID uint) string {
	return fmt.Sprintf(TagKeyPrefix, tagID)
}

// Cache is a JSON cache-aside layer over Redis. A nil Cache, or one built
// around a nil client, is a pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps client. client may be nil.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether reads and writes reach Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client returns the underlying Redis client, or nil.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// GetJSON loads key into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key with the cache ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// Aside serves key from Redis when present. On a miss it calls fetch, which
// must fill dest, and stores the result. Redis failures fall through to fetch.
//
// The store is skipped when key was invalidated, or the cache flushed, while
// fetch ran, so a fill racing a write never puts the old row back.
func (c *Cache) Aside(ctx context.Context, key string, dest any, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheRequests.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	case found:
		observability.CacheRequests.WithLabelValues("hit").Inc()
		return nil
	case c.Enabled():
		observability.CacheRequests.WithLabelValues("miss").Inc()
	}

	var before []string
	if c.Enabled() && err == nil {
		before, err = c.versions(ctx, c.client, key)
	}

	if fetchErr := fetch(); fetchErr != nil {
		return fetchErr
	}

	if err != nil || !c.Enabled() {
		return nil
	}
	if err := c.setIfUnchanged(ctx, key, dest, before); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

type mgetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func genKey(key string) string {
	return genPrefix + key
}

// versions returns the generation of key and the cache epoch. Missing
// counters read as "".
func (c *Cache) versions(ctx context.Context, r mgetter, key string) ([]string, error) {
	vals, err := r.MGet(ctx, genKey(key), EpochKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out, nil
}

// setIfUnchanged stores v under key only while the generation and epoch
// still match before. WATCH aborts the write if either moves in between.
func (c *Cache) setIfUnchanged(ctx context.Context, key string, v any, before []string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		now, err := c.versions(ctx, tx, key)
		if err != nil {
			return err
		}
		if !slices.Equal(now, before) {
			observability.CacheRequests.WithLabelValues("stale").Inc()
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey(key), EpochKey)
	if errors.Is(err, redis.TxFailedErr) {
		observability.CacheRequests.WithLabelValues("stale").Inc()
		return nil
	}
	return err
}

// Invalidate deletes keys and bumps their generations so in-flight fills
// for them are dropped. Failures are logged and otherwise ignored.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, genKey(k))
			pipe.Expire(ctx, genKey(k), genTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// InvalidateUser drops the cached user and the users listing.
func (c *Cache) InvalidateUser(ctx context.Context, userID uint) {
	c.Invalidate(ctx, UserKey(userID), UsersListKey)
}

// InvalidateTag drops the cached tag and the tags listing.
func (c *Cache) InvalidateTag(ctx context.Context, tagID uint) {
	c.Invalidate(ctx, TagKey(tagID), TagsListKey)
}

// Flush drops every Blogly entry. It is used after the schema is recreated,
// when ids start over and every cached row is wrong.
func (c *Cache) Flush(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Incr(ctx, EpochKey).Err(); err != nil {
		return fmt.Errorf("bump cache epoch: %w", err)
	}

	iter := c.client.Scan(ctx, 0, keyPattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		if k := iter.Val(); k != EpochKey {
			batch = append(batch, k)
		}
		if len(batch) >= 100 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("flush cache: %w", err)
		}
	}
	return nil
}

// Ping reports Redis health. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
