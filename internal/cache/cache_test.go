package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogly/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, time.Minute), mr
}

func TestAside_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *models.User) func() error {
		return func() error {
			calls++
			*dest = models.User{ID: 7, FirstName: "Count", LastName: "Dracula", ImageURL: "/bat.png"}
			return nil
		}
	}

	var first models.User
	require.NoError(t, c.Aside(ctx, UserKey(7), &first, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(UserKey(7)))
	assert.Equal(t, time.Minute, mr.TTL(UserKey(7)))

	var second models.User
	require.NoError(t, c.Aside(ctx, UserKey(7), &second, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	var u models.User
	err := c.Aside(context.Background(), UserKey(1), &u, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(UserKey(1)))
}

func TestAside_RedisDownFallsThrough(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var tags []models.Tag
	err := c.Aside(context.Background(), TagsListKey, &tags, func() error {
		tags = []models.Tag{{ID: 1, Name: "fun"}}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestInvalidateUser_DropsUserAndListing(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, UserKey(3), models.User{ID: 3}))
	require.NoError(t, c.SetJSON(ctx, UsersListKey, []models.User{{ID: 3}}))
	require.NoError(t, c.SetJSON(ctx, TagKey(3), models.Tag{ID: 3}))

	c.InvalidateUser(ctx, 3)

	assert.False(t, mr.Exists(UserKey(3)))
	assert.False(t, mr.Exists(UsersListKey))
	assert.True(t, mr.Exists(TagKey(3)))
}

func TestAside_InvalidateDuringFetchSkipsStore(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var u models.User
	require.NoError(t, c.Aside(ctx, UserKey(4), &u, func() error {
		u = models.User{ID: 4, FirstName: "Dorian", LastName: "Gray"}
		// a concurrent delete commits and invalidates before the fill lands
		c.InvalidateUser(ctx, 4)
		return nil
	}))
	assert.Equal(t, "Dorian", u.FirstName)
	assert.False(t, mr.Exists(UserKey(4)))

	// the next read fills normally
	calls := 0
	require.NoError(t, c.Aside(ctx, UserKey(4), &u, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(UserKey(4)))
}

func TestAside_FlushDuringFetchSkipsStore(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var tags []models.Tag
	require.NoError(t, c.Aside(ctx, TagsListKey, &tags, func() error {
		tags = []models.Tag{{ID: 1, Name: "stale"}}
		return c.Flush(ctx)
	}))
	assert.False(t, mr.Exists(TagsListKey))
}

func TestFlush_DropsOnlyBloglyKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, UserKey(1), models.User{ID: 1}))
	require.NoError(t, c.SetJSON(ctx, TagKey(1), models.Tag{ID: 1}))
	require.NoError(t, c.SetJSON(ctx, UsersListKey, []models.User{{ID: 1}}))
	c.InvalidateTag(ctx, 2)
	require.NoError(t, mr.Set("other:app", "keep"))

	require.NoError(t, c.Flush(ctx))

	assert.Equal(t, []string{EpochKey, "other:app"}, mr.Keys())
}

func TestNilCache_IsPassThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Ping(ctx))
	c.InvalidateTag(ctx, 1)
	assert.NoError(t, c.Flush(ctx))

	calls := 0
	var tag models.Tag
	require.NoError(t, c.Aside(ctx, TagKey(1), &tag, func() error {
		calls++
		tag = models.Tag{ID: 1, Name: "fun"}
		return nil
	}))
	require.NoError(t, c.Aside(ctx, TagKey(1), &tag, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 2, calls)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("")
	assert.NoError(t, err)
	assert.Nil(t, client)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err = NewClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()

	_, err = NewClient("redis://%zz")
	assert.Error(t, err)
}
