package seed

import (
	"context"
	"testing"
	"time"

	"blogly/internal/cache"
	"blogly/internal/models"
	"blogly/internal/repository"
	"blogly/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogly(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := NewSeeder(db, nil, 1)

	// leftovers are dropped
	require.NoError(t, db.Create(&models.User{FirstName: "Old", LastName: "Row", ImageURL: "x"}).Error)

	require.NoError(t, s.Blogly(ctx))

	var users []models.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 3)
	assert.Equal(t, "Doctor Frankenstein", users[0].FullName())
	assert.Equal(t, "Count Dracula", users[1].FullName())
	assert.Equal(t, "Dorian Gray", users[2].FullName())
	for _, u := range users {
		assert.Equal(t, models.DefaultImageURL, u.ImageURL)
	}

	var post models.Post
	require.NoError(t, db.Preload("Tags").First(&post).Error)
	assert.Equal(t, "It's Alive", post.Title)
	assert.Equal(t, "I did it! I have created life!", post.Content)
	assert.Equal(t, users[0].ID, post.UserID)
	assert.False(t, post.CreatedAt.IsZero())

	names := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"crazy", "arrogant"}, names)

	var dangerous models.Tag
	require.NoError(t, db.Where("name = ?", "dangerous").First(&dangerous).Error)
	var links int64
	require.NoError(t, db.Model(&models.PostTag{}).Where("tag_id = ?", dangerous.ID).Count(&links).Error)
	assert.Zero(t, links)

	// running twice starts from scratch
	require.NoError(t, s.Blogly(ctx))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestFake(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	s := NewSeeder(db, nil, 42)
	require.NoError(t, s.Blogly(ctx))

	posts, err := s.Fake(ctx, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, posts, 5)
	assert.LessOrEqual(t, posts, 20)

	var users, stored int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&stored).Error)
	assert.Equal(t, int64(8), users)
	assert.Equal(t, int64(posts+1), stored)
}

func TestFake_Zero(t *testing.T) {
	db := testutil.NewDB(t)
	posts, err := NewSeeder(db, nil, 7).Fake(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, posts)
}

func TestBlogly_DropsCachedRows(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	db := testutil.NewDB(t)
	ctx := context.Background()
	c := cache.New(rdb, time.Minute)
	users := repository.NewUserRepository(db, c)
	tags := repository.NewTagRepository(db, c)

	old := &models.User{FirstName: "Old", LastName: "Timer"}
	require.NoError(t, users.Create(ctx, old))
	stale := &models.Tag{Name: "stale"}
	require.NoError(t, tags.Create(ctx, stale))

	// warm the cache with rows the reseed is about to replace
	_, err = users.GetByID(ctx, old.ID)
	require.NoError(t, err)
	_, err = users.List(ctx)
	require.NoError(t, err)
	_, err = tags.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	_, err = tags.List(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserKey(old.ID)))

	require.NoError(t, NewSeeder(db, c, 1).Blogly(ctx))

	got, err := users.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doctor Frankenstein", got.FullName())

	tag, err := tags.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, "crazy", tag.Name)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	allTags, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, allTags, 3)
}
