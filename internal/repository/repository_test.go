package repository

import (
	"context"
	"testing"

	"blogly/internal/models"
	"blogly/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type store struct {
	db    *gorm.DB
	users UserRepository
	posts PostRepository
	tags  TagRepository
}

func newStore(t *testing.T) *store {
	t.Helper()
	db := testutil.NewDB(t)
	return &store{
		db:    db,
		users: NewUserRepository(db, nil),
		posts: NewPostRepository(db),
		tags:  NewTagRepository(db, nil),
	}
}

func (s *store) mustUser(t *testing.T, first, last string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: last}
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *store) mustTag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(t, s.tags.Create(context.Background(), tag))
	return tag
}

func (s *store) mustPost(t *testing.T, userID uint, title string, tagIDs ...uint) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " content", UserID: userID}
	require.NoError(t, s.posts.Create(context.Background(), p, tagIDs))
	return p
}

func (s *store) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := s.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
