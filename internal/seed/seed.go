// Package seed loads sample data for development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"blogly/internal/cache"
	"blogly/internal/database"
	"blogly/internal/middleware"
	"blogly/internal/models"
	"blogly/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Seeder writes sample rows through the repositories so the same
// constraints apply as for requests.
type Seeder struct {
	db    *gorm.DB
	cache *cache.Cache
	users repository.UserRepository
	posts repository.PostRepository
	tags  repository.TagRepository
	faker *gofakeit.Faker
}

// NewSeeder binds a seeder to db and the read cache the server uses, which
// may be nil. A zero seed picks a random one.
func NewSeeder(db *gorm.DB, c *cache.Cache, seed int64) *Seeder {
	return &Seeder{
		db:    db,
		cache: c,
		users: repository.NewUserRepository(db, c),
		posts: repository.NewPostRepository(db),
		tags:  repository.NewTagRepository(db, c),
		faker: gofakeit.New(seed),
	}
}

// Blogly recreates the schema and inserts the fixed cast: three users, one
// post tagged crazy and arrogant, and the unused tag dangerous. Ids start
// over, so every cached entry is dropped too.
func (s *Seeder) Blogly(ctx context.Context) error {
	if err := database.Reset(s.db); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	if err := s.cache.Flush(ctx); err != nil {
		return err
	}

	cast := []*models.User{
		{FirstName: "Doctor", LastName: "Frankenstein"},
		{FirstName: "Count", LastName: "Dracula"},
		{FirstName: "Dorian", LastName: "Gray"},
	}
	for _, u := range cast {
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.FullName(), err)
		}
	}

	tags := make(map[string]*models.Tag, 3)
	for _, name := range []string{"crazy", "arrogant", "dangerous"} {
		tag := &models.Tag{Name: name}
		if err := s.tags.Create(ctx, tag); err != nil {
			return fmt.Errorf("create tag %s: %w", name, err)
		}
		tags[name] = tag
	}

	post := &models.Post{
		Title:   "It's Alive",
		Content: "I did it! I have created life!",
		UserID:  cast[0].ID,
	}
	if err := s.posts.Create(ctx, post, []uint{tags["crazy"].ID, tags["arrogant"].ID}); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	middleware.Logger.Info("Seeded Blogly sample data",
		slog.Int("users", len(cast)),
		slog.Int("tags", len(tags)),
	)
	return nil
}

// Fake adds n generated users with one to four posts each. Every post
// gets a random subset of the existing tags. It returns the number of
// posts created.
func (s *Seeder) Fake(ctx context.Context, n int) (int, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tags: %w", err)
	}

	created := 0
	for i := 0; i < n; i++ {
		user := &models.User{
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			ImageURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return created, fmt.Errorf("create user: %w", err)
		}

		for j := s.faker.Number(1, 4); j > 0; j-- {
			post := &models.Post{
				Title:   s.faker.Sentence(5),
				Content: s.faker.Paragraph(1, 3, 12, "\n\n"),
				UserID:  user.ID,
			}
			if err := s.posts.Create(ctx, post, s.pickTags(tags)); err != nil {
				return created, fmt.Errorf("create post: %w", err)
			}
			created++
		}
	}

	middleware.Logger.Info("Seeded generated data",
		slog.Int("users", n),
		slog.Int("posts", created),
	)
	return created, nil
}

func (s *Seeder) pickTags(tags []models.Tag) []uint {
	var ids []uint
	for _, t := range tags {
		if s.faker.Bool() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
