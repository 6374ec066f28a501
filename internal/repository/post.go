package repository

import (
	"context"
	"errors"
	"slices"
	"time"

	"blogly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts and their tags.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	ListByTag(ctx context.Context, tagID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post, addTagIDs []uint) error
	Delete(ctx context.Context, id uint) (*models.Post, error)
}

type postRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func findPost(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

// loadPost reads a post with its author and its tags sorted by name.
func loadPost(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	err := tx.Preload("User").Preload("Tags").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	sortTags(post.Tags)
	return &post, nil
}

// attachTags links postID to every tag in tagIDs. Pairs that already exist
// are skipped; an unknown tag id fails with NotFound.
func attachTags(tx *gorm.DB, postID uint, tagIDs []uint) error {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}

	var found []uint
	if err := tx.Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) != len(ids) {
		for _, id := range ids {
			if !slices.Contains(found, id) {
				return models.NewNotFoundError("Tag", id)
			}
		}
	}

	rows := make([]models.PostTag, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.PostTag{PostID: postID, TagID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Create inserts the post for an existing user and attaches tagIDs.
// CreatedAt is stamped with the current time.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagIDs []uint) error {
	if err := post.Validate(); err != nil {
		return err
	}
	return withTx(ctx, r.db, "create_post", func(tx *gorm.DB) error {
		if _, err := findUser(tx, post.UserID); err != nil {
			return err
		}

		post.ID = 0
		post.CreatedAt = r.now()
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := attachTags(tx, post.ID, tagIDs); err != nil {
			return err
		}

		loaded, err := loadPost(tx, post.ID)
		if err != nil {
			return err
		}
		*post = *loaded
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post *models.Post
	err := observe(ctx, "get_post", func(ctx context.Context) error {
		var err error
		post, err = loadPost(r.db.WithContext(ctx), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := observe(ctx, "list_posts_by_user", func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC, id DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByTag(ctx context.Context, tagID uint) ([]models.Post, error) {
	var posts []models.Post
	err := observe(ctx, "list_posts_by_tag", func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Joins("JOIN posts_tags ON posts_tags.post_id = posts.id").
			Where("posts_tags.tag_id = ?", tagID).
			Preload("User").
			Order("posts.created_at DESC, posts.id DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces title and content and adds addTagIDs to the tags already
// attached. Existing tags are never removed here.
func (r *postRepository) Update(ctx context.Context, post *models.Post, addTagIDs []uint) error {
	return withTx(ctx, r.db, "update_post", func(tx *gorm.DB) error {
		existing, err := findPost(tx, post.ID)
		if err != nil {
			return err
		}

		existing.Title = post.Title
		existing.Content = post.Content
		if err := existing.Validate(); err != nil {
			return err
		}

		if err := tx.Model(existing).Updates(map[string]interface{}{
			"title":   existing.Title,
			"content": existing.Content,
		}).Error; err != nil {
			return err
		}
		if err := attachTags(tx, existing.ID, addTagIDs); err != nil {
			return err
		}

		loaded, err := loadPost(tx, existing.ID)
		if err != nil {
			return err
		}
		*post = *loaded
		return nil
	})
}

// Delete removes the post and its tag associations and returns the removed
// post. Tags are left untouched.
func (r *postRepository) Delete(ctx context.Context, id uint) (*models.Post, error) {
	var removed *models.Post
	err := withTx(ctx, r.db, "delete_post", func(tx *gorm.DB) error {
		existing, err := findPost(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		removed = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
