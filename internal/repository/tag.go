package repository

import (
	"context"
	"errors"
	"fmt"

	"blogly/internal/cache"
	"blogly/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type tagRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewTagRepository returns a new TagRepository implementation. c may be nil.
func NewTagRepository(db *gorm.DB, c *cache.Cache) TagRepository {
	return &tagRepository{db: db, cache: c}
}

func findTag(tx *gorm.DB, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := tx.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tag", id)
		}
		return nil, err
	}
	return &tag, nil
}

func duplicateTagError(name string, err error) error {
	if isDuplicateKey(err) {
		return models.NewConstraintError(fmt.Sprintf("Tag %q already exists", name), err)
	}
	return err
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	err := withTx(ctx, r.db, "create_tag", func(tx *gorm.DB) error {
		return duplicateTagError(tag.Name, tx.Create(tag).Error)
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateTag(ctx, tag.ID)
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.cache.Aside(ctx, cache.TagKey(id), &tag, func() error {
		return observe(ctx, "get_tag", func(ctx context.Context) error {
			found, err := findTag(r.db.WithContext(ctx), id)
			if err != nil {
				return err
			}
			tag = *found
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.cache.Aside(ctx, cache.TagsListKey, &tags, func() error {
		return observe(ctx, "list_tags", func(ctx context.Context) error {
			return r.db.WithContext(ctx).Order("name, id").Find(&tags).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	err := withTx(ctx, r.db, "update_tag", func(tx *gorm.DB) error {
		existing, err := findTag(tx, tag.ID)
		if err != nil {
			return err
		}
		if err := tag.Validate(); err != nil {
			return err
		}
		return duplicateTagError(tag.Name, tx.Model(existing).Update("name", tag.Name).Error)
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateTag(ctx, tag.ID)
	return nil
}

// Delete removes the tag and its associations. Posts are left untouched.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	err := withTx(ctx, r.db, "delete_tag", func(tx *gorm.DB) error {
		if _, err := findTag(tx, id); err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateTag(ctx, id)
	return nil
}
