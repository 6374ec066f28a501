package repository

import (
	"context"
	"errors"

	"blogly/internal/cache"
	"blogly/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserRepository returns a new UserRepository implementation. c may be nil.
func NewUserRepository(db *gorm.DB, c *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func findUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	err := withTx(ctx, r.db, "create_user", func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if err != nil {
		return err
	}
	r.cache.Invalidate(ctx, cache.UsersListKey)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, func() error {
		return observe(ctx, "get_user", func(ctx context.Context) error {
			found, err := findUser(r.db.WithContext(ctx), id)
			if err != nil {
				return err
			}
			user = *found
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.cache.Aside(ctx, cache.UsersListKey, &users, func() error {
		return observe(ctx, "list_users", func(ctx context.Context) error {
			return r.db.WithContext(ctx).
				Order("last_name, first_name, id").
				Find(&users).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update replaces first_name, last_name and image_url of an existing user.
// A missing user is NotFound even when the new values are invalid.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := withTx(ctx, r.db, "update_user", func(tx *gorm.DB) error {
		existing, err := findUser(tx, user.ID)
		if err != nil {
			return err
		}
		if err := user.Validate(); err != nil {
			return err
		}
		return tx.Model(existing).Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"image_url":  user.ImageURL,
		}).Error
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user together with its posts and their tag
// associations.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := withTx(ctx, r.db, "delete_user", func(tx *gorm.DB) error {
		if _, err := findUser(tx, id); err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}
