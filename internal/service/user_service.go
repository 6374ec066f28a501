// Package service normalises form input in front of the relational store.
package service

import (
	"context"
	"strings"

	"blogly/internal/models"
	"blogly/internal/repository"
)

type UserService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	defaultImage string
}

// UserInput carries the user form fields. A blank ImageURL means "none".
type UserInput struct {
	FirstName string
	LastName  string
	ImageURL  string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, defaultImage string) *UserService {
	if strings.TrimSpace(defaultImage) == "" {
		defaultImage = models.DefaultImageURL
	}
	return &UserService{userRepo: userRepo, postRepo: postRepo, defaultImage: defaultImage}
}

func (s *UserService) toModel(id uint, in UserInput) *models.User {
	image := strings.TrimSpace(in.ImageURL)
	if image == "" {
		image = s.defaultImage
	}
	return &models.User{
		ID:        id,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		ImageURL:  image,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserWithPosts returns the user and the posts it owns, newest first.
func (s *UserService) GetUserWithPosts(ctx context.Context, id uint) (*models.User, []models.Post, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.postRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	user := s.toModel(0, in)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces every editable field of the user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	user := s.toModel(id, in)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}
