package service

import (
	"context"
	"strings"

	"blogly/internal/models"
	"blogly/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	tagRepo  repository.TagRepository
}

// PostInput carries the post form fields.
type PostInput struct {
	Title   string
	Content string
	TagIDs  []uint
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, tagRepo repository.TagRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, tagRepo: tagRepo}
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// NewPostForm returns the author and every tag for the new-post form.
func (s *PostService) NewPostForm(ctx context.Context, userID uint) (*models.User, []models.Tag, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return user, tags, nil
}

// EditPostForm returns the post and every tag for the edit form.
func (s *PostService) EditPostForm(ctx context.Context, id uint) (*models.Post, []models.Tag, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return post, tags, nil
}

func (s *PostService) CreatePost(ctx context.Context, userID uint, in PostInput) (*models.Post, error) {
	post := &models.Post{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		UserID:  userID,
	}
	if err := s.postRepo.Create(ctx, post, in.TagIDs); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and content and adds in.TagIDs to the post's tags.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	post := &models.Post{
		ID:      id,
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
	if err := s.postRepo.Update(ctx, post, in.TagIDs); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post and returns it so callers can find its author.
func (s *PostService) DeletePost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.Delete(ctx, id)
}
