package service

import (
	"context"
	"strings"

	"blogly/internal/models"
	"blogly/internal/repository"
)

type TagService struct {
	tagRepo  repository.TagRepository
	postRepo repository.PostRepository
}

func NewTagService(tagRepo repository.TagRepository, postRepo repository.PostRepository) *TagService {
	return &TagService{tagRepo: tagRepo, postRepo: postRepo}
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

// GetTagWithPosts returns the tag and every post carrying it.
func (s *TagService) GetTagWithPosts(ctx context.Context, id uint) (*models.Tag, []models.Post, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.postRepo.ListByTag(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return tag, posts, nil
}

func (s *TagService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{Name: strings.TrimSpace(name)}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) UpdateTag(ctx context.Context, id uint, name string) (*models.Tag, error) {
	tag := &models.Tag{ID: id, Name: strings.TrimSpace(name)}
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, id uint) error {
	return s.tagRepo.Delete(ctx, id)
}
