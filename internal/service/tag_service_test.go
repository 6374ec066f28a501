package service

import (
	"context"
	"testing"

	"blogly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_TrimsName(t *testing.T) {
	t.Parallel()

	repo := noopTagRepo()
	var names []string
	repo.createFn = func(_ context.Context, tag *models.Tag) error {
		names = append(names, tag.Name)
		return nil
	}
	repo.updateFn = func(_ context.Context, tag *models.Tag) error {
		names = append(names, tag.Name)
		return nil
	}
	svc := NewTagService(repo, noopPostRepo())

	_, err := svc.CreateTag(context.Background(), "  crazy ")
	require.NoError(t, err)
	tag, err := svc.UpdateTag(context.Background(), 4, "\tarrogant")
	require.NoError(t, err)

	assert.Equal(t, []string{"crazy", "arrogant"}, names)
	assert.Equal(t, uint(4), tag.ID)
}

func TestTagService_CreateDuplicate(t *testing.T) {
	t.Parallel()

	repo := noopTagRepo()
	repo.createFn = func(_ context.Context, tag *models.Tag) error {
		return models.NewConstraintError("Tag \""+tag.Name+"\" already exists", nil)
	}
	_, err := NewTagService(repo, noopPostRepo()).CreateTag(context.Background(), "x")
	assert.True(t, models.IsConstraintViolation(err))
}

func TestTagService_GetTagWithPosts(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.listByTagFn = func(_ context.Context, tagID uint) ([]models.Post, error) {
		return []models.Post{{ID: 1, Title: "It's Alive", Tags: []models.Tag{{ID: tagID}}}}, nil
	}
	svc := NewTagService(noopTagRepo(), posts)

	tag, list, err := svc.GetTagWithPosts(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "fun", tag.Name)
	require.Len(t, list, 1)
	assert.Equal(t, "It's Alive", list[0].Title)
}
