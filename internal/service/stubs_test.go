package service

import (
	"context"

	"blogly/internal/models"
)

type userRepoStub struct {
	createFn  func(ctx context.Context, user *models.User) error
	getByIDFn func(ctx context.Context, id uint) (*models.User, error)
	listFn    func(ctx context.Context) ([]models.User, error)
	updateFn  func(ctx context.Context, user *models.User) error
	deleteFn  func(ctx context.Context, id uint) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, user *models.User) error {
			user.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FirstName: "Test", LastName: "User"}, nil
		},
		listFn:   func(_ context.Context) ([]models.User, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type postRepoStub struct {
	createFn     func(ctx context.Context, post *models.Post, tagIDs []uint) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Post, error)
	listByUserFn func(ctx context.Context, userID uint) ([]models.Post, error)
	listByTagFn  func(ctx context.Context, tagID uint) ([]models.Post, error)
	updateFn     func(ctx context.Context, post *models.Post, addTagIDs []uint) error
	deleteFn     func(ctx context.Context, id uint) (*models.Post, error)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post, _ []uint) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Title: "Testing", Content: "Is this working?", UserID: 1}, nil
		},
		listByUserFn: func(_ context.Context, _ uint) ([]models.Post, error) { return nil, nil },
		listByTagFn:  func(_ context.Context, _ uint) ([]models.Post, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Post, _ []uint) error { return nil },
		deleteFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		},
	}
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tagIDs []uint) error {
	return s.createFn(ctx, post, tagIDs)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *postRepoStub) ListByTag(ctx context.Context, tagID uint) ([]models.Post, error) {
	return s.listByTagFn(ctx, tagID)
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post, addTagIDs []uint) error {
	return s.updateFn(ctx, post, addTagIDs)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) (*models.Post, error) {
	return s.deleteFn(ctx, id)
}

type tagRepoStub struct {
	createFn  func(ctx context.Context, tag *models.Tag) error
	getByIDFn func(ctx context.Context, id uint) (*models.Tag, error)
	listFn    func(ctx context.Context) ([]models.Tag, error)
	updateFn  func(ctx context.Context, tag *models.Tag) error
	deleteFn  func(ctx context.Context, id uint) error
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn: func(_ context.Context, tag *models.Tag) error {
			tag.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Tag, error) {
			return &models.Tag{ID: id, Name: "fun"}, nil
		},
		listFn:   func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		updateFn: func(_ context.Context, _ *models.Tag) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}

func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}

func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}

func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}

func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
