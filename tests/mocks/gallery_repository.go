package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tailorshop/internal/domain"
)

type GalleryRepository struct {
	mock.Mock
}

func (m *GalleryRepository) CreateImage(ctx context.Context, img *domain.GalleryImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *GalleryRepository) GetImageByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GalleryImage), args.Error(1)
}

func (m *GalleryRepository) ListImages(ctx context.Context) ([]domain.GalleryImage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GalleryImage), args.Error(1)
}

func (m *GalleryRepository) UpdateImage(ctx context.Context, img *domain.GalleryImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *GalleryRepository) DeleteImage(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *GalleryRepository) CreateLike(ctx context.Context, like *domain.GalleryLike) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *GalleryRepository) GetLike(ctx context.Context, imageID, userID int64) (*domain.GalleryLike, error) {
	args := m.Called(ctx, imageID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GalleryLike), args.Error(1)
}

func (m *GalleryRepository) DeleteLike(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *GalleryRepository) CountLikes(ctx context.Context, imageID int64) (int64, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(int64), args.Error(1)
}
