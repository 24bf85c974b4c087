package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type StorageService struct {
	mock.Mock
}

func (m *StorageService) Store(ctx context.Context, reader io.Reader, size int64, contentType, originalName string) (string, error) {
	args := m.Called(ctx, reader, size, contentType, originalName)
	return args.String(0), args.Error(1)
}

func (m *StorageService) Open(ctx context.Context, fileName string) (io.ReadCloser, error) {
	args := m.Called(ctx, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *StorageService) Delete(ctx context.Context, fileName string) error {
	args := m.Called(ctx, fileName)
	return args.Error(0)
}
