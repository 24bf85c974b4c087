package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"tailorshop/internal/config"
)

var ErrNotConfigured = errors.New("object storage not configured")

// Service stores binary artifacts (reference images, bills, measurement
// sheets, gallery photos) under opaque generated names. Callers keep only the
// returned name; bytes are always streamed back through the API, never via a
// public bucket URL.
type Service interface {
	Store(ctx context.Context, reader io.Reader, size int64, contentType, originalName string) (string, error)
	Open(ctx context.Context, fileName string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileName string) error
}

type service struct {
	client *minio.Client
	cfg    *config.Config
}

func NewService(client *minio.Client, cfg *config.Config) Service {
	return &service{client: client, cfg: cfg}
}

func (s *service) Store(ctx context.Context, reader io.Reader, size int64, contentType, originalName string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	fileName := uuid.New().String() + filepath.Ext(originalName)

	_, err := s.client.PutObject(ctx, s.cfg.MinIOBucket, fileName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return fileName, nil
}

func (s *service) Open(ctx context.Context, fileName string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	obj, err := s.client.GetObject(ctx, s.cfg.MinIOBucket, fileName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *service) Delete(ctx context.Context, fileName string) error {
	if s.client == nil || fileName == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.cfg.MinIOBucket, fileName, minio.RemoveObjectOptions{})
}
