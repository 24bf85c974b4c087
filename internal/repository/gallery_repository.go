package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"tailorshop/internal/domain"
)

type GalleryRepository interface {
	CreateImage(ctx context.Context, img *domain.GalleryImage) error
	GetImageByID(ctx context.Context, id int64) (*domain.GalleryImage, error)
	ListImages(ctx context.Context) ([]domain.GalleryImage, error)
	UpdateImage(ctx context.Context, img *domain.GalleryImage) error
	DeleteImage(ctx context.Context, id int64) error

	CreateLike(ctx context.Context, like *domain.GalleryLike) error
	GetLike(ctx context.Context, imageID, userID int64) (*domain.GalleryLike, error)
	DeleteLike(ctx context.Context, id int64) error
	CountLikes(ctx context.Context, imageID int64) (int64, error)
}

type galleryRepository struct {
	db *sqlx.DB
}

func NewGalleryRepository(db *sqlx.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) CreateImage(ctx context.Context, img *domain.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (title, description, file_name, uploaded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		img.Title, img.Description, img.FileName, img.UploadedBy,
	).Scan(&img.ID, &img.CreatedAt)
}

func (r *galleryRepository) GetImageByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	var img domain.GalleryImage
	query := `SELECT * FROM gallery_images WHERE id = $1`

	err := r.db.GetContext(ctx, &img, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *galleryRepository) ListImages(ctx context.Context) ([]domain.GalleryImage, error) {
	var images []domain.GalleryImage
	query := `SELECT * FROM gallery_images ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &images, query)
	return images, err
}

func (r *galleryRepository) UpdateImage(ctx context.Context, img *domain.GalleryImage) error {
	query := `
		UPDATE gallery_images
		SET title = :title, description = :description
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, img)
	return err
}

func (r *galleryRepository) DeleteImage(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM gallery_likes WHERE image_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *galleryRepository) CreateLike(ctx context.Context, like *domain.GalleryLike) error {
	query := `
		INSERT INTO gallery_likes (image_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		like.ImageID, like.UserID,
	).Scan(&like.ID, &like.CreatedAt)
}

func (r *galleryRepository) GetLike(ctx context.Context, imageID, userID int64) (*domain.GalleryLike, error) {
	var like domain.GalleryLike
	query := `SELECT * FROM gallery_likes WHERE image_id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &like, query, imageID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *galleryRepository) DeleteLike(ctx context.Context, id int64) error {
	query := `DELETE FROM gallery_likes WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *galleryRepository) CountLikes(ctx context.Context, imageID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM gallery_likes WHERE image_id = $1`
	err := r.db.GetContext(ctx, &count, query, imageID)
	return count, err
}
