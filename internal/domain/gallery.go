package domain

import (
	"time"
)

type GalleryImage struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	FileName    string    `json:"file_name" db:"file_name"`
	UploadedBy  *int64    `json:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type GalleryLike struct {
	ID        int64     `json:"id" db:"id"`
	ImageID   int64     `json:"image_id" db:"image_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type UpdateGalleryImageInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// GalleryImageView decorates an image with like information for the caller.
type GalleryImageView struct {
	GalleryImage
	Likes              int64 `json:"likes"`
	LikedByCurrentUser bool  `json:"liked_by_current_user"`
}
