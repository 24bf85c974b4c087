package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"tailorshop/internal/domain"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/notification"
	"tailorshop/internal/service/storage"
)

var ErrImageNotFound = errors.New("gallery image not found")

type Service interface {
	Upload(ctx context.Context, admin *domain.User, title string, description *string, reader io.Reader, size int64, contentType, originalName string) (*domain.GalleryImage, error)
	// List returns all images with like counts, flagging those the current
	// user already liked.
	List(ctx context.Context, currentUserID int64) ([]domain.GalleryImageView, error)
	Get(ctx context.Context, id int64) (*domain.GalleryImage, error)
	Update(ctx context.Context, id int64, input domain.UpdateGalleryImageInput) (*domain.GalleryImage, error)
	Delete(ctx context.Context, id int64) error
	// ToggleLike likes an unliked image and unlikes a liked one, returning the
	// new like count and whether the user now likes the image.
	ToggleLike(ctx context.Context, user *domain.User, imageID int64) (int64, bool, error)
}

type service struct {
	galleryRepo repository.GalleryRepository
	notifSvc    notification.Service
	storage     storage.Service
}

func NewService(galleryRepo repository.GalleryRepository, notifSvc notification.Service, storageSvc storage.Service) Service {
	return &service{
		galleryRepo: galleryRepo,
		notifSvc:    notifSvc,
		storage:     storageSvc,
	}
}

func (s *service) Upload(ctx context.Context, admin *domain.User, title string, description *string, reader io.Reader, size int64, contentType, originalName string) (*domain.GalleryImage, error) {
	fileName, err := s.storage.Store(ctx, reader, size, contentType, originalName)
	if err != nil {
		return nil, err
	}

	img := &domain.GalleryImage{
		Title:       title,
		Description: description,
		FileName:    fileName,
		UploadedBy:  &admin.ID,
	}
	if err := s.galleryRepo.CreateImage(ctx, img); err != nil {
		if delErr := s.storage.Delete(ctx, fileName); delErr != nil {
			log.Printf("gallery: could not delete orphaned file %s: %v", fileName, delErr)
		}
		return nil, err
	}

	_ = s.notifSvc.NotifyRole(ctx, domain.RoleCustomer, nil,
		"New Gallery Photo",
		fmt.Sprintf("A new photo \"%s\" has been added to the gallery. Check it out!", img.Title),
		domain.NotifGalleryPhotoUploaded,
	)

	return img, nil
}

func (s *service) List(ctx context.Context, currentUserID int64) ([]domain.GalleryImageView, error) {
	images, err := s.galleryRepo.ListImages(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.GalleryImageView, 0, len(images))
	for _, img := range images {
		likes, err := s.galleryRepo.CountLikes(ctx, img.ID)
		if err != nil {
			return nil, err
		}

		liked := false
		if currentUserID > 0 {
			like, err := s.galleryRepo.GetLike(ctx, img.ID, currentUserID)
			if err != nil {
				return nil, err
			}
			liked = like != nil
		}

		views = append(views, domain.GalleryImageView{
			GalleryImage:       img,
			Likes:              likes,
			LikedByCurrentUser: liked,
		})
	}

	return views, nil
}

func (s *service) Get(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	img, err := s.galleryRepo.GetImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}
	return img, nil
}

func (s *service) Update(ctx context.Context, id int64, input domain.UpdateGalleryImageInput) (*domain.GalleryImage, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		img.Title = *input.Title
	}
	if input.Description != nil {
		img.Description = input.Description
	}

	if err := s.galleryRepo.UpdateImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	img, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.galleryRepo.DeleteImage(ctx, id); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, img.FileName); err != nil {
		log.Printf("gallery: could not delete stored file %s: %v", img.FileName, err)
	}
	return nil
}

func (s *service) ToggleLike(ctx context.Context, user *domain.User, imageID int64) (int64, bool, error) {
	img, err := s.Get(ctx, imageID)
	if err != nil {
		return 0, false, err
	}

	existing, err := s.galleryRepo.GetLike(ctx, imageID, user.ID)
	if err != nil {
		return 0, false, err
	}

	liked := false
	if existing != nil {
		if err := s.galleryRepo.DeleteLike(ctx, existing.ID); err != nil {
			return 0, false, err
		}
	} else {
		like := &domain.GalleryLike{ImageID: imageID, UserID: user.ID}
		if err := s.galleryRepo.CreateLike(ctx, like); err != nil {
			return 0, false, err
		}
		liked = true

		_ = s.notifSvc.NotifyRole(ctx, domain.RoleAdmin, nil,
			"Gallery Photo Liked",
			fmt.Sprintf("%s liked the photo \"%s\"", user.FullName, img.Title),
			domain.NotifGalleryPhotoLiked,
		)
	}

	count, err := s.galleryRepo.CountLikes(ctx, imageID)
	if err != nil {
		return 0, liked, err
	}
	return count, liked, nil
}
