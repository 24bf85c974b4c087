package handler

import (
	"github.com/gofiber/fiber/v2"

	"tailorshop/internal/domain"
	"tailorshop/internal/middleware"
	"tailorshop/internal/service/gallery"
	"tailorshop/internal/service/storage"
)

type GalleryHandler struct {
	galleryService gallery.Service
	storageService storage.Service
}

func NewGalleryHandler(galleryService gallery.Service, storageService storage.Service) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		storageService: storageService,
	}
}

func (h *GalleryHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	title := c.FormValue("title")
	if title == "" {
		return middleware.BadRequest("Title is required")
	}
	var description *string
	if desc := c.FormValue("description"); desc != "" {
		description = &desc
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return middleware.BadRequest("File size must be less than 10MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	img, err := h.galleryService.Upload(c.Context(), currentUser, title, description, file, fileHeader.Size, contentType, fileHeader.Filename)
	if err != nil {
		if err == storage.ErrNotConfigured {
			return fiber.NewError(fiber.StatusServiceUnavailable, "File storage is not available")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *GalleryHandler) List(c *fiber.Ctx) error {
	currentUserID := middleware.GetCurrentUserID(c)

	views, err := h.galleryService.List(c.Context(), currentUserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

func (h *GalleryHandler) Download(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid image ID")
	}

	img, err := h.galleryService.Get(c.Context(), int64(id))
	if err != nil {
		if err == gallery.ErrImageNotFound {
			return middleware.NotFound("Gallery image not found")
		}
		return err
	}

	obj, err := h.storageService.Open(c.Context(), img.FileName)
	if err != nil {
		if err == storage.ErrNotConfigured {
			return fiber.NewError(fiber.StatusServiceUnavailable, "File storage is not available")
		}
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+img.FileName+`"`)
	return c.SendStream(obj)
}

func (h *GalleryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid image ID")
	}

	var input domain.UpdateGalleryImageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	img, err := h.galleryService.Update(c.Context(), int64(id), input)
	if err != nil {
		if err == gallery.ErrImageNotFound {
			return middleware.NotFound("Gallery image not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(img)
}

func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid image ID")
	}

	if err := h.galleryService.Delete(c.Context(), int64(id)); err != nil {
		if err == gallery.ErrImageNotFound {
			return middleware.NotFound("Gallery image not found")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *GalleryHandler) ToggleLike(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid image ID")
	}

	count, liked, err := h.galleryService.ToggleLike(c.Context(), currentUser, int64(id))
	if err != nil {
		if err == gallery.ErrImageNotFound {
			return middleware.NotFound("Gallery image not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"likes": count,
		"liked": liked,
	})
}
