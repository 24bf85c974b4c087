package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tailorshop/internal/domain"
	"tailorshop/internal/middleware"
	"tailorshop/internal/service/appointment"
	"tailorshop/internal/service/storage"
)

const maxUploadBytes = 10 * 1024 * 1024

type AppointmentHandler struct {
	appointmentService appointment.Service
	storageService     storage.Service
}

func NewAppointmentHandler(appointmentService appointment.Service, storageService storage.Service) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		storageService:     storageService,
	}
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	input := domain.CreateAppointmentInput{
		CustomerName: c.FormValue("customer_name"),
		PhoneNumber:  c.FormValue("phone_number"),
		Deadline:     c.FormValue("deadline"),
	}
	if input.CustomerName == "" || input.PhoneNumber == "" || input.Deadline == "" {
		return middleware.BadRequest("Customer name, phone number and deadline are required")
	}
	if ageStr := c.FormValue("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil || age <= 0 {
			return middleware.BadRequest("Age must be a positive number")
		}
		input.Age = &age
	}
	if notes := c.FormValue("notes"); notes != "" {
		input.Notes = &notes
	}

	images, closeFiles, err := h.collectImages(c)
	if err != nil {
		return err
	}
	defer closeFiles()

	appt, err := h.appointmentService.Create(c.Context(), currentUser, input, images)
	if err != nil {
		return h.mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(appt)
}

func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	appointments, err := h.appointmentService.ListByCustomer(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(appointments)
}

func (h *AppointmentHandler) GetMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	appt, err := h.appointmentService.GetByIDAndCustomer(c.Context(), int64(id), userID)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) UpdateMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	var input domain.UpdateAppointmentInput
	if v := c.FormValue("customer_name"); v != "" {
		input.CustomerName = &v
	}
	if ageStr := c.FormValue("age"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil || age <= 0 {
			return middleware.BadRequest("Age must be a positive number")
		}
		input.Age = &age
	}
	if v := c.FormValue("phone_number"); v != "" {
		input.PhoneNumber = &v
	}
	if v := c.FormValue("deadline"); v != "" {
		input.Deadline = &v
	}
	if v := c.FormValue("notes"); v != "" {
		input.Notes = &v
	}

	images, closeFiles, err := h.collectImages(c)
	if err != nil {
		return err
	}
	defer closeFiles()

	appt, err := h.appointmentService.UpdateByCustomer(c.Context(), int64(id), userID, input, images, c.FormValue("delete_indices"))
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) DeleteMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	if err := h.appointmentService.DeleteByCustomer(c.Context(), int64(id), userID); err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AppointmentHandler) ListAll(c *fiber.Ctx) error {
	appointments, err := h.appointmentService.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(appointments)
}

func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	appt, err := h.appointmentService.GetByID(c.Context(), int64(id))
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	appt, err := h.appointmentService.Approve(c.Context(), int64(id))
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) Decline(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Reason == "" {
		return middleware.BadRequest("Decline reason is required")
	}

	appt, err := h.appointmentService.Decline(c.Context(), int64(id), input.Reason)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	appt, err := h.appointmentService.UpdateStatus(c.Context(), int64(id), input.Status)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	if err := h.appointmentService.Delete(c.Context(), int64(id)); err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AppointmentHandler) UploadBill(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	upload, closeFile, err := h.singleUpload(c)
	if err != nil {
		return err
	}
	defer closeFile()

	appt, err := h.appointmentService.UploadBill(c.Context(), int64(id), upload)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) DeleteBill(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	if err := h.appointmentService.DeleteBill(c.Context(), int64(id)); err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AppointmentHandler) UploadMeasurements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	upload, closeFile, err := h.singleUpload(c)
	if err != nil {
		return err
	}
	defer closeFile()

	appt, err := h.appointmentService.UploadMeasurements(c.Context(), int64(id), upload)
	if err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) DeleteMeasurements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.BadRequest("Invalid appointment ID")
	}

	if err := h.appointmentService.DeleteMeasurements(c.Context(), int64(id)); err != nil {
		return h.mapError(err)
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

// DownloadImage streams one reference image by its index in the appointment's
// image list. Admins reach any appointment; customers only their own.
func (h *AppointmentHandler) DownloadImage(c *fiber.Ctx) error {
	appt, err := h.resolveForDownload(c)
	if err != nil {
		return err
	}

	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return middleware.BadRequest("Invalid image index")
	}

	images := appt.ImageList()
	if index >= len(images) {
		return middleware.NotFound("Image not found")
	}

	return h.streamFile(c, images[index])
}

func (h *AppointmentHandler) DownloadBill(c *fiber.Ctx) error {
	appt, err := h.resolveForDownload(c)
	if err != nil {
		return err
	}
	if appt.BillFileName == nil {
		return middleware.NotFound("No bill uploaded for this appointment")
	}
	return h.streamFile(c, *appt.BillFileName)
}

func (h *AppointmentHandler) DownloadMeasurements(c *fiber.Ctx) error {
	appt, err := h.resolveForDownload(c)
	if err != nil {
		return err
	}
	if appt.MeasurementsFileName == nil {
		return middleware.NotFound("No measurements file uploaded for this appointment")
	}
	return h.streamFile(c, *appt.MeasurementsFileName)
}

func (h *AppointmentHandler) resolveForDownload(c *fiber.Ctx) (*domain.Appointment, error) {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return nil, middleware.Unauthorized("User not authenticated")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.BadRequest("Invalid appointment ID")
	}

	var appt *domain.Appointment
	if currentUser.HasRole(domain.RoleAdmin) {
		appt, err = h.appointmentService.GetByID(c.Context(), int64(id))
	} else {
		appt, err = h.appointmentService.GetByIDAndCustomer(c.Context(), int64(id), currentUser.ID)
	}
	if err != nil {
		return nil, h.mapError(err)
	}
	return appt, nil
}

func (h *AppointmentHandler) streamFile(c *fiber.Ctx, fileName string) error {
	obj, err := h.storageService.Open(c.Context(), fileName)
	if err != nil {
		return h.mapError(err)
	}

	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+fileName+`"`)
	return c.SendStream(obj)
}

// collectImages opens every "images" part of the multipart form. The returned
// closer must run after the service consumed the readers.
func (h *AppointmentHandler) collectImages(c *fiber.Ctx) ([]appointment.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, func() {}, nil
	}

	var uploads []appointment.Upload
	var opened []io.Closer
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, fileHeader := range form.File["images"] {
		if fileHeader.Size > maxUploadBytes {
			closeAll()
			return nil, func() {}, middleware.BadRequest("File size must be less than 10MB")
		}

		file, err := fileHeader.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, middleware.BadRequest("Failed to read uploaded file")
		}
		opened = append(opened, file)
		uploads = append(uploads, uploadFromHeader(fileHeader, file))
	}

	return uploads, closeAll, nil
}

func (h *AppointmentHandler) singleUpload(c *fiber.Ctx) (appointment.Upload, func(), error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return appointment.Upload{}, func() {}, middleware.BadRequest("File is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return appointment.Upload{}, func() {}, middleware.BadRequest("File size must be less than 10MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return appointment.Upload{}, func() {}, middleware.BadRequest("Failed to read uploaded file")
	}

	return uploadFromHeader(fileHeader, file), func() { file.Close() }, nil
}

func uploadFromHeader(fileHeader *multipart.FileHeader, file multipart.File) appointment.Upload {
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return appointment.Upload{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: contentType,
		Reader:      file,
	}
}

func (h *AppointmentHandler) mapError(err error) error {
	switch err {
	case appointment.ErrNotFound:
		return middleware.NotFound("Appointment not found")
	case appointment.ErrNotPending:
		return middleware.Conflict("Appointment can only be modified while it is pending")
	case appointment.ErrNotCompleted:
		return middleware.Conflict("Bill can only be uploaded for completed appointments")
	case appointment.ErrInvalidStatus:
		return middleware.BadRequest("Unknown appointment status")
	case appointment.ErrInvalidDeadline:
		return middleware.BadRequest("Deadline must be a date in YYYY-MM-DD format")
	case storage.ErrNotConfigured:
		return fiber.NewError(fiber.StatusServiceUnavailable, "File storage is not available")
	default:
		return err
	}
}
