package appointment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"tailorshop/internal/domain"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/notification"
	"tailorshop/internal/service/storage"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrNotPending      = errors.New("appointment is not in PENDING status")
	ErrNotCompleted    = errors.New("appointment is not in COMPLETED status")
	ErrInvalidStatus   = errors.New("invalid appointment status")
	ErrInvalidDeadline = errors.New("deadline must be a date in YYYY-MM-DD format")
)

// Upload is an incoming multipart file ready to be stored.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type Service interface {
	// Customer operations. All lookups are scoped by customer id; a
	// mismatch surfaces as ErrNotFound, never as an existence hint.
	Create(ctx context.Context, customer *domain.User, input domain.CreateAppointmentInput, images []Upload) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error)
	UpdateByCustomer(ctx context.Context, id, customerID int64, input domain.UpdateAppointmentInput, images []Upload, deleteIndices string) (*domain.Appointment, error)
	DeleteByCustomer(ctx context.Context, id, customerID int64) error

	// Admin operations.
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Approve(ctx context.Context, id int64) (*domain.Appointment, error)
	Decline(ctx context.Context, id int64, reason string) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, statusStr string) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	UploadBill(ctx context.Context, id int64, file Upload) (*domain.Appointment, error)
	DeleteBill(ctx context.Context, id int64) error
	UploadMeasurements(ctx context.Context, id int64, file Upload) (*domain.Appointment, error)
	DeleteMeasurements(ctx context.Context, id int64) error
}

type service struct {
	apptRepo repository.AppointmentRepository
	userRepo repository.UserRepository
	notifSvc notification.Service
	storage  storage.Service
}

func NewService(apptRepo repository.AppointmentRepository, userRepo repository.UserRepository, notifSvc notification.Service, storageSvc storage.Service) Service {
	return &service{
		apptRepo: apptRepo,
		userRepo: userRepo,
		notifSvc: notifSvc,
		storage:  storageSvc,
	}
}

func (s *service) Create(ctx context.Context, customer *domain.User, input domain.CreateAppointmentInput, images []Upload) (*domain.Appointment, error) {
	deadline, err := parseDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}

	stored := s.storeImages(ctx, images)

	appt := &domain.Appointment{
		CustomerID:   customer.ID,
		CustomerName: input.CustomerName,
		Age:          input.Age,
		PhoneNumber:  input.PhoneNumber,
		Deadline:     deadline,
		Status:       domain.StatusPending,
		Notes:        input.Notes,
	}
	if len(stored) > 0 {
		joined := strings.Join(stored, ",")
		appt.ImageFileNames = &joined
	}

	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, err
	}

	_ = s.notifSvc.NotifyRole(ctx, domain.RoleAdmin, &appt.ID,
		"New Appointment",
		fmt.Sprintf("New appointment request from %s", appt.CustomerName),
		domain.NotifAppointmentBooked,
	)

	return appt, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	return s.apptRepo.ListByCustomer(ctx, customerID)
}

func (s *service) GetByIDAndCustomer(ctx context.Context, id, customerID int64) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByIDAndCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (s *service) UpdateByCustomer(ctx context.Context, id, customerID int64, input domain.UpdateAppointmentInput, images []Upload, deleteIndices string) (*domain.Appointment, error) {
	appt, err := s.GetByIDAndCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	if appt.Status != domain.StatusPending {
		return nil, ErrNotPending
	}

	if input.CustomerName != nil {
		appt.CustomerName = *input.CustomerName
	}
	if input.Age != nil {
		appt.Age = input.Age
	}
	if input.PhoneNumber != nil {
		appt.PhoneNumber = *input.PhoneNumber
	}
	if input.Deadline != nil {
		deadline, err := parseDeadline(*input.Deadline)
		if err != nil {
			return nil, err
		}
		appt.Deadline = deadline
	}
	if input.Notes != nil {
		appt.Notes = input.Notes
	}

	// Image deletions resolve against the current list before new uploads
	// are appended, so client-supplied indices stay meaningful.
	s.deleteImagesByIndex(ctx, appt, deleteIndices)

	if stored := s.storeImages(ctx, images); len(stored) > 0 {
		appended := strings.Join(stored, ",")
		if appt.ImageFileNames != nil && *appt.ImageFileNames != "" {
			appended = *appt.ImageFileNames + "," + appended
		}
		appt.ImageFileNames = &appended
	}

	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	_ = s.notifSvc.NotifyRole(ctx, domain.RoleAdmin, &appt.ID,
		"Appointment Updated",
		fmt.Sprintf("%s has updated their appointment", appt.CustomerName),
		domain.NotifAppointmentBooked,
	)

	return appt, nil
}

func (s *service) DeleteByCustomer(ctx context.Context, id, customerID int64) error {
	appt, err := s.GetByIDAndCustomer(ctx, id, customerID)
	if err != nil {
		return err
	}

	if appt.Status != domain.StatusPending {
		return ErrNotPending
	}

	return s.deleteAppointment(ctx, appt)
}

func (s *service) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.apptRepo.ListAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (s *service) Approve(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.Status = domain.StatusApproved
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, appt,
		"Appointment Approved",
		"Your appointment has been approved. Our admin will contact you within 2 days to confirm the details. You will need to visit our shop to give measurements.",
		domain.NotifAppointmentApproved,
	)

	return appt, nil
}

func (s *service) Decline(ctx context.Context, id int64, reason string) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.Status = domain.StatusDeclined
	appt.Notes = &reason
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, appt,
		"Appointment Declined",
		fmt.Sprintf("Your appointment has been declined. Reason: %s", reason),
		domain.NotifAppointmentDeclined,
	)

	return appt, nil
}

// UpdateStatus sets any known status, forward or backward; the only guard is
// that the status string is recognized.
func (s *service) UpdateStatus(ctx context.Context, id int64, statusStr string) (*domain.Appointment, error) {
	status := domain.AppointmentStatus(strings.ToUpper(statusStr))
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := appt.Status
	appt.Status = status
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	if status == domain.StatusCompleted {
		s.notifyCustomer(ctx, appt,
			"Order Ready",
			"Your order is ready! Please come to collect it.",
			domain.NotifOrderReady,
		)
	} else if oldStatus != status {
		s.notifyCustomer(ctx, appt,
			"Appointment Status Updated",
			fmt.Sprintf("Your appointment status has been updated to: %s", status.Label()),
			domain.NotifAppointmentStatusChanged,
		)
	}

	return appt, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteAppointment(ctx, appt)
}

func (s *service) UploadBill(ctx context.Context, id int64, file Upload) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.Status != domain.StatusCompleted {
		return nil, ErrNotCompleted
	}

	fileName, err := s.storage.Store(ctx, file.Reader, file.Size, file.ContentType, file.Name)
	if err != nil {
		return nil, err
	}

	if appt.BillFileName != nil {
		s.deleteArtifact(ctx, *appt.BillFileName)
	}

	appt.BillFileName = &fileName
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, appt,
		"Bill Uploaded",
		"A bill has been uploaded for your appointment.",
		domain.NotifPaymentReminder,
	)

	return appt, nil
}

func (s *service) DeleteBill(ctx context.Context, id int64) error {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if appt.BillFileName == nil {
		return nil
	}

	s.deleteArtifact(ctx, *appt.BillFileName)
	appt.BillFileName = nil
	return s.apptRepo.Update(ctx, appt)
}

func (s *service) UploadMeasurements(ctx context.Context, id int64, file Upload) (*domain.Appointment, error) {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileName, err := s.storage.Store(ctx, file.Reader, file.Size, file.ContentType, file.Name)
	if err != nil {
		return nil, err
	}

	if appt.MeasurementsFileName != nil {
		s.deleteArtifact(ctx, *appt.MeasurementsFileName)
	}

	appt.MeasurementsFileName = &fileName
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, appt,
		"Measurements Uploaded",
		"A measurements file has been uploaded for your appointment.",
		domain.NotifMeasurementReminder,
	)

	return appt, nil
}

func (s *service) DeleteMeasurements(ctx context.Context, id int64) error {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if appt.MeasurementsFileName == nil {
		return nil
	}

	s.deleteArtifact(ctx, *appt.MeasurementsFileName)
	appt.MeasurementsFileName = nil
	return s.apptRepo.Update(ctx, appt)
}

// deleteAppointment removes dependent notifications and the row in one
// transaction, then clears stored artifacts best-effort.
func (s *service) deleteAppointment(ctx context.Context, appt *domain.Appointment) error {
	if err := s.apptRepo.DeleteWithNotifications(ctx, appt.ID); err != nil {
		return err
	}

	for _, fileName := range appt.ImageList() {
		s.deleteArtifact(ctx, fileName)
	}
	if appt.BillFileName != nil {
		s.deleteArtifact(ctx, *appt.BillFileName)
	}
	if appt.MeasurementsFileName != nil {
		s.deleteArtifact(ctx, *appt.MeasurementsFileName)
	}

	return nil
}

func (s *service) storeImages(ctx context.Context, images []Upload) []string {
	var stored []string
	for _, img := range images {
		if img.Reader == nil || img.Size == 0 {
			continue
		}
		fileName, err := s.storage.Store(ctx, img.Reader, img.Size, img.ContentType, img.Name)
		if err != nil {
			log.Printf("appointment: failed to store image %s: %v", img.Name, err)
			continue
		}
		stored = append(stored, fileName)
	}
	return stored
}

// deleteImagesByIndex removes images named by deleteIndices (a comma-joined
// list of positions into the current image list). Deletion runs highest index
// first so the remaining positions stay stable while removing.
func (s *service) deleteImagesByIndex(ctx context.Context, appt *domain.Appointment, deleteIndices string) {
	if deleteIndices == "" {
		return
	}

	remaining := appt.ImageList()
	if len(remaining) == 0 {
		return
	}

	var toDelete []int
	for _, part := range strings.Split(deleteIndices, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			continue
		}
		toDelete = append(toDelete, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(toDelete)))

	for _, idx := range toDelete {
		if idx >= len(remaining) {
			continue
		}
		s.deleteArtifact(ctx, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	if len(remaining) == 0 {
		appt.ImageFileNames = nil
	} else {
		joined := strings.Join(remaining, ",")
		appt.ImageFileNames = &joined
	}
}

func (s *service) deleteArtifact(ctx context.Context, fileName string) {
	if err := s.storage.Delete(ctx, fileName); err != nil {
		log.Printf("appointment: could not delete stored file %s: %v", fileName, err)
	}
}

func (s *service) notifyCustomer(ctx context.Context, appt *domain.Appointment, title, message string, typ domain.NotificationType) {
	customer, err := s.userRepo.GetByID(ctx, appt.CustomerID)
	if err != nil || customer == nil {
		log.Printf("appointment: could not resolve customer %d for notification: %v", appt.CustomerID, err)
		return
	}

	if _, err := s.notifSvc.Create(ctx, customer, &appt.ID, title, message, typ); err != nil {
		log.Printf("appointment: failed to notify customer %d: %v", customer.ID, err)
	}
}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return deadline, nil
}
