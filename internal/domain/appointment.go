package domain

import (
	"strings"
	"time"
)

type Appointment struct {
	ID                   int64             `json:"id" db:"id"`
	CustomerID           int64             `json:"customer_id" db:"customer_id"`
	CustomerName         string            `json:"customer_name" db:"customer_name"`
	Age                  *int              `json:"age,omitempty" db:"age"`
	PhoneNumber          string            `json:"phone_number" db:"phone_number"`
	Deadline             time.Time         `json:"deadline" db:"deadline"`
	ImageFileNames       *string           `json:"image_file_names,omitempty" db:"image_file_names"`
	BillFileName         *string           `json:"bill_file_name,omitempty" db:"bill_file_name"`
	MeasurementsFileName *string           `json:"measurements_file_name,omitempty" db:"measurements_file_name"`
	Status               AppointmentStatus `json:"status" db:"status"`
	Notes                *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

type CreateAppointmentInput struct {
	CustomerName string  `json:"customer_name" validate:"required"`
	Age          *int    `json:"age,omitempty"`
	PhoneNumber  string  `json:"phone_number" validate:"required"`
	Deadline     string  `json:"deadline" validate:"required"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateAppointmentInput struct {
	CustomerName *string `json:"customer_name,omitempty"`
	Age          *int    `json:"age,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	Deadline     *string `json:"deadline,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "PENDING"
	StatusApproved          AppointmentStatus = "APPROVED"
	StatusDeclined          AppointmentStatus = "DECLINED"
	StatusMeasurementsTaken AppointmentStatus = "MEASUREMENTS_TAKEN"
	StatusInProgress        AppointmentStatus = "IN_PROGRESS"
	StatusCompleted         AppointmentStatus = "COMPLETED"
	StatusDelivered         AppointmentStatus = "DELIVERED"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined, StatusMeasurementsTaken,
		StatusInProgress, StatusCompleted, StatusDelivered:
		return true
	default:
		return false
	}
}

// Label is the human-readable form used in status-change notifications.
func (s AppointmentStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ImageList splits the comma-joined stored file names. Indices used by
// customer image deletion are resolved against this list.
func (a *Appointment) ImageList() []string {
	if a.ImageFileNames == nil || *a.ImageFileNames == "" {
		return nil
	}
	return strings.Split(*a.ImageFileNames, ",")
}
