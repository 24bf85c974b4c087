package domain

import (
	"time"
)

type Notification struct {
	ID            int64            `json:"id" db:"id"`
	UserID        int64            `json:"user_id" db:"user_id"`
	AppointmentID *int64           `json:"appointment_id,omitempty" db:"appointment_id"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	Type          NotificationType `json:"type" db:"type"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifAppointmentBooked        NotificationType = "APPOINTMENT_BOOKED"
	NotifAppointmentApproved      NotificationType = "APPOINTMENT_APPROVED"
	NotifAppointmentDeclined      NotificationType = "APPOINTMENT_DECLINED"
	NotifAppointmentStatusChanged NotificationType = "APPOINTMENT_STATUS_CHANGED"
	NotifOrderReady               NotificationType = "ORDER_READY"
	NotifPaymentReminder          NotificationType = "PAYMENT_REMINDER"
	NotifMeasurementReminder      NotificationType = "MEASUREMENT_REMINDER"
	NotifCustomerRegistered       NotificationType = "CUSTOMER_REGISTERED"
	NotifCustomerMilestone        NotificationType = "CUSTOMER_MILESTONE"
	NotifGalleryPhotoUploaded     NotificationType = "GALLERY_PHOTO_UPLOADED"
	NotifGalleryPhotoLiked        NotificationType = "GALLERY_PHOTO_LIKED"
)
