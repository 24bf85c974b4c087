package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Appointment  AppointmentRepository
	Notification NotificationRepository
	Message      MessageRepository
	Gallery      GalleryRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Appointment:  NewAppointmentRepository(db),
		Notification: NewNotificationRepository(db),
		Message:      NewMessageRepository(db),
		Gallery:      NewGalleryRepository(db),
	}
}
