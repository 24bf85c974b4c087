package handler

import (
	"tailorshop/internal/service"
	"tailorshop/internal/ws"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Appointment  *AppointmentHandler
	Notification *NotificationHandler
	Message      *MessageHandler
	Gallery      *GalleryHandler
	WS           *WSHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Appointment:  NewAppointmentHandler(services.Appointment, services.Storage),
		Notification: NewNotificationHandler(services.Notification),
		Message:      NewMessageHandler(services.Message),
		Gallery:      NewGalleryHandler(services.Gallery, services.Storage),
		WS:           NewWSHandler(hub, services.Auth, services.Token, services.Message),
	}
}
