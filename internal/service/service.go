package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"tailorshop/internal/config"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/appointment"
	"tailorshop/internal/service/auth"
	"tailorshop/internal/service/email"
	"tailorshop/internal/service/gallery"
	"tailorshop/internal/service/message"
	"tailorshop/internal/service/notification"
	"tailorshop/internal/service/storage"
	"tailorshop/internal/service/token"
	"tailorshop/internal/service/user"
	"tailorshop/internal/ws"
)

type Services struct {
	Token        *token.Service
	Auth         auth.Service
	User         user.Service
	Appointment  appointment.Service
	Notification notification.Service
	Message      message.Service
	Gallery      gallery.Service
	Storage      storage.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, hub *ws.Hub, cfg *config.Config) (*Services, error) {
	tokenSvc, err := token.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}

	emailSvc := email.NewService(cfg)
	storageSvc := storage.NewService(minioClient, cfg)
	notifSvc := notification.NewService(repos.Notification, repos.User, emailSvc, hub, redisClient)

	return &Services{
		Token:        tokenSvc,
		Auth:         auth.NewService(repos.User, tokenSvc, notifSvc),
		User:         user.NewService(repos.User),
		Appointment:  appointment.NewService(repos.Appointment, repos.User, notifSvc, storageSvc),
		Notification: notifSvc,
		Message:      message.NewService(repos.Message, repos.User, hub),
		Gallery:      gallery.NewService(repos.Gallery, notifSvc, storageSvc),
		Storage:      storageSvc,
	}, nil
}
