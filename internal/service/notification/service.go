package notification

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tailorshop/internal/domain"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/email"
)

const unreadCacheTTL = 5 * time.Minute

// Pusher delivers a payload to a live realtime connection, best-effort.
// Implemented by ws.Hub.
type Pusher interface {
	Push(key string, payload interface{})
}

type Service interface {
	// Create persists a notification and then mirrors it, best-effort, to the
	// recipient's email and live WebSocket connection. The persisted row is
	// authoritative; neither side channel can fail the call.
	Create(ctx context.Context, recipient *domain.User, appointmentID *int64, title, message string, typ domain.NotificationType) (*domain.Notification, error)
	// NotifyRole fans one event out as individual notifications to every user
	// holding the role.
	NotifyRole(ctx context.Context, role domain.UserRole, appointmentID *int64, title, message string, typ domain.NotificationType) error

	List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
	pusher    Pusher
	redis     *redis.Client
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service, pusher Pusher, redis *redis.Client) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		pusher:    pusher,
		redis:     redis,
	}
}

type pushEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (s *service) Create(ctx context.Context, recipient *domain.User, appointmentID *int64, title, message string, typ domain.NotificationType) (*domain.Notification, error) {
	notif := &domain.Notification{
		UserID:        recipient.ID,
		AppointmentID: appointmentID,
		Title:         title,
		Message:       message,
		Type:          typ,
		IsRead:        false,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	s.invalidateUnreadCount(ctx, recipient.ID)

	if s.emailSvc != nil && recipient.Email != "" {
		go func(toEmail, subject, body string) {
			if err := s.emailSvc.SendNotificationEmail(context.Background(), toEmail, subject, body); err != nil {
				log.Printf("notification: failed to send email to %s: %v", toEmail, err)
			}
		}(recipient.Email, title, message)
	}

	if s.pusher != nil {
		s.pusher.Push(strconv.FormatInt(recipient.ID, 10), pushEnvelope{Event: "notification", Data: notif})
	}

	return notif, nil
}

func (s *service) NotifyRole(ctx context.Context, role domain.UserRole, appointmentID *int64, title, message string, typ domain.NotificationType) error {
	recipients, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to list %s users: %w", role, err)
	}

	for i := range recipients {
		if _, err := s.Create(ctx, &recipients[i], appointmentID, title, message, typ); err != nil {
			log.Printf("notification: failed to create notification for user %d: %v", recipients[i].ID, err)
		}
	}

	return nil
}

func (s *service) List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	cacheKey := unreadCacheKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, count, unreadCacheTTL).Err()
	}

	return count, nil
}

func (s *service) MarkAsRead(ctx context.Context, id int64) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil {
		return nil
	}

	if err := s.notifRepo.MarkAsRead(ctx, id); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, notif.UserID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

func (s *service) invalidateUnreadCount(ctx context.Context, userID int64) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, unreadCacheKey(userID)).Err()
	}
}

func unreadCacheKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}
