package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tailorshop/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Create(ctx context.Context, recipient *domain.User, appointmentID *int64, title, message string, typ domain.NotificationType) (*domain.Notification, error) {
	args := m.Called(ctx, recipient, appointmentID, title, message, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) NotifyRole(ctx context.Context, role domain.UserRole, appointmentID *int64, title, message string, typ domain.NotificationType) error {
	args := m.Called(ctx, role, appointmentID, title, message, typ)
	return args.Error(0)
}

func (m *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
