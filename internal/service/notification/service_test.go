package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tailorshop/internal/domain"
	"tailorshop/tests/mocks"
)

// failingEmail signals when it was invoked so the test can observe the
// fire-and-forget send without sleeping.
type failingEmail struct {
	called chan struct{}
}

func (e *failingEmail) SendNotificationEmail(ctx context.Context, toEmail, subject, message string) error {
	close(e.called)
	return errors.New("email provider down")
}

func TestCreate_PersistsAndPushes(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	pusher := new(mocks.Pusher)
	svc := NewService(notifRepo, userRepo, nil, pusher, nil)
	ctx := context.Background()

	recipient := &domain.User{ID: 7, Email: ""}
	apptID := int64(3)

	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 7 && n.Title == "Appointment Approved" && !n.IsRead
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Notification).ID = 21
	}).Return(nil).Once()
	pusher.On("Push", "7", mock.Anything).Once()

	notif, err := svc.Create(ctx, recipient, &apptID, "Appointment Approved", "Approved!", domain.NotifAppointmentApproved)

	require.NoError(t, err)
	assert.Equal(t, int64(21), notif.ID)
	notifRepo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestCreate_EmailFailureDoesNotPropagate(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	emailSvc := &failingEmail{called: make(chan struct{})}
	svc := NewService(notifRepo, userRepo, emailSvc, nil, nil)
	ctx := context.Background()

	recipient := &domain.User{ID: 7, Email: "customer@example.com"}
	notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	notif, err := svc.Create(ctx, recipient, nil, "Order Ready", "Come collect it", domain.NotifOrderReady)

	require.NoError(t, err)
	require.NotNil(t, notif)

	select {
	case <-emailSvc.called:
	case <-time.After(2 * time.Second):
		t.Fatal("email send was never attempted")
	}
}

func TestCreate_RepositoryErrorPropagates(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(notifRepo, userRepo, nil, nil, nil)
	ctx := context.Background()

	notifRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

	notif, err := svc.Create(ctx, &domain.User{ID: 7}, nil, "Title", "Message", domain.NotifOrderReady)
	assert.Error(t, err)
	assert.Nil(t, notif)
}

func TestNotifyRole_ContinuesPastIndividualFailures(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(notifRepo, userRepo, nil, nil, nil)
	ctx := context.Background()

	admins := []domain.User{{ID: 1}, {ID: 2}}
	userRepo.On("ListByRole", ctx, domain.RoleAdmin).Return(admins, nil).Once()
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 1
	})).Return(errors.New("db hiccup")).Once()
	notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 2
	})).Return(nil).Once()

	err := svc.NotifyRole(ctx, domain.RoleAdmin, nil, "New Appointment", "Someone booked", domain.NotifAppointmentBooked)

	assert.NoError(t, err)
	notifRepo.AssertExpectations(t)
}

func TestGetUnreadCount_WithoutCacheHitsRepository(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(notifRepo, userRepo, nil, nil, nil)
	ctx := context.Background()

	notifRepo.On("CountUnread", ctx, int64(7)).Return(int64(4), nil).Once()

	count, err := svc.GetUnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestMarkAsRead_MissingNotificationIsNoOp(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(notifRepo, userRepo, nil, nil, nil)
	ctx := context.Background()

	notifRepo.On("GetByID", ctx, int64(99)).Return(nil, nil).Once()

	err := svc.MarkAsRead(ctx, 99)
	assert.NoError(t, err)
	notifRepo.AssertNotCalled(t, "MarkAsRead", ctx, int64(99))
}

func TestList_WrapsPagination(t *testing.T) {
	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(notifRepo, userRepo, nil, nil, nil)
	ctx := context.Background()

	params := domain.PaginationParams{Page: 2, PageSize: 10}
	rows := []domain.Notification{{ID: 1}, {ID: 2}}
	notifRepo.On("ListByUser", ctx, int64(7), false, params).Return(rows, int64(25), nil).Once()

	result, err := svc.List(ctx, 7, false, params)
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}
