package message

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tailorshop/internal/domain"
	"tailorshop/tests/mocks"
)

func TestSend_PersistsAndPushesToReceiver(t *testing.T) {
	msgRepo := new(mocks.MessageRepository)
	userRepo := new(mocks.UserRepository)
	pusher := new(mocks.Pusher)
	svc := NewService(msgRepo, userRepo, pusher)
	ctx := context.Background()

	sender := &domain.User{ID: 1, FullName: "Shop Admin", Role: domain.RoleAdmin}
	receiver := &domain.User{ID: 4, FullName: "Jane Doe", Role: domain.RoleCustomer}

	userRepo.On("GetByID", ctx, int64(4)).Return(receiver, nil).Once()
	msgRepo.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.SenderID == 1 && m.ReceiverID == 4 && m.Content == "Your suit is ready for a fitting" && !m.IsRead
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Message).ID = 31
	}).Return(nil).Once()
	pusher.On("Push", "4", mock.Anything).Once()

	view, err := svc.Send(ctx, sender, domain.SendMessageInput{ReceiverID: 4, Content: "Your suit is ready for a fitting"})

	require.NoError(t, err)
	assert.Equal(t, int64(31), view.ID)
	assert.Equal(t, "Shop Admin", view.SenderName)
	assert.Equal(t, "Jane Doe", view.ReceiverName)
	pusher.AssertExpectations(t)
}

func TestSend_UnknownReceiver(t *testing.T) {
	msgRepo := new(mocks.MessageRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(msgRepo, userRepo, nil)
	ctx := context.Background()

	userRepo.On("GetByID", ctx, int64(99)).Return(nil, nil).Once()

	view, err := svc.Send(ctx, &domain.User{ID: 1}, domain.SendMessageInput{ReceiverID: 99, Content: "hello"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, view)
}

func TestChatHistory_ResolvesNamesAndMarksRead(t *testing.T) {
	msgRepo := new(mocks.MessageRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(msgRepo, userRepo, nil)
	ctx := context.Background()

	admin := &domain.User{ID: 1, FullName: "Shop Admin"}
	customer := &domain.User{ID: 4, FullName: "Jane Doe"}

	userRepo.On("GetByID", ctx, int64(4)).Return(customer, nil).Once()
	msgRepo.On("ListBetweenUsers", ctx, int64(1), int64(4)).Return([]domain.Message{
		{ID: 1, SenderID: 4, ReceiverID: 1, Content: "Is my order ready?"},
		{ID: 2, SenderID: 1, ReceiverID: 4, Content: "Almost, one more week"},
	}, nil).Once()
	msgRepo.On("MarkAsRead", ctx, int64(4), int64(1)).Return(nil).Once()

	history, err := svc.ChatHistory(ctx, admin, 4)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Jane Doe", history[0].SenderName)
	assert.Equal(t, "Shop Admin", history[0].ReceiverName)
	assert.Equal(t, "Shop Admin", history[1].SenderName)
	msgRepo.AssertExpectations(t)
}

func TestCustomersWithMessages_IncludesUnreadCounts(t *testing.T) {
	msgRepo := new(mocks.MessageRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(msgRepo, userRepo, nil)
	ctx := context.Background()

	msgRepo.On("ListCustomerIDsWithMessages", ctx).Return([]int64{4, 5}, nil).Once()
	userRepo.On("GetByID", ctx, int64(4)).Return(&domain.User{ID: 4, FullName: "Jane Doe", Email: "jane@example.com"}, nil).Once()
	userRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, FullName: "John Roe", Email: "john@example.com"}, nil).Once()
	msgRepo.On("CountUnreadBetween", ctx, int64(4), int64(1)).Return(int64(2), nil).Once()
	msgRepo.On("CountUnreadBetween", ctx, int64(5), int64(1)).Return(int64(0), nil).Once()

	chatUsers, err := svc.CustomersWithMessages(ctx, 1)

	require.NoError(t, err)
	require.Len(t, chatUsers, 2)
	assert.Equal(t, int64(2), chatUsers[0].UnreadCount)
	assert.Equal(t, int64(0), chatUsers[1].UnreadCount)
}

func TestCustomersWithMessages_SkipsDeletedUsers(t *testing.T) {
	msgRepo := new(mocks.MessageRepository)
	userRepo := new(mocks.UserRepository)
	svc := NewService(msgRepo, userRepo, nil)
	ctx := context.Background()

	msgRepo.On("ListCustomerIDsWithMessages", ctx).Return([]int64{4, 5}, nil).Once()
	userRepo.On("GetByID", ctx, int64(4)).Return(nil, nil).Once()
	userRepo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, FullName: "John Roe"}, nil).Once()
	msgRepo.On("CountUnreadBetween", ctx, int64(5), int64(1)).Return(int64(1), nil).Once()

	chatUsers, err := svc.CustomersWithMessages(ctx, 1)

	require.NoError(t, err)
	require.Len(t, chatUsers, 1)
	assert.Equal(t, int64(5), chatUsers[0].ID)
}
