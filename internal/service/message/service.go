package message

import (
	"context"
	"errors"
	"log"
	"strconv"

	"tailorshop/internal/domain"
	"tailorshop/internal/repository"
	"tailorshop/internal/service/notification"
)

var ErrUserNotFound = errors.New("chat partner not found")

type Service interface {
	// Send persists the message and pushes it, best-effort, to the receiver's
	// live WebSocket connection.
	Send(ctx context.Context, sender *domain.User, input domain.SendMessageInput) (*domain.MessageView, error)
	// ChatHistory returns both directions of the conversation in send order
	// and marks the other party's messages as read.
	ChatHistory(ctx context.Context, currentUser *domain.User, partnerID int64) ([]domain.MessageView, error)
	// CustomersWithMessages lists every customer who has ever exchanged a
	// message, with per-conversation unread counts for the admin.
	CustomersWithMessages(ctx context.Context, adminID int64) ([]domain.ChatUser, error)
	MarkRead(ctx context.Context, senderID, receiverID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	pusher   notification.Pusher
}

func NewService(msgRepo repository.MessageRepository, userRepo repository.UserRepository, pusher notification.Pusher) Service {
	return &service{
		msgRepo:  msgRepo,
		userRepo: userRepo,
		pusher:   pusher,
	}
}

type pushEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (s *service) Send(ctx context.Context, sender *domain.User, input domain.SendMessageInput) (*domain.MessageView, error) {
	receiver, err := s.userRepo.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrUserNotFound
	}

	msg := &domain.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    input.Content,
		IsRead:     false,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	view := &domain.MessageView{
		ID:           msg.ID,
		SenderID:     sender.ID,
		SenderName:   sender.FullName,
		ReceiverID:   receiver.ID,
		ReceiverName: receiver.FullName,
		Content:      msg.Content,
		IsRead:       msg.IsRead,
		CreatedAt:    msg.CreatedAt,
	}

	if s.pusher != nil {
		s.pusher.Push(strconv.FormatInt(receiver.ID, 10), pushEnvelope{Event: "message", Data: view})
	}

	return view, nil
}

func (s *service) ChatHistory(ctx context.Context, currentUser *domain.User, partnerID int64) ([]domain.MessageView, error) {
	partner, err := s.userRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrUserNotFound
	}

	messages, err := s.msgRepo.ListBetweenUsers(ctx, currentUser.ID, partner.ID)
	if err != nil {
		return nil, err
	}

	// Opening the conversation consumes the partner's unread messages.
	if err := s.msgRepo.MarkAsRead(ctx, partner.ID, currentUser.ID); err != nil {
		log.Printf("message: failed to mark conversation with %d as read: %v", partner.ID, err)
	}

	names := map[int64]string{
		currentUser.ID: currentUser.FullName,
		partner.ID:     partner.FullName,
	}

	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, domain.MessageView{
			ID:           msg.ID,
			SenderID:     msg.SenderID,
			SenderName:   names[msg.SenderID],
			ReceiverID:   msg.ReceiverID,
			ReceiverName: names[msg.ReceiverID],
			Content:      msg.Content,
			IsRead:       msg.IsRead,
			CreatedAt:    msg.CreatedAt,
		})
	}

	return views, nil
}

func (s *service) CustomersWithMessages(ctx context.Context, adminID int64) ([]domain.ChatUser, error) {
	ids, err := s.msgRepo.ListCustomerIDsWithMessages(ctx)
	if err != nil {
		return nil, err
	}

	chatUsers := make([]domain.ChatUser, 0, len(ids))
	for _, id := range ids {
		customer, err := s.userRepo.GetByID(ctx, id)
		if err != nil || customer == nil {
			continue
		}

		unread, err := s.msgRepo.CountUnreadBetween(ctx, customer.ID, adminID)
		if err != nil {
			unread = 0
		}

		chatUsers = append(chatUsers, domain.ChatUser{
			ID:          customer.ID,
			FullName:    customer.FullName,
			Email:       customer.Email,
			UnreadCount: unread,
		})
	}

	return chatUsers, nil
}

func (s *service) MarkRead(ctx context.Context, senderID, receiverID int64) error {
	return s.msgRepo.MarkAsRead(ctx, senderID, receiverID)
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.msgRepo.CountUnread(ctx, userID)
}
