package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"tailorshop/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListBetweenUsers(ctx context.Context, userA, userB int64) ([]domain.Message, error)
	ListCustomerIDsWithMessages(ctx context.Context) ([]int64, error)
	MarkAsRead(ctx context.Context, senderID, receiverID int64) error
	CountUnreadBetween(ctx context.Context, senderID, receiverID int64) (int64, error)
	CountUnread(ctx context.Context, receiverID int64) (int64, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		msg.SenderID, msg.ReceiverID, msg.Content, msg.IsRead,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListBetweenUsers(ctx context.Context, userA, userB int64) ([]domain.Message, error) {
	var messages []domain.Message
	query := `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &messages, query, userA, userB)
	return messages, err
}

func (r *messageRepository) ListCustomerIDsWithMessages(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `
		SELECT DISTINCT u.id
		FROM users u
		JOIN messages m ON m.sender_id = u.id OR m.receiver_id = u.id
		WHERE u.role = 'CUSTOMER'`

	err := r.db.SelectContext(ctx, &ids, query)
	return ids, err
}

func (r *messageRepository) MarkAsRead(ctx context.Context, senderID, receiverID int64) error {
	query := `
		UPDATE messages SET is_read = true
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, senderID, receiverID)
	return err
}

func (r *messageRepository) CountUnreadBetween(ctx context.Context, senderID, receiverID int64) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM messages
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, senderID, receiverID)
	return count, err
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, receiverID)
	return count, err
}
