package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/askql-io/askql-engine/pkg/database"
	"github.com/askql-io/askql-engine/pkg/models"
)

// ChatMessageRepository provides append and retrieval for the chat message
// audit trail. Records are append-only; there is no update or delete here.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	ListByUser(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error)
}

type chatMessageRepository struct {
	db *database.DB
}

func NewChatMessageRepository(db *database.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

var _ ChatMessageRepository = (*chatMessageRepository)(nil)

func (r *chatMessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	query := `
		INSERT INTO chat_messages (id, username, role, content, generated_sql)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.Username,
		message.Role,
		message.Content,
		message.GeneratedSQL,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

func (r *chatMessageRepository) ListByUser(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
		SELECT id, username, role, content, generated_sql, created_at
		FROM chat_messages
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var message models.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.Username,
			&message.Role,
			&message.Content,
			&message.GeneratedSQL,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}
