package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap/backend/internal/models"
)

const messageColumns = `id, chat_id, sender_id, receiver_id, content, read, created_at`

// MessageRepository работает с таблицей messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (chat_id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, read, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Content,
	).Scan(&msg.ID, &msg.Read, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create %w", err)
	}
	return nil
}

// LastPerChat возвращает последнее сообщение каждого чата пользователя, новые первыми.
func (r *MessageRepository) LastPerChat(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT DISTINCT ON (chat_id) ` + messageColumns + `
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY chat_id, created_at DESC, id DESC
		) last
		ORDER BY created_at DESC
	`
	messages := []models.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("message repository: last per chat %w", err)
	}
	return messages, nil
}

// UnreadCounts возвращает число непрочитанных входящих сообщений по чатам.
func (r *MessageRepository) UnreadCounts(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT chat_id, COUNT(*) FROM messages
		WHERE receiver_id = $1 AND read = FALSE
		GROUP BY chat_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("message repository: unread counts %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			chatID string
			count  int
		)
		if err := rows.Scan(&chatID, &count); err != nil {
			return nil, fmt.Errorf("message repository: unread counts scan %w", err)
		}
		counts[chatID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("message repository: unread counts %w", err)
	}
	return counts, nil
}

// ListPage возвращает страницу сообщений чата, новые первыми.
func (r *MessageRepository) ListPage(ctx context.Context, chatID string, limit, offset int) ([]models.Message, bool, error) {
	messages := []models.Message{}
	query := `SELECT ` + messageColumns + ` FROM messages WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	// Лишняя строка нужна только для has_more.
	if err := r.db.SelectContext(ctx, &messages, query, chatID, limit+1, offset); err != nil {
		return nil, false, fmt.Errorf("message repository: list page %w", err)
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	return messages, hasMore, nil
}

// MarkRead отмечает прочитанными входящие сообщения читателя в чате.
func (r *MessageRepository) MarkRead(ctx context.Context, chatID string, readerID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = TRUE WHERE chat_id = $1 AND receiver_id = $2 AND read = FALSE`,
		chatID, readerID)
	if err != nil {
		return 0, fmt.Errorf("message repository: mark read %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("message repository: mark read rows affected %w", err)
	}
	return n, nil
}
