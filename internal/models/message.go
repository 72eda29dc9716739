package models

import (
	"time"

	"github.com/google/uuid"
)

// Message — сообщение в личном чате двух пользователей.
type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ChatID     string    `db:"chat_id" json:"chat_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// LastMessage — превью последнего сообщения в списке чатов.
type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ChatSummary — элемент списка чатов пользователя.
type ChatSummary struct {
	ID          string      `json:"id"`
	User        UserShort   `json:"user"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// MessagePage — страница истории сообщений.
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}
