package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/domain/chat"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/validation"
	"github.com/skillswap/backend/internal/ws"
)

// DefaultMessagePageSize — размер страницы истории по умолчанию.
const DefaultMessagePageSize = 20

// MessageRepository описывает хранилище сообщений.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	LastPerChat(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
	UnreadCounts(ctx context.Context, userID uuid.UUID) (map[string]int, error)
	ListPage(ctx context.Context, chatID string, limit, offset int) ([]models.Message, bool, error)
	MarkRead(ctx context.Context, chatID string, readerID uuid.UUID) (int64, error)
}

// UserDirectory — поиск пользователей для бронирований и чатов.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListShort(ctx context.Context, ids []uuid.UUID) ([]models.UserShort, error)
}

// RealtimeNotifier доставляет события подключённым клиентам.
type RealtimeNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
	BroadcastToRoom(room string, event string, data any, except *ws.Client) error
	BroadcastToRoomAndUser(room string, userID uuid.UUID, event string, data any) error
}

// MessagesReadEvent рассылается участникам чата после прочтения.
type MessagesReadEvent struct {
	ChatID string    `json:"chat_id"`
	UserID uuid.UUID `json:"user_id"`
	Count  int64     `json:"count"`
}

// MessageService — личная переписка пользователей.
type MessageService struct {
	repo     MessageRepository
	users    UserDirectory
	notifier RealtimeNotifier
	log      *logrus.Entry
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo MessageRepository, users UserDirectory, notifier RealtimeNotifier) *MessageService {
	return &MessageService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      logger.Component("message_service"),
	}
}

// Send сохраняет сообщение и доставляет его в комнату чата и получателю.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Validation(err)
	}
	if receiverID == uuid.Nil || receiverID == senderID {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный получатель")
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrReceiverNotFound
	}

	msg := &models.Message{
		ChatID:     chat.ID(senderID, receiverID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.notifier.BroadcastToRoomAndUser(msg.ChatID, receiverID, ws.EventNewMessage, msg); err != nil {
		s.log.WithError(err).WithField("chat_id", msg.ChatID).Warn("не удалось доставить сообщение в реальном времени")
	}
	return msg, nil
}

// Chats возвращает список чатов пользователя, свежие первыми.
func (s *MessageService) Chats(ctx context.Context, userID uuid.UUID) ([]models.ChatSummary, error) {
	last, err := s.repo.LastPerChat(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	others := make([]uuid.UUID, 0, len(last))
	for _, m := range last {
		others = append(others, counterpartOf(m, userID))
	}
	users, err := s.users.ListShort(ctx, others)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.UserShort, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	chats := make([]models.ChatSummary, 0, len(last))
	for _, m := range last {
		otherID := counterpartOf(m, userID)
		chats = append(chats, models.ChatSummary{
			ID:   m.ChatID,
			User: shortOrUnknown(byID, otherID),
			LastMessage: models.LastMessage{
				Content:   m.Content,
				Timestamp: m.CreatedAt,
				Read:      m.Read,
			},
			UnreadCount: unread[m.ChatID],
		})
	}
	return chats, nil
}

// History возвращает страницу сообщений и отмечает входящие прочитанными.
func (s *MessageService) History(ctx context.Context, userID uuid.UUID, chatID string, page, limit int) (*models.MessagePage, error) {
	if !chat.IsMember(chatID, userID) {
		return nil, apperror.ErrChatForbidden
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = DefaultMessagePageSize
	}

	messages, hasMore, err := s.repo.ListPage(ctx, chatID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	if _, err := s.MarkRead(ctx, chatID, userID); err != nil {
		s.log.WithError(err).WithField("chat_id", chatID).Warn("не удалось отметить сообщения прочитанными")
	}

	return &models.MessagePage{Messages: messages, HasMore: hasMore}, nil
}

// MarkRead отмечает входящие сообщения прочитанными и сообщает об этом комнате.
func (s *MessageService) MarkRead(ctx context.Context, chatID string, readerID uuid.UUID) (int64, error) {
	if !chat.IsMember(chatID, readerID) {
		return 0, apperror.ErrChatForbidden
	}

	n, err := s.repo.MarkRead(ctx, chatID, readerID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	other, _ := chat.Other(chatID, readerID)
	evt := MessagesReadEvent{ChatID: chatID, UserID: readerID, Count: n}
	if err := s.notifier.BroadcastToRoomAndUser(chatID, other, ws.EventMessagesRead, evt); err != nil {
		s.log.WithError(err).WithField("chat_id", chatID).Warn("не удалось разослать messages_read")
	}
	return n, nil
}

func counterpartOf(m models.Message, userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// unknownUserName — имя собеседника, чья запись удалена.
const unknownUserName = "Unknown User"

func shortOrUnknown(byID map[uuid.UUID]models.UserShort, id uuid.UUID) models.UserShort {
	if u, ok := byID[id]; ok {
		return u
	}
	return models.UserShort{ID: id, Name: unknownUserName}
}
