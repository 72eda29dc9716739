package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/backend/internal/domain/chat"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/ws"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
		msg.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *mockMessageRepo) LastPerChat(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) UnreadCounts(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockMessageRepo) ListPage(ctx context.Context, chatID string, limit, offset int) ([]models.Message, bool, error) {
	args := m.Called(ctx, chatID, limit, offset)
	return args.Get(0).([]models.Message), args.Bool(1), args.Error(2)
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, chatID string, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, chatID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

func newMessageFixture() (*MessageService, *mockMessageRepo, *memoryUsers, *recordingNotifier) {
	repo := new(mockMessageRepo)
	users := newMemoryUsers()
	notifier := &recordingNotifier{}
	return NewMessageService(repo, users, notifier), repo, users, notifier
}

func TestMessageService_Send(t *testing.T) {
	svc, repo, users, notifier := newMessageFixture()
	alice := users.add("Alice")
	bob := users.add("Bob")
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	msg, err := svc.Send(ctx, alice.ID, bob.ID, "  Привет!  ")
	require.NoError(t, err)
	assert.Equal(t, "Привет!", msg.Content)
	assert.Equal(t, chat.ID(bob.ID, alice.ID), msg.ChatID)
	assert.False(t, msg.Read)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, msg.ChatID, events[0].Room)
	assert.Equal(t, bob.ID, events[0].UserID)
	assert.Equal(t, ws.EventNewMessage, events[0].Event)
	repo.AssertExpectations(t)
}

func TestMessageService_SendValidation(t *testing.T) {
	svc, repo, users, _ := newMessageFixture()
	alice := users.add("Alice")
	bob := users.add("Bob")
	ctx := context.Background()

	_, err := svc.Send(ctx, alice.ID, bob.ID, "   ")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Send(ctx, alice.ID, alice.ID, "hi")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Send(ctx, alice.ID, uuid.Nil, "hi")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Send(ctx, alice.ID, uuid.New(), "hi")
	assert.ErrorIs(t, err, apperror.ErrReceiverNotFound)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageService_HistoryRequiresMembership(t *testing.T) {
	svc, repo, _, _ := newMessageFixture()
	chatID := chat.ID(uuid.New(), uuid.New())

	_, err := svc.History(context.Background(), uuid.New(), chatID, 1, 20)
	assert.ErrorIs(t, err, apperror.ErrChatForbidden)

	_, err = svc.History(context.Background(), uuid.New(), "general", 1, 20)
	assert.ErrorIs(t, err, apperror.ErrChatForbidden)

	repo.AssertNotCalled(t, "ListPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageService_HistoryMarksRead(t *testing.T) {
	svc, repo, users, notifier := newMessageFixture()
	alice := users.add("Alice")
	bob := users.add("Bob")
	chatID := chat.ID(alice.ID, bob.ID)
	ctx := context.Background()

	page := []models.Message{
		{ID: uuid.New(), ChatID: chatID, SenderID: bob.ID, ReceiverID: alice.ID, Content: "1"},
		{ID: uuid.New(), ChatID: chatID, SenderID: alice.ID, ReceiverID: bob.ID, Content: "2"},
	}
	repo.On("ListPage", ctx, chatID, 2, 2).Return(page, true, nil)
	repo.On("MarkRead", ctx, chatID, alice.ID).Return(int64(3), nil)

	result, err := svc.History(ctx, alice.ID, chatID, 2, 2)
	require.NoError(t, err)
	assert.True(t, result.HasMore)
	assert.Len(t, result.Messages, 2)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, ws.EventMessagesRead, events[0].Event)
	assert.Equal(t, chatID, events[0].Room)
	assert.Equal(t, bob.ID, events[0].UserID)
	assert.Equal(t, MessagesReadEvent{ChatID: chatID, UserID: alice.ID, Count: 3}, events[0].Data)
}

func TestMessageService_HistoryDefaultsPaging(t *testing.T) {
	svc, repo, _, notifier := newMessageFixture()
	me, other := uuid.New(), uuid.New()
	chatID := chat.ID(me, other)
	ctx := context.Background()

	repo.On("ListPage", ctx, chatID, DefaultMessagePageSize, 0).Return([]models.Message{}, false, nil)
	repo.On("MarkRead", ctx, chatID, me).Return(int64(0), nil)

	result, err := svc.History(ctx, me, chatID, 0, 500)
	require.NoError(t, err)
	assert.False(t, result.HasMore)
	assert.Empty(t, notifier.all())
	repo.AssertExpectations(t)
}

func TestMessageService_Chats(t *testing.T) {
	svc, repo, users, _ := newMessageFixture()
	me := users.add("Me")
	bob := users.add("Bob")
	ghost := uuid.New()
	ctx := context.Background()

	withBob := chat.ID(me.ID, bob.ID)
	withGhost := chat.ID(me.ID, ghost)
	last := []models.Message{
		{ChatID: withBob, SenderID: bob.ID, ReceiverID: me.ID, Content: "новое"},
		{ChatID: withGhost, SenderID: me.ID, ReceiverID: ghost, Content: "старое", Read: true},
	}
	repo.On("LastPerChat", ctx, me.ID).Return(last, nil)
	repo.On("UnreadCounts", ctx, me.ID).Return(map[string]int{withBob: 2}, nil)

	chats, err := svc.Chats(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	assert.Equal(t, withBob, chats[0].ID)
	assert.Equal(t, "Bob", chats[0].User.Name)
	assert.Equal(t, 2, chats[0].UnreadCount)
	assert.Equal(t, "новое", chats[0].LastMessage.Content)

	assert.Equal(t, "Unknown User", chats[1].User.Name)
	assert.Equal(t, 0, chats[1].UnreadCount)
	assert.True(t, chats[1].LastMessage.Read)
}

func TestMessageService_MarkReadForbidden(t *testing.T) {
	svc, _, _, _ := newMessageFixture()

	_, err := svc.MarkRead(context.Background(), chat.ID(uuid.New(), uuid.New()), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrChatForbidden)
}
