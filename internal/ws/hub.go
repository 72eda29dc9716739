package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/domain/chat"
	"github.com/skillswap/backend/internal/goroutine"
	"github.com/skillswap/backend/internal/logger"
)

// События, которые сервер отправляет клиентам.
const (
	EventNewMessage     = "new_message"
	EventMessagesRead   = "messages_read"
	EventTyping         = "typing"
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
	EventError          = "error"
)

// ChatReader отмечает сообщения прочитанными по запросу из сокета.
type ChatReader interface {
	MarkRead(ctx context.Context, chatID string, readerID uuid.UUID) (int64, error)
}

// Envelope — формат всех сообщений в обе стороны.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hub управляет подключениями: доставкой пользователю и комнатами чатов.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	rooms     map[string]map[*Client]struct{}
	broadcast chan delivery
	chats     ChatReader
	ctx       context.Context
	log       *logrus.Entry
}

// delivery — сообщение пользователю (userID), комнате (room) или их объединению.
type delivery struct {
	userID  uuid.UUID
	room    string
	except  *Client
	payload []byte
}

// NewHub создаёт хаб. Хаб останавливается вместе с ctx.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:   make(map[uuid.UUID]map[*Client]struct{}),
		rooms:     make(map[string]map[*Client]struct{}),
		broadcast: make(chan delivery, 64),
		ctx:       ctx,
		log:       logger.Component("ws_hub"),
	}
}

// SetChatReader подключает сервис сообщений для события mark_messages_read.
func (h *Hub) SetChatReader(chats ChatReader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chats = chats
}

// Run доставляет рассылки до отмены контекста.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// Register добавляет клиента. После возврата клиент уже может входить в комнаты.
func (h *Hub) Register(client *Client) {
	h.addClient(client)
}

// Unregister удаляет клиента из всех комнат и закрывает его очередь отправки.
func (h *Hub) Unregister(client *Client) {
	h.removeClient(client)
}

// BroadcastToUser отправляет событие всем подключениям пользователя.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	raw, err := encode(event, data)
	if err != nil {
		return err
	}
	h.enqueue(delivery{userID: userID, payload: raw})
	return nil
}

// BroadcastToRoom отправляет событие участникам комнаты, кроме except.
func (h *Hub) BroadcastToRoom(room string, event string, data any, except *Client) error {
	raw, err := encode(event, data)
	if err != nil {
		return err
	}
	h.enqueue(delivery{room: room, except: except, payload: raw})
	return nil
}

// BroadcastToRoomAndUser отправляет событие участникам комнаты и всем
// подключениям пользователя. Клиент, попавший в оба множества, получает событие один раз.
func (h *Hub) BroadcastToRoomAndUser(room string, userID uuid.UUID, event string, data any) error {
	raw, err := encode(event, data)
	if err != nil {
		return err
	}
	h.enqueue(delivery{room: room, userID: userID, payload: raw})
	return nil
}

// Join подписывает клиента на комнату чата. Войти можно только в свой чат.
func (h *Hub) Join(client *Client, room string) error {
	if !chat.IsMember(room, client.userID) {
		return fmt.Errorf("нет доступа к комнате %s", room)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID][client]; !ok {
		return fmt.Errorf("клиент не подключён")
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
	return nil
}

// Leave отписывает клиента от комнаты.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

// Online сообщает, есть ли у пользователя активные подключения.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.broadcast <- d:
	case <-h.ctx.Done():
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	for room := range client.rooms {
		h.leaveLocked(client, room)
	}
	close(client.send)
}

func (h *Hub) leaveLocked(client *Client, room string) {
	delete(client.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[*Client]struct{})
	if d.room != "" {
		for client := range h.rooms[d.room] {
			if client != d.except {
				sent[client] = struct{}{}
				h.push(client, d.payload)
			}
		}
	}
	if d.userID != uuid.Nil {
		for client := range h.clients[d.userID] {
			if _, dup := sent[client]; !dup {
				h.push(client, d.payload)
			}
		}
	}
}

// push не блокирует хаб: переполненный клиент отключается.
func (h *Hub) push(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.log.WithField("user_id", client.userID).Warn("буфер клиента переполнен, отключаем")
		goroutine.SafeGo(client.Close)
	}
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return nil, fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	return raw, nil
}
