package ws

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/domain/chat"
)

// События, которые присылает клиент.
const (
	eventJoinRoom         = "join_room"
	eventLeaveRoom        = "leave_room"
	eventJoinUserRoom     = "join_user_room"
	eventTyping           = "typing"
	eventMarkMessagesRead = "mark_messages_read"
)

type roomPayload struct {
	RoomID string `json:"room_id"`
}

type typingPayload struct {
	ChatID   string `json:"chat_id"`
	IsTyping bool   `json:"is_typing"`
}

type markReadPayload struct {
	ChatID string `json:"chat_id"`
}

// TypingEvent пересылается остальным участникам комнаты.
type TypingEvent struct {
	ChatID   string `json:"chat_id"`
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// HandleEvent разбирает входящее сообщение клиента и выполняет его.
func (h *Hub) HandleEvent(ctx context.Context, client *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.reply(client, "некорректный формат сообщения")
		return
	}

	log := h.log.WithFields(logrus.Fields{"user_id": client.userID, "event": env.Type})

	switch env.Type {
	case eventJoinRoom:
		var p roomPayload
		if !decode(env.Data, &p) || p.RoomID == "" {
			h.reply(client, "room_id обязателен")
			return
		}
		if err := h.Join(client, p.RoomID); err != nil {
			h.reply(client, err.Error())
			return
		}
		log.WithField("room", p.RoomID).Debug("клиент вошёл в комнату")

	case eventLeaveRoom:
		var p roomPayload
		if !decode(env.Data, &p) || p.RoomID == "" {
			h.reply(client, "room_id обязателен")
			return
		}
		h.Leave(client, p.RoomID)

	case eventJoinUserRoom:
		// Личный канал подключается при установке соединения.

	case eventTyping:
		var p typingPayload
		if !decode(env.Data, &p) || !chat.IsMember(p.ChatID, client.userID) {
			h.reply(client, "нет доступа к этому чату")
			return
		}
		evt := TypingEvent{ChatID: p.ChatID, UserID: client.userID.String(), IsTyping: p.IsTyping}
		if err := h.BroadcastToRoom(p.ChatID, EventTyping, evt, client); err != nil {
			log.WithError(err).Warn("не удалось разослать typing")
		}

	case eventMarkMessagesRead:
		var p markReadPayload
		if !decode(env.Data, &p) || !chat.IsMember(p.ChatID, client.userID) {
			h.reply(client, "нет доступа к этому чату")
			return
		}

		h.mu.RLock()
		chats := h.chats
		h.mu.RUnlock()
		if chats == nil {
			return
		}
		if _, err := chats.MarkRead(ctx, p.ChatID, client.userID); err != nil {
			log.WithError(err).Error("не удалось отметить сообщения прочитанными")
			h.reply(client, "не удалось отметить сообщения прочитанными")
		}

	default:
		h.reply(client, "неизвестное событие: "+env.Type)
	}
}

func (h *Hub) reply(client *Client, message string) {
	raw, err := encode(EventError, map[string]string{"message": message})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client.userID][client]; ok {
		h.push(client, raw)
	}
}

func decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
