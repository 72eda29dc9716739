package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// MessageHandler обслуживает личные сообщения.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send POST /messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SendMessageRequest
	if !common.BindJSON(c, &req) {
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Chats GET /messages/chats
func (h *MessageHandler) Chats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	chats, err := h.messages.Chats(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// History GET /messages/:chatId?page=&limit=
func (h *MessageHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	page, limit := common.GetPage(c, service.DefaultMessagePageSize)
	history, err := h.messages.History(c.Request.Context(), userID, c.Param("chatId"), page, limit)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
