package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/service"
	"github.com/skillswap/backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub          *ws.Hub
	tokenManager *service.TokenManager
	upgrader     websocket.Upgrader
}

// NewWSHandler создаёт хэндлер. Пустой allowedOrigins разрешает любой origin.
func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:          hub,
		tokenManager: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Мобильные клиенты не присылают Origin.
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Handle обслуживает GET /ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		common.RespondUnauthorized(c, "access токен обязателен")
		return
	}

	userID, err := h.tokenManager.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		common.RespondUnauthorized(c, "невалидный access токен")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.Component("ws").WithError(err).Debug("не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, userID)
	h.hub.Register(client)
	client.Run(c.Request.Context())
}
