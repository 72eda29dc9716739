package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/service"
)

// ContextUserIDKey — ключ userID в gin.Context.
const ContextUserIDKey = "userID"

// AuthMiddleware проверяет JWT access токен из заголовка Authorization.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, tokens)
		if !ok {
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func bearerUserID(c *gin.Context, tokens *service.TokenManager) (uuid.UUID, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return uuid.Nil, false
	}

	userID, err := tokens.ParseAccess(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
	if err != nil || userID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
		return uuid.Nil, false
	}
	return userID, true
}
