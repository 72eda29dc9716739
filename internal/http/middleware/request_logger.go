package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/logger"
)

// RequestLogger пишет в logrus одну запись на запрос.
func RequestLogger() gin.HandlerFunc {
	log := logger.Component("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		})
		if userID, ok := c.Get(ContextUserIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("запрос завершился ошибкой")
		case status >= 400:
			entry.Warn("запрос отклонён")
		default:
			entry.Debug("запрос обработан")
		}
	}
}
