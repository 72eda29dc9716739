package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/pkg/apperror"
)

// ErrorHandler отвечает на ошибки, добавленные через c.Error, если хэндлер
// сам ничего не записал. Сообщения AppError отдаются клиенту как есть,
// всё остальное маскируется.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Component("http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		fields := logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}

		if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
			log.WithFields(fields).WithError(err).Debug("ошибка запроса")
			if !c.Writer.Written() {
				c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message, "code": appErr.Code})
			}
			return
		}

		log.WithFields(fields).WithError(err).Error("ошибка запроса")
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
