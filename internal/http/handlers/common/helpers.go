package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/middleware"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound возвращается, если в контексте нет пользователя.
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID возвращается при неверном формате UUID.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID извлекает ID пользователя, установленный AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}
	return userID, nil
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// OptionalUUIDQuery разбирает необязательный UUID из query. Пустое значение даёт uuid.Nil.
func OptionalUUIDQuery(c *gin.Context, key string) (uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return uuid.Nil, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// BindJSON разбирает тело запроса и отвечает 400 при ошибке.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondBadRequest(c, "ошибка валидации запроса: "+err.Error())
		return false
	}
	return true
}

// RespondAppError отвечает статусом и сообщением AppError. Прочие ошибки
// логируются и маскируются как внутренние.
func RespondAppError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)})
		return
	}

	logger.Component("http").
		WithError(err).
		WithField("path", c.Request.URL.Path).
		Error("необработанная ошибка")
	RespondInternalError(c, "")
}

// RespondError отправляет стандартный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondMessage отправляет ответ с сообщением без данных.
func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// RespondInternalError отправляет 500.
func RespondInternalError(c *gin.Context, message string) {
	if message == "" {
		message = "внутренняя ошибка сервера"
	}
	RespondError(c, http.StatusInternalServerError, message)
}

// ParseIntQuery читает целый query параметр с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPage возвращает номер страницы (с 1) и её размер.
func GetPage(c *gin.Context, defaultLimit int) (page, limit int) {
	page = ParseIntQuery(c, "page", 1)
	limit = ParseIntQuery(c, "limit", defaultLimit)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
