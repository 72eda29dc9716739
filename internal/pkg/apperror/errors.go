package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation — сокращение для ошибок валидации входных данных.
func Validation(err error) *AppError {
	return Wrap(err, ErrCodeValidation, err.Error())
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// As извлекает AppError из цепочки ошибок.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeValidation
}

var (
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrSkillNotFound      = New(ErrCodeNotFound, "навык не найден")
	ErrBookingNotFound    = New(ErrCodeNotFound, "бронирование не найдено")
	ErrTeacherNotFound    = New(ErrCodeNotFound, "преподаватель не найден")
	ErrReceiverNotFound   = New(ErrCodeNotFound, "получатель не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrChatForbidden      = New(ErrCodeForbidden, "нет доступа к этому чату")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверный email или пароль")
	ErrEmailTaken         = New(ErrCodeConflict, "пользователь с таким email уже существует")
	ErrInvalidToken       = New(ErrCodeUnauthorized, "токен невалиден")
)
