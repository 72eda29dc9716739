package dto

import (
	"github.com/skillswap/backend/internal/domain/skill"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/service"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse — ответ без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse возвращается после регистрации и входа.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// TokensResponse возвращается после обновления токенов.
type TokensResponse struct {
	Tokens *service.TokenPair `json:"tokens"`
}

// CategoriesResponse — таксономия навыков для фильтров.
type CategoriesResponse struct {
	Categories []skill.Category `json:"categories"`
}

// ClassifyResponse — предпросмотр категории по названию навыка.
type ClassifyResponse struct {
	Skill    string         `json:"skill"`
	Category skill.Category `json:"category"`
}

// AvailableDatesResponse — даты, на которые можно записаться.
type AvailableDatesResponse struct {
	AvailableDates []string `json:"available_dates"`
}

// AvailableTimesResponse — время занятий на конкретную дату.
type AvailableTimesResponse struct {
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
}

// AvailabilityResponse — сохранённое расписание.
type AvailabilityResponse struct {
	Availability models.Availability `json:"availability"`
}

// PhotoResponse — результат загрузки фотографии профиля.
type PhotoResponse struct {
	Media    *models.MediaFile `json:"media"`
	PhotoURL string            `json:"photo_url"`
}
