package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/service"
)

// SignupRequest — регистрация нового пользователя.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest — вход по email и паролю.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — обмен refresh токена на новую пару.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest — refresh токен необязателен.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SkillRequest описывает навык в профиле и при создании.
type SkillRequest struct {
	Skill       string `json:"skill" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ToInput переводит запрос во входные данные сервиса.
func (r SkillRequest) ToInput() models.SkillInput {
	return models.SkillInput{Skill: r.Skill, Category: r.Category, Description: r.Description}
}

// UpdateSkillRequest — частичное обновление навыка.
type UpdateSkillRequest struct {
	Skill       *string `json:"skill"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// ToInput переводит запрос во входные данные сервиса.
func (r UpdateSkillRequest) ToInput() service.UpdateSkillInput {
	return service.UpdateSkillInput{Skill: r.Skill, Category: r.Category, Description: r.Description}
}

// UpdateProfileRequest — частичное обновление профиля. Указатели на срезы
// позволяют отличить отсутствующее поле от пустого списка.
type UpdateProfileRequest struct {
	Name          *string         `json:"name"`
	Bio           *string         `json:"bio"`
	Location      *string         `json:"location"`
	PhotoURL      *string         `json:"photo_url"`
	SkillsWanted  *[]string       `json:"skills_wanted"`
	SkillsOffered *[]SkillRequest `json:"skills_offered"`
}

// ToInput переводит запрос во входные данные сервиса.
func (r UpdateProfileRequest) ToInput() service.UpdateProfileInput {
	in := service.UpdateProfileInput{
		Name:     r.Name,
		Bio:      r.Bio,
		Location: r.Location,
		PhotoURL: r.PhotoURL,
	}
	if r.SkillsWanted != nil {
		in.HasSkillsWanted = true
		in.SkillsWanted = *r.SkillsWanted
	}
	if r.SkillsOffered != nil {
		in.HasSkillsOffered = true
		in.SkillsOffered = make([]models.SkillInput, 0, len(*r.SkillsOffered))
		for _, s := range *r.SkillsOffered {
			in.SkillsOffered = append(in.SkillsOffered, s.ToInput())
		}
	}
	return in
}

// SetAvailabilityRequest заменяет расписание пользователя целиком.
type SetAvailabilityRequest struct {
	Availability models.Availability `json:"availability"`
}

// CreateBookingRequest — запись ученика на занятие.
type CreateBookingRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
	Skill     string    `json:"skill" binding:"required"`
	DateTime  time.Time `json:"date_time" binding:"required"`
	Duration  int       `json:"duration"`
	Notes     string    `json:"notes"`
}

// ToInput переводит запрос во входные данные сервиса.
func (r CreateBookingRequest) ToInput() service.CreateBookingInput {
	return service.CreateBookingInput{
		TeacherID: r.TeacherID,
		Skill:     r.Skill,
		DateTime:  r.DateTime,
		Duration:  r.Duration,
		Notes:     r.Notes,
	}
}

// SendMessageRequest — отправка личного сообщения.
type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Content    string    `json:"content" binding:"required"`
}
