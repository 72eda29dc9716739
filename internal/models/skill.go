package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill — навык, который пользователь готов преподавать.
type Skill struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Name        string    `db:"skill" json:"skill"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Position    int       `db:"position" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SkillWithUser — навык с присоединёнными полями владельца.
// Поля пользователя могут отсутствовать, если владелец удалён.
type SkillWithUser struct {
	Skill
	UserName        *string  `db:"user_name"`
	UserPhotoURL    *string  `db:"user_photo_url"`
	UserRating      *float64 `db:"user_rating"`
	UserReviewCount *int     `db:"user_review_count"`
	UserBio         *string  `db:"user_bio"`
	UserLocation    *string  `db:"user_location"`
	UserExists      bool     `db:"user_exists"`
}

// SkillInput — навык из формы редактирования профиля.
type SkillInput struct {
	Skill       string `json:"skill" yaml:"skill"`
	Category    string `json:"category,omitempty" yaml:"category"`
	Description string `json:"description,omitempty" yaml:"description"`
}
