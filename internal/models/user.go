package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User описывает пользователя платформы вместе с публичным профилем.
type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	Bio          string         `db:"bio" json:"bio"`
	Location     string         `db:"location" json:"location"`
	PhotoURL     string         `db:"photo_url" json:"photo_url"`
	Rating       float64        `db:"rating" json:"rating"`
	ReviewCount  int            `db:"review_count" json:"review_count"`
	SkillsWanted pq.StringArray `db:"skills_wanted" json:"skills_wanted"`
	Availability Availability   `db:"availability" json:"availability"`
	LastLoginAt  *time.Time     `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// UserShort — минимальные сведения о собеседнике.
type UserShort struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	PhotoURL string    `db:"photo_url" json:"photo_url"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AvailabilitySlot — свободные часы преподавателя на конкретную дату.
type AvailabilitySlot struct {
	Date  string   `json:"date" yaml:"date"`
	Times []string `json:"times" yaml:"times"`
}

// Availability хранится в колонке JSONB.
type Availability []AvailabilitySlot

// Value реализует driver.Valuer.
func (a Availability) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan реализует sql.Scanner.
func (a *Availability) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Availability{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("availability: неподдерживаемый тип колонки")
	}
	return json.Unmarshal(raw, a)
}

// PublicProfile — профиль, видимый другим пользователям.
type PublicProfile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Bio           string    `json:"bio"`
	Location      string    `json:"location"`
	PhotoURL      string    `json:"photo_url"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	SkillsOffered []Skill   `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
}

// Profile — собственный профиль пользователя.
type Profile struct {
	PublicProfile
	Email        string       `json:"email"`
	Availability Availability `json:"availability"`
}

// NewPublicProfile собирает публичный профиль из пользователя и его навыков.
func NewPublicProfile(u *User, offered []Skill) PublicProfile {
	if offered == nil {
		offered = []Skill{}
	}
	wanted := []string(u.SkillsWanted)
	if wanted == nil {
		wanted = []string{}
	}
	return PublicProfile{
		ID:            u.ID,
		Name:          u.Name,
		Bio:           u.Bio,
		Location:      u.Location,
		PhotoURL:      u.PhotoURL,
		Rating:        u.Rating,
		ReviewCount:   u.ReviewCount,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	}
}
