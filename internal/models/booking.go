package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking — запись на занятие между учеником и преподавателем.
type Booking struct {
	ID        uuid.UUID `db:"id" json:"id"`
	StudentID uuid.UUID `db:"student_id" json:"student_id"`
	TeacherID uuid.UUID `db:"teacher_id" json:"teacher_id"`
	Skill     string    `db:"skill" json:"skill"`
	DateTime  time.Time `db:"date_time" json:"date_time"`
	Duration  int       `db:"duration" json:"duration"`
	Status    string    `db:"status" json:"status"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BookingView — бронирование с точки зрения одного из участников.
type BookingView struct {
	ID        uuid.UUID `json:"id"`
	Skill     string    `json:"skill"`
	DateTime  time.Time `json:"date_time"`
	Duration  int       `json:"duration"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	IsTeacher bool      `json:"is_teacher"`
	User      UserShort `json:"user"`
}

// Counterpart возвращает идентификатор второго участника.
func (b *Booking) Counterpart(userID uuid.UUID) uuid.UUID {
	if b.TeacherID == userID {
		return b.StudentID
	}
	return b.TeacherID
}

// IsParticipant сообщает, участвует ли пользователь в бронировании.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.TeacherID == userID || b.StudentID == userID
}
