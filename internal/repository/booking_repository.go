package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/repository/common"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingStatusChanged — статус изменился между чтением и записью.
	ErrBookingStatusChanged = errors.New("booking status changed concurrently")
)

const bookingColumns = `id, student_id, teacher_id, skill, date_time, duration, status, notes, created_at, updated_at`

// BookingRepository работает с таблицей bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создаёт экземпляр.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет бронирование.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (student_id, teacher_id, skill, date_time, duration, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		booking.StudentID, booking.TeacherID, booking.Skill, booking.DateTime,
		booking.Duration, booking.Status, booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("booking repository: create %w", err)
	}
	return nil
}

// GetByID возвращает бронирование.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := common.GetOne[models.Booking](ctx, r.db, ErrBookingNotFound,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("booking repository: get by id %w", err)
	}
	return booking, nil
}

// UpdateStatus меняет статус, только если текущий статус равен from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Booking, error) {
	booking, err := common.GetOne[models.Booking](ctx, r.db, ErrBookingStatusChanged, `
		UPDATE bookings SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns, id, from, to)
	if err != nil {
		if errors.Is(err, ErrBookingStatusChanged) {
			return nil, err
		}
		return nil, fmt.Errorf("booking repository: update status %w", err)
	}
	return booking, nil
}

// ListUpcoming возвращает будущие активные занятия пользователя по возрастанию даты.
func (r *BookingRepository) ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE (student_id = $1 OR teacher_id = $1)
			AND date_time >= $2
			AND status IN ('pending', 'accepted')
		ORDER BY date_time ASC`
	return r.list(ctx, "list upcoming", query, userID, now)
}

// ListPast возвращает прошедшие или закрытые занятия пользователя по убыванию даты.
func (r *BookingRepository) ListPast(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE (student_id = $1 OR teacher_id = $1)
			AND (date_time < $2 OR status IN ('completed', 'declined', 'cancelled'))
		ORDER BY date_time DESC`
	return r.list(ctx, "list past", query, userID, now)
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("booking repository: %s %w", op, err)
	}
	return bookings, nil
}
