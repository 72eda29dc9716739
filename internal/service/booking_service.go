package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/domain/valueobject"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/validation"
	"github.com/skillswap/backend/internal/ws"
)

// BookingRepository описывает хранилище бронирований.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Booking, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Booking, error)
	ListPast(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Booking, error)
}

// UserNotifier доставляет событие пользователю.
type UserNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// CreateBookingInput — запрос ученика на занятие.
type CreateBookingInput struct {
	TeacherID uuid.UUID
	Skill     string
	DateTime  time.Time
	Duration  int
	Notes     string
}

// BookingService управляет записью на занятия.
type BookingService struct {
	repo     BookingRepository
	users    UserDirectory
	notifier UserNotifier
	now      func() time.Time
	log      *logrus.Entry
}

// NewBookingService создаёт сервис бронирований.
func NewBookingService(repo BookingRepository, users UserDirectory, notifier UserNotifier) *BookingService {
	return &BookingService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		log:      logger.Component("booking_service"),
	}
}

// Create создаёт бронирование в статусе pending и уведомляет преподавателя.
func (s *BookingService) Create(ctx context.Context, studentID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	skillName := strings.TrimSpace(in.Skill)
	if err := validation.ValidateSkillName(skillName); err != nil {
		return nil, apperror.Validation(err)
	}
	if in.TeacherID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "teacher_id обязателен")
	}
	if in.TeacherID == studentID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя записаться на занятие к самому себе")
	}
	if in.DateTime.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "date_time обязателен")
	}

	duration := in.Duration
	if duration == 0 {
		duration = models.DefaultBookingDuration
	}
	if err := validation.ValidateBookingDuration(duration); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateBookingNotes(in.Notes); err != nil {
		return nil, apperror.Validation(err)
	}

	exists, err := s.users.Exists(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrTeacherNotFound
	}

	booking := &models.Booking{
		StudentID: studentID,
		TeacherID: in.TeacherID,
		Skill:     skillName,
		DateTime:  in.DateTime.UTC(),
		Duration:  duration,
		Status:    string(valueobject.BookingStatusPending),
		Notes:     strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(booking.TeacherID, ws.EventBookingCreated, booking)
	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"student_id": studentID,
		"teacher_id": booking.TeacherID,
	}).Info("бронирование создано")
	return booking, nil
}

// Upcoming возвращает будущие занятия в статусах pending и accepted.
func (s *BookingService) Upcoming(ctx context.Context, userID uuid.UUID) ([]models.BookingView, error) {
	bookings, err := s.repo.ListUpcoming(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return s.views(ctx, userID, bookings)
}

// Past возвращает прошедшие и закрытые занятия.
func (s *BookingService) Past(ctx context.Context, userID uuid.UUID) ([]models.BookingView, error) {
	bookings, err := s.repo.ListPast(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return s.views(ctx, userID, bookings)
}

// Apply выполняет действие над бронированием. accept, decline и complete
// доступны преподавателю, cancel доступен ученику.
func (s *BookingService) Apply(ctx context.Context, userID, bookingID uuid.UUID, action valueobject.BookingAction) (*models.Booking, error) {
	target, ok := action.Target()
	if !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестное действие: "+string(action))
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, err
	}

	actor := booking.StudentID
	if action.ByTeacher() {
		actor = booking.TeacherID
	}
	if userID != actor {
		return nil, apperror.ErrForbidden
	}

	current, err := valueobject.NewBookingStatus(booking.Status)
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeValidation,
			"нельзя перевести бронирование из статуса "+string(current)+" в "+string(target))
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, string(current), string(target))
	if err != nil {
		if errors.Is(err, repository.ErrBookingStatusChanged) {
			return nil, apperror.New(apperror.ErrCodeConflict, "статус бронирования уже изменён")
		}
		return nil, err
	}

	s.notify(updated.Counterpart(userID), ws.EventBookingUpdated, updated)
	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"from":       current,
		"to":         target,
	}).Info("статус бронирования изменён")
	return updated, nil
}

func (s *BookingService) views(ctx context.Context, userID uuid.UUID, bookings []models.Booking) ([]models.BookingView, error) {
	ids := make([]uuid.UUID, 0, len(bookings))
	for i := range bookings {
		ids = append(ids, bookings[i].Counterpart(userID))
	}
	users, err := s.users.ListShort(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.UserShort, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]models.BookingView, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		views = append(views, models.BookingView{
			ID:        b.ID,
			Skill:     b.Skill,
			DateTime:  b.DateTime,
			Duration:  b.Duration,
			Status:    b.Status,
			Notes:     b.Notes,
			IsTeacher: b.TeacherID == userID,
			User:      shortOrUnknown(byID, b.Counterpart(userID)),
		})
	}
	return views, nil
}

func (s *BookingService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BroadcastToUser(userID, event, data); err != nil {
		s.log.WithError(err).WithField("event", event).Warn("не удалось отправить уведомление")
	}
}
