package valueobject

import "github.com/skillswap/backend/internal/pkg/apperror"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusAccepted, BookingStatusDeclined, BookingStatusCancelled},
	BookingStatusAccepted:  {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusDeclined:  {},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsActive — бронирование ещё может состояться.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

func (s BookingStatus) CanTransitionTo(newStatus BookingStatus) bool {
	for _, status := range bookingTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус бронирования")
	}
	return s, nil
}

// BookingAction — действие участника над бронированием.
type BookingAction string

const (
	BookingActionAccept   BookingAction = "accept"
	BookingActionDecline  BookingAction = "decline"
	BookingActionComplete BookingAction = "complete"
	BookingActionCancel   BookingAction = "cancel"
)

// BookingActions возвращает все действия в порядке маршрутов API.
func BookingActions() []BookingAction {
	return []BookingAction{BookingActionAccept, BookingActionDecline, BookingActionComplete, BookingActionCancel}
}

// Target возвращает статус, в который переводит действие.
func (a BookingAction) Target() (BookingStatus, bool) {
	switch a {
	case BookingActionAccept:
		return BookingStatusAccepted, true
	case BookingActionDecline:
		return BookingStatusDeclined, true
	case BookingActionComplete:
		return BookingStatusCompleted, true
	case BookingActionCancel:
		return BookingStatusCancelled, true
	}
	return "", false
}

// ByTeacher сообщает, что действие доступно только преподавателю.
// Отмена доступна только ученику.
func (a BookingAction) ByTeacher() bool {
	return a != BookingActionCancel
}
