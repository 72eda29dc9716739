package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusAccepted))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusDeclined))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusCompleted))

	assert.True(t, BookingStatusAccepted.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, BookingStatusAccepted.CanTransitionTo(BookingStatusDeclined))

	for _, terminal := range []BookingStatus{BookingStatusDeclined, BookingStatusCompleted, BookingStatusCancelled} {
		assert.False(t, terminal.CanTransitionTo(BookingStatusPending), terminal)
		assert.False(t, terminal.IsActive(), terminal)
	}
}

func TestNewBookingStatus(t *testing.T) {
	s, err := NewBookingStatus("accepted")
	assert.NoError(t, err)
	assert.Equal(t, BookingStatusAccepted, s)

	_, err = NewBookingStatus("archived")
	assert.Error(t, err)
}

func TestBookingAction(t *testing.T) {
	target, ok := BookingActionCancel.Target()
	assert.True(t, ok)
	assert.Equal(t, BookingStatusCancelled, target)
	assert.False(t, BookingActionCancel.ByTeacher())
	assert.True(t, BookingActionAccept.ByTeacher())

	_, ok = BookingAction("archive").Target()
	assert.False(t, ok)
}
