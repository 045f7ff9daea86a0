package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_CanTransitionTo(t *testing.T) {
	active := &Reservation{Status: StatusBeforeVisit}
	assert.True(t, active.CanTransitionTo(StatusVisited))
	assert.True(t, active.CanTransitionTo(StatusNoShow))
	assert.True(t, active.CanTransitionTo(StatusCanceled))
	assert.False(t, active.CanTransitionTo(StatusBeforeVisit))

	// Терминальные статусы не меняются
	for _, status := range []ReservationStatus{StatusVisited, StatusCanceled, StatusNoShow} {
		terminal := &Reservation{Status: status}
		assert.False(t, terminal.CanTransitionTo(StatusVisited), "from %s", status)
		assert.False(t, terminal.CanTransitionTo(StatusCanceled), "from %s", status)
	}
}

func TestReservation_Lifecycle(t *testing.T) {
	res := &Reservation{Status: StatusBeforeVisit}
	assert.True(t, res.IsActive())
	assert.True(t, res.CanBeCancelled())
	assert.False(t, res.IsCanceled())

	res.Status = StatusCanceled
	assert.False(t, res.IsActive())
	assert.False(t, res.CanBeCancelled())
	assert.True(t, res.IsCanceled())
}

func TestReservation_CoveredSlots(t *testing.T) {
	res := &Reservation{
		StartAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, []int{20, 21, 22}, res.CoveredSlots())
}
