package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// WorkingHours represents a provider's recurring working hours for one weekday.
// At most one record exists per (provider, weekday); a missing record means
// the provider is closed that weekday.
type WorkingHours struct {
	ID         int64
	ProviderID int64
	DayOfWeek  time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Holiday represents a recurring weekly closure that overrides WorkingHours
// for the given weekday.
type Holiday struct {
	ID         int64
	ProviderID int64
	DayOfWeek  time.Weekday
	CreatedAt  time.Time
}

// EffectiveHours is the open/close window for a provider on a specific date
// after applying holiday overrides to the weekly schedule.
type EffectiveHours struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Closed возвращает effective hours закрытого дня
func Closed() EffectiveHours {
	return EffectiveHours{IsOpen: false}
}

// Contains returns true if the [start, end) time-of-day window falls entirely
// within the open hours. End exactly at closing time is allowed.
func (h EffectiveHours) Contains(start, end types.TimeString) bool {
	if !h.IsOpen {
		return false
	}
	return !start.IsBefore(h.OpenTime) && !end.IsAfter(h.CloseTime)
}

// ContainsSlot returns true if slot's half-hour window falls entirely within
// the open hours.
func (h EffectiveHours) ContainsSlot(slot int) bool {
	if !h.IsOpen {
		return false
	}

	openMin, err := h.OpenTime.Minutes()
	if err != nil {
		return false
	}
	closeMin, err := h.CloseTime.Minutes()
	if err != nil {
		return false
	}

	start := SlotStartMinutes(slot)
	return start >= openMin && start+SlotMinutes <= closeMin
}
