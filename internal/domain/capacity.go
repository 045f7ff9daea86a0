package domain

import "time"

// SlotCapacity is a materialized ledger row: the remaining number of
// reservations slot TimeSlot on TargetDate can still accept.
// Before materialization callers must fall back to the provider default.
type SlotCapacity struct {
	ID              int64
	ProviderID      int64
	TargetDate      time.Time
	TimeSlot        int
	MaxReservations int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CapacityDefault is the per-provider fallback capacity used as the seed
// when a specific slot row is materialized on first write.
type CapacityDefault struct {
	ProviderID      int64
	MaxReservations int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DayCapacity remaining-значения всех 48 слотов одной даты
type DayCapacity [SlotsPerDay]int

// NewDayCapacity возвращает DayCapacity, заполненный дефолтным значением
func NewDayCapacity(defaultValue int) DayCapacity {
	var dc DayCapacity
	for i := range dc {
		dc[i] = defaultValue
	}
	return dc
}
