package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusBeforeVisit ReservationStatus = "before_visit"
	StatusVisited     ReservationStatus = "visited"
	StatusCanceled    ReservationStatus = "canceled"
	StatusNoShow      ReservationStatus = "no_show"
)

// Reservation represents a confirmed salon visit occupying one or more
// capacity slots between StartAt and EndAt.
type Reservation struct {
	ID         int64
	CustomerID int64
	ProviderID int64
	StartAt    time.Time
	EndAt      time.Time
	Status     ReservationStatus

	// Денормализованные позиции меню - сохраняются на момент бронирования,
	// чтобы история не менялась при редактировании каталога
	Menus      []ReservationMenu
	TotalPrice float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationMenu позиция меню в составе бронирования
type ReservationMenu struct {
	ID              int64
	ReservationID   int64
	MenuID          int64
	MenuName        string
	DurationMinutes int
	Price           float64
}

// IsActive returns true if the reservation still occupies capacity
func (r *Reservation) IsActive() bool {
	return r.Status == StatusBeforeVisit
}

// IsCanceled returns true if the reservation has been cancelled
func (r *Reservation) IsCanceled() bool {
	return r.Status == StatusCanceled
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusBeforeVisit
}

// CanTransitionTo проверяет допустимость перехода статуса
// before_visit -> {visited, canceled, no_show}; терминальные статусы не меняются
func (r *Reservation) CanTransitionTo(status ReservationStatus) bool {
	if r.Status != StatusBeforeVisit {
		return false
	}
	switch status {
	case StatusVisited, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CoveredSlots returns the slot indices this reservation occupies,
// recomputed from the stored timestamps.
func (r *Reservation) CoveredSlots() []int {
	return CoveredSlots(r.StartAt, r.EndAt)
}

// ProviderReservationsFilter фильтр для получения бронирований провайдера
type ProviderReservationsFilter struct {
	ProviderID      int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые бронирования
}
