package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	UserID int64
	Reason string
}

// UpdateStatusRequest запрос на смену статуса бронирования провайдером
type UpdateStatusRequest struct {
	UserID int64
	Status domain.ReservationStatus
}

// MenuItem позиция меню в составе бронирования
type MenuItem struct {
	MenuID          int64   `json:"menu_id"`
	MenuName        string  `json:"menu_name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// ReservationResponse бронирование в ответе сервиса
type ReservationResponse struct {
	ID                 int64      `json:"id"`
	CustomerID         int64      `json:"customer_id"`
	ProviderID         int64      `json:"provider_id"`
	StartAt            time.Time  `json:"start_at"`
	EndAt              time.Time  `json:"end_at"`
	Status             string     `json:"status"`
	Menus              []MenuItem `json:"menus"`
	TotalPrice         float64    `json:"total_price"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// FromDomain конвертирует доменную модель бронирования в ответ сервиса
func FromDomain(res *domain.Reservation) *ReservationResponse {
	menus := make([]MenuItem, 0, len(res.Menus))
	for _, m := range res.Menus {
		menus = append(menus, MenuItem{
			MenuID:          m.MenuID,
			MenuName:        m.MenuName,
			DurationMinutes: m.DurationMinutes,
			Price:           m.Price,
		})
	}

	return &ReservationResponse{
		ID:                 res.ID,
		CustomerID:         res.CustomerID,
		ProviderID:         res.ProviderID,
		StartAt:            res.StartAt,
		EndAt:              res.EndAt,
		Status:             string(res.Status),
		Menus:              menus,
		TotalPrice:         res.TotalPrice,
		CancellationReason: res.CancellationReason,
		CancelledAt:        res.CancelledAt,
		CreatedAt:          res.CreatedAt,
	}
}

// FromDomainList конвертирует список доменных моделей в ответ сервиса
func FromDomainList(list []*domain.Reservation) []*ReservationResponse {
	result := make([]*ReservationResponse, 0, len(list))
	for _, res := range list {
		result = append(result, FromDomain(res))
	}
	return result
}
