package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerID int64   `json:"customerId"`
	ProviderID int64   `json:"providerId"`
	StartAt    string  `json:"startAt"` // RFC3339, например "2026-09-01T10:00:00+09:00"
	EndAt      string  `json:"endAt"`   // RFC3339
	MenuIDs    []int64 `json:"menuIds"`
}

// MenuItemResponse позиция меню в HTTP ответе
type MenuItemResponse struct {
	MenuID          int64   `json:"menuId"`
	MenuName        string  `json:"menuName"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customerId"`
	ProviderID int64              `json:"providerId"`
	StartAt    string             `json:"startAt"`
	EndAt      string             `json:"endAt"`
	Status     string             `json:"status"`
	Menus      []MenuItemResponse `json:"menus"`
	TotalPrice float64            `json:"totalPrice"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		CustomerID: r.CustomerID,
		ProviderID: r.ProviderID,
		StartAt:    startAt,
		EndAt:      endAt,
		MenuIDs:    r.MenuIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	menus := make([]MenuItemResponse, 0, len(resp.Menus))
	for _, m := range resp.Menus {
		menus = append(menus, MenuItemResponse{
			MenuID:          m.MenuID,
			MenuName:        m.MenuName,
			DurationMinutes: m.DurationMinutes,
			Price:           m.Price,
		})
	}

	return &ReservationResponse{
		ID:         resp.ID,
		CustomerID: resp.CustomerID,
		ProviderID: resp.ProviderID,
		StartAt:    resp.StartAt.Format(time.RFC3339),
		EndAt:      resp.EndAt.Format(time.RFC3339),
		Status:     resp.Status,
		Menus:      menus,
		TotalPrice: resp.TotalPrice,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
