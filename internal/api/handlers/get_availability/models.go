package get_availability

import (
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
)

// SlotResponse доступность одного слота в HTTP ответе
type SlotResponse struct {
	Index     int    `json:"index"`
	StartTime string `json:"startTime"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID int64          `json:"providerId"`
	Date       string         `json:"date"`
	IsOpen     bool           `json:"isOpen"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Index:     s.Index,
			StartTime: s.StartTime,
			Available: s.Available,
			Remaining: s.Remaining,
		})
	}

	return &AvailabilityResponse{
		ProviderID: resp.ProviderID,
		Date:       resp.Date.Format(domain.DateFormat),
		IsOpen:     resp.IsOpen,
		Slots:      slots,
	}
}
