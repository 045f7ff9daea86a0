package cancel_reservation

import (
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest() *models.CancelRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelRequest{
		UserID: r.UserID,
		Reason: reason,
	}
}
