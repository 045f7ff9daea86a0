package get_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

type ReservationService interface {
	GetCustomerReservations(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
