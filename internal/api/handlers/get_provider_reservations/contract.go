package get_provider_reservations

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

type ReservationService interface {
	GetProviderReservations(ctx context.Context, filter domain.ProviderReservationsFilter) ([]*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
