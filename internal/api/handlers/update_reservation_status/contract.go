package update_reservation_status

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

type ReservationService interface {
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
