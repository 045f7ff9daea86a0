package update_holidays

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReconcileHolidays(ctx context.Context, req *models.UpdateHolidaysRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
