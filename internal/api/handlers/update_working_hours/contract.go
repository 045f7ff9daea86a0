package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
