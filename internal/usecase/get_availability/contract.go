package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleService интерфейс сервиса расписания
type ScheduleService interface {
	EffectiveHours(ctx context.Context, providerID int64, date time.Time) (*domain.EffectiveHours, error)
}

// CapacityService интерфейс сервиса вместимости
type CapacityService interface {
	DayRemaining(ctx context.Context, providerID int64, date time.Time) (*domain.DayCapacity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
