package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context, providerID int64) ([]*domain.WorkingHours, error)
	GetWorkingHoursForDay(ctx context.Context, providerID int64, day time.Weekday) (*domain.WorkingHours, error)
	UpsertWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
	DeleteWorkingHoursNotIn(ctx context.Context, providerID int64, days []time.Weekday) error
	GetHolidays(ctx context.Context, providerID int64) ([]*domain.Holiday, error)
	HolidayExists(ctx context.Context, providerID int64, day time.Weekday) (bool, error)
	CreateHoliday(ctx context.Context, providerID int64, day time.Weekday) error
	DeleteHolidaysNotIn(ctx context.Context, providerID int64, days []time.Weekday) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
