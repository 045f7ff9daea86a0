package capacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CapacityRepository интерфейс репозитория леджера вместимости
type CapacityRepository interface {
	GetDefault(ctx context.Context, providerID int64) (*domain.CapacityDefault, error)
	UpsertDefault(ctx context.Context, providerID int64, maxReservations int) (*domain.CapacityDefault, error)
	GetOverride(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) (*domain.SlotCapacity, error)
	ListOverridesForDate(ctx context.Context, providerID int64, targetDate time.Time) ([]*domain.SlotCapacity, error)
	Materialize(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int, seed int) error
	DecrementIfPositive(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) (bool, error)
	Increment(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int) error
	SetValue(ctx context.Context, providerID int64, targetDate time.Time, timeSlot int, value int) error
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
