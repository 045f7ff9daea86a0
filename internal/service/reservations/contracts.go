package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// CapacityService интерфейс сервиса вместимости для возврата слотов при отмене
type CapacityService interface {
	ReleaseSlots(ctx context.Context, providerID int64, date time.Time, slots []int) error
}

// Notifier интерфейс отправки уведомлений об отмене
type Notifier interface {
	SendCancellation(ctx context.Context, res *domain.Reservation) error
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
