package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/billingservice"
	"github.com/m04kA/SMC-SalonService/internal/integrations/userservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// MenuRepository интерфейс репозитория каталога меню
type MenuRepository interface {
	GetByIDs(ctx context.Context, providerID int64, ids []int64) ([]*domain.Menu, error)
}

// ScheduleService интерфейс сервиса расписания
type ScheduleService interface {
	EffectiveHours(ctx context.Context, providerID int64, date time.Time) (*domain.EffectiveHours, error)
}

// CapacityService интерфейс сервиса вместимости для списания слотов
type CapacityService interface {
	ConsumeSlots(ctx context.Context, providerID int64, date time.Time, slots []int) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// BillingServiceClient интерфейс клиента для BillingService
type BillingServiceClient interface {
	GetSubscriptionWithGracefulDegradation(ctx context.Context, providerID int64) (*billingservice.Subscription, error)
}

// Notifier интерфейс отправки подтверждения бронирования
type Notifier interface {
	SendConfirmation(ctx context.Context, res *domain.Reservation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
