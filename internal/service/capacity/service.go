package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	storage "github.com/m04kA/SMC-SalonService/internal/infra/storage/capacity"
)

// Service сервис леджера вместимости слотов.
// Инкапсулирует политику двухуровневой вместимости: разреженные переопределения
// поверх дефолта провайдера, ленивую материализацию и потолок ручных корректировок.
type Service struct {
	repo      CapacityRepository
	txManager TransactionManager
	ceiling   int
	logger    Logger
}

// NewService создает новый экземпляр сервиса вместимости
// ceiling - верхняя граница значения слота при ручных корректировках
func NewService(repo CapacityRepository, txManager TransactionManager, ceiling int, logger Logger) *Service {
	if ceiling <= 0 {
		ceiling = domain.DefaultCapacityCeiling
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		ceiling:   ceiling,
		logger:    logger,
	}
}

// Remaining возвращает остаток вместимости слота: переопределение, если строка
// материализована, иначе дефолт провайдера, иначе 0
func (s *Service) Remaining(ctx context.Context, providerID int64, date time.Time, slot int) (int, error) {
	if slot < 0 || slot >= domain.SlotsPerDay {
		return 0, fmt.Errorf("%w: slot must be in range [0, %d), got %d", ErrInvalidInput, domain.SlotsPerDay, slot)
	}

	override, err := s.repo.GetOverride(ctx, providerID, date, slot)
	if err == nil {
		return override.MaxReservations, nil
	}
	if !errors.Is(err, storage.ErrOverrideNotFound) {
		s.logger.Error("Remaining: failed to get override: provider_id=%d, slot=%d, error=%v", providerID, slot, err)
		return 0, fmt.Errorf("%w: Remaining - get override: %v", ErrInternal, err)
	}

	return s.seedValue(ctx, providerID)
}

// DayRemaining возвращает остатки всех 48 слотов дня одним обращением к БД
func (s *Service) DayRemaining(ctx context.Context, providerID int64, date time.Time) (*domain.DayCapacity, error) {
	seed, err := s.seedValue(ctx, providerID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.repo.ListOverridesForDate(ctx, providerID, date)
	if err != nil {
		s.logger.Error("DayRemaining: failed to list overrides: provider_id=%d, date=%s, error=%v", providerID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: DayRemaining - list overrides: %v", ErrInternal, err)
	}

	day := domain.NewDayCapacity(seed)
	for _, o := range overrides {
		if o.TimeSlot >= 0 && o.TimeSlot < domain.SlotsPerDay {
			day[o.TimeSlot] = o.MaxReservations
		}
	}

	return &day, nil
}

// Adjust изменяет остаток слота на delta (+1 или -1) с фиксацией в диапазоне [0, ceiling].
// Выход за границы молча обрезается: повторное нажатие кнопки не должно быть ошибкой.
// Возвращает итоговое значение слота.
func (s *Service) Adjust(ctx context.Context, providerID int64, date time.Time, slot int, delta int) (int, error) {
	if slot < 0 || slot >= domain.SlotsPerDay {
		return 0, fmt.Errorf("%w: slot must be in range [0, %d), got %d", ErrInvalidInput, domain.SlotsPerDay, slot)
	}
	if delta != 1 && delta != -1 {
		return 0, fmt.Errorf("%w: delta must be +1 or -1, got %d", ErrInvalidInput, delta)
	}

	var newValue int

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		seed, err := s.seedValue(txCtx, providerID)
		if err != nil {
			return err
		}

		// Материализуем строку с посевным значением, затем читаем с блокировкой
		if err := s.repo.Materialize(txCtx, providerID, date, slot, seed); err != nil {
			return fmt.Errorf("materialize slot: %w", err)
		}

		override, err := s.repo.GetOverride(txCtx, providerID, date, slot)
		if err != nil {
			return fmt.Errorf("get override for update: %w", err)
		}

		current := override.MaxReservations
		if current < 0 {
			s.logger.Error("Adjust: negative capacity in ledger: provider_id=%d, date=%s, slot=%d, value=%d",
				providerID, date.Format(domain.DateFormat), slot, current)
			return fmt.Errorf("%w: slot=%d, value=%d", ErrCapacityUnderflow, slot, current)
		}

		newValue = current + delta
		if newValue < 0 {
			newValue = 0
		}
		if newValue > s.ceiling {
			newValue = s.ceiling
		}

		if newValue == current {
			return nil
		}

		return s.repo.SetValue(txCtx, providerID, date, slot, newValue)
	})
	if err != nil {
		if errors.Is(err, ErrCapacityUnderflow) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return 0, err
		}
		s.logger.Error("Adjust: transaction failed: provider_id=%d, slot=%d, error=%v", providerID, slot, err)
		return 0, fmt.Errorf("%w: Adjust: %v", ErrInternal, err)
	}

	s.logger.Info("Adjust: slot capacity adjusted: provider_id=%d, date=%s, slot=%d, delta=%+d, value=%d",
		providerID, date.Format(domain.DateFormat), slot, delta, newValue)

	return newValue, nil
}

// SetDefault выставляет дефолтную вместимость слота провайдера.
// Уже материализованные строки леджера не затрагиваются
func (s *Service) SetDefault(ctx context.Context, providerID int64, value int) (*domain.CapacityDefault, error) {
	if value < 0 || value > s.ceiling {
		return nil, fmt.Errorf("%w: default capacity must be in range [0, %d], got %d", ErrInvalidInput, s.ceiling, value)
	}

	def, err := s.repo.UpsertDefault(ctx, providerID, value)
	if err != nil {
		s.logger.Error("SetDefault: failed to upsert default: provider_id=%d, value=%d, error=%v", providerID, value, err)
		return nil, fmt.Errorf("%w: SetDefault: %v", ErrInternal, err)
	}

	s.logger.Info("SetDefault: capacity default updated: provider_id=%d, value=%d", providerID, value)

	return def, nil
}

// ConsumeSlots атомарно списывает по единице вместимости с каждого слота брони.
// Вызывается только внутри транзакции бронирования: первый же исчерпанный слот
// возвращает ErrSlotUnavailable, и транзакция откатывается целиком.
func (s *Service) ConsumeSlots(ctx context.Context, providerID int64, date time.Time, slots []int) error {
	seed, err := s.seedValue(ctx, providerID)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if err := s.repo.Materialize(ctx, providerID, date, slot, seed); err != nil {
			return fmt.Errorf("%w: ConsumeSlots - materialize slot %d: %v", ErrInternal, slot, err)
		}

		ok, err := s.repo.DecrementIfPositive(ctx, providerID, date, slot)
		if err != nil {
			return fmt.Errorf("%w: ConsumeSlots - decrement slot %d: %v", ErrInternal, slot, err)
		}
		if !ok {
			override, getErr := s.repo.GetOverride(ctx, providerID, date, slot)
			if getErr == nil && override.MaxReservations < 0 {
				s.logger.Error("ConsumeSlots: negative capacity in ledger: provider_id=%d, date=%s, slot=%d, value=%d",
					providerID, date.Format(domain.DateFormat), slot, override.MaxReservations)
				return fmt.Errorf("%w: slot=%d, value=%d", ErrCapacityUnderflow, slot, override.MaxReservations)
			}
			return fmt.Errorf("%w: slot=%d", ErrSlotUnavailable, slot)
		}
	}

	return nil
}

// ReleaseSlots возвращает по единице вместимости каждому слоту отменённой брони.
// Потолок намеренно не проверяется: возврат должен быть возможен всегда,
// даже если дефолт провайдера с момента бронирования уменьшился.
func (s *Service) ReleaseSlots(ctx context.Context, providerID int64, date time.Time, slots []int) error {
	seed, err := s.seedValue(ctx, providerID)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		// Строка могла не материализоваться, если бронь создана до появления леджера
		if err := s.repo.Materialize(ctx, providerID, date, slot, seed); err != nil {
			return fmt.Errorf("%w: ReleaseSlots - materialize slot %d: %v", ErrInternal, slot, err)
		}

		if err := s.repo.Increment(ctx, providerID, date, slot); err != nil {
			return fmt.Errorf("%w: ReleaseSlots - increment slot %d: %v", ErrInternal, slot, err)
		}
	}

	return nil
}

// seedValue возвращает посевное значение для материализации: дефолт провайдера или 0
func (s *Service) seedValue(ctx context.Context, providerID int64) (int, error) {
	def, err := s.repo.GetDefault(ctx, providerID)
	if err != nil {
		if errors.Is(err, storage.ErrDefaultNotFound) {
			return 0, nil
		}
		s.logger.Error("seedValue: failed to get default: provider_id=%d, error=%v", providerID, err)
		return 0, fmt.Errorf("%w: get capacity default: %v", ErrInternal, err)
	}
	return def.MaxReservations, nil
}
