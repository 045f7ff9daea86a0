package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// UseCase use case для получения доступности слотов на дату
type UseCase struct {
	schedule ScheduleService
	capacity CapacityService
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(schedule ScheduleService, capacity CapacityService, logger Logger) *UseCase {
	return &UseCase{
		schedule: schedule,
		capacity: capacity,
		logger:   logger,
	}
}

// Execute возвращает доступность всех 48 получасовых слотов на дату.
// Слот доступен, если он целиком попадает в рабочие часы провайдера
// и его остаток вместимости положителен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	hours, err := uc.schedule.EffectiveHours(ctx, req.ProviderID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get effective hours: provider=%d, date=%s, error=%v",
			req.ProviderID, req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get effective hours: %v", ErrInternal, err)
	}

	resp := &Response{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		IsOpen:     hours.IsOpen,
		Slots:      make([]Slot, domain.SlotsPerDay),
	}

	// В закрытый день все слоты недоступны, леджер не читаем
	if !hours.IsOpen {
		for i := range resp.Slots {
			resp.Slots[i] = Slot{Index: i, StartTime: slotStartTime(i)}
		}
		return resp, nil
	}

	day, err := uc.capacity.DayRemaining(ctx, req.ProviderID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get day capacity: provider=%d, date=%s, error=%v",
			req.ProviderID, req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get day capacity: %v", ErrInternal, err)
	}

	for i := 0; i < domain.SlotsPerDay; i++ {
		remaining := day[i]
		resp.Slots[i] = Slot{
			Index:     i,
			StartTime: slotStartTime(i),
			Available: hours.ContainsSlot(i) && remaining > 0,
			Remaining: remaining,
		}
	}

	return resp, nil
}

// slotStartTime возвращает начало слота в формате "HH:MM"
func slotStartTime(slot int) string {
	min := domain.SlotStartMinutes(slot)
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
