package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	billingClient "github.com/m04kA/SMC-SalonService/internal/integrations/billingservice"
	userClient "github.com/m04kA/SMC-SalonService/internal/integrations/userservice"
	capacityService "github.com/m04kA/SMC-SalonService/internal/service/capacity"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

const notifyTimeout = 5 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	menuRepo        MenuRepository
	schedule        ScheduleService
	capacity        CapacityService
	userClient      UserServiceClient
	billingClient   BillingServiceClient
	notifier        Notifier
	txManager       TransactionManager
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// location - таймзона салона: ключи леджера и календарные сутки считаются в ней
func NewUseCase(
	reservationRepo ReservationRepository,
	menuRepo MenuRepository,
	schedule ScheduleService,
	capacity CapacityService,
	userClient UserServiceClient,
	billingClient BillingServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		menuRepo:        menuRepo,
		schedule:        schedule,
		capacity:        capacity,
		userClient:      userClient,
		billingClient:   billingClient,
		notifier:        notifier,
		txManager:       txManager,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Списание вместимости и вставка бронирования выполняются в одной serializable
// транзакции: исчерпанный слот откатывает всю операцию целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: customer=%d, provider=%d, start=%s, end=%s, menus=%v",
		req.CustomerID, req.ProviderID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), req.MenuIDs)

	// Слоты и календарные сутки считаются в таймзоне салона, каким бы ни был
	// офсет клиента: отмена пересчитает те же слоты из тех же меток времени
	req.StartAt = req.StartAt.In(uc.location)
	req.EndAt = req.EndAt.In(uc.location)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование должно начинаться в будущем
	now := uc.timeProvider.Now()
	if !req.StartAt.After(now) {
		uc.logger.Warn("CreateReservation: start is not in the future: start=%s, now=%s",
			req.StartAt.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, ErrInvalidDate
	}

	// 3. Проверяем существование клиента
	if _, err := uc.userClient.GetUser(ctx, req.CustomerID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateReservation: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 4. Проверяем подписку провайдера
	// При недоступности биллинга (graceful degradation) бронирование не блокируется
	sub, err := uc.billingClient.GetSubscriptionWithGracefulDegradation(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, billingClient.ErrSubscriptionNotFound) {
			uc.logger.Warn("CreateReservation: provider id=%d has no subscription", req.ProviderID)
			return nil, ErrSubscriptionInactive
		}
		if !errors.Is(err, billingClient.ErrServiceDegraded) {
			uc.logger.Error("CreateReservation: failed to get subscription for provider id=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to get subscription: %v", ErrInternal, err)
		}
	} else if !sub.Active {
		uc.logger.Warn("CreateReservation: provider id=%d subscription is inactive", req.ProviderID)
		return nil, ErrSubscriptionInactive
	}

	// 5. Получаем и валидируем позиции меню
	catalog, err := uc.menuRepo.GetByIDs(ctx, req.ProviderID, req.MenuIDs)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get menus: %v", err)
		return nil, fmt.Errorf("%w: failed to get menus: %v", ErrInternal, err)
	}

	menus, err := validateMenus(req.MenuIDs, catalog)
	if err != nil {
		uc.logger.Warn("CreateReservation: menu validation failed: %v", err)
		return nil, err
	}

	// 6. Окно бронирования должно совпадать с суммой длительностей меню
	if err := validateDuration(req.StartAt, req.EndAt, menus); err != nil {
		uc.logger.Warn("CreateReservation: duration validation failed: %v", err)
		return nil, err
	}

	// 7. Проверяем рабочие часы на дату визита
	hours, err := uc.schedule.EffectiveHours(ctx, req.ProviderID, req.StartAt)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get effective hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get effective hours: %v", ErrInternal, err)
	}

	if !hours.IsOpen {
		uc.logger.Warn("CreateReservation: provider id=%d is closed on %s",
			req.ProviderID, req.StartAt.Format(domain.DateFormat))
		return nil, ErrProviderClosed
	}

	startTime := types.NewTimeString(req.StartAt)
	endTime, err := startTime.AddMinutes(totalDuration(menus))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to compute end time: %v", err)
		return nil, fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
	}

	if !hours.Contains(startTime, endTime) {
		uc.logger.Warn("CreateReservation: window [%s, %s] is outside working hours [%s, %s]",
			startTime, endTime, hours.OpenTime, hours.CloseTime)
		return nil, ErrOutsideWorkingHours
	}

	// 8. Вычисляем занимаемые слоты
	slots := domain.CoveredSlots(req.StartAt, req.EndAt)

	var result *domain.Reservation

	// 9. Списываем вместимость и создаем бронирование атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.capacity.ConsumeSlots(txCtx, req.ProviderID, req.StartAt, slots); err != nil {
			if errors.Is(err, capacityService.ErrSlotUnavailable) {
				uc.logger.Warn("CreateReservation: slot unavailable: provider=%d, date=%s, error=%v",
					req.ProviderID, req.StartAt.Format(domain.DateFormat), err)
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: failed to consume slots: %v", ErrInternal, err)
		}

		reservation := &domain.Reservation{
			CustomerID: req.CustomerID,
			ProviderID: req.ProviderID,
			StartAt:    req.StartAt,
			EndAt:      req.EndAt,
			Status:     domain.StatusBeforeVisit,
			Menus:      toReservationMenus(menus),
			TotalPrice: totalPrice(menus),
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, slots=%v", result.ID, slots)

	// 10. Подтверждение после коммита, fire-and-forget
	go func(res domain.Reservation) {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.SendConfirmation(notifyCtx, &res); err != nil {
			uc.logger.Warn("CreateReservation: failed to send confirmation: reservation_id=%d, error=%v", res.ID, err)
		}
	}(*result)

	return toResponse(result), nil
}

// totalDuration возвращает суммарную длительность позиций меню в минутах
func totalDuration(menus []*domain.Menu) int {
	total := 0
	for _, m := range menus {
		total += m.DurationMinutes
	}
	return total
}

// totalPrice возвращает суммарную стоимость позиций меню
func totalPrice(menus []*domain.Menu) float64 {
	total := 0.0
	for _, m := range menus {
		total += m.Price
	}
	return total
}

// toReservationMenus денормализует позиции каталога в состав бронирования
func toReservationMenus(menus []*domain.Menu) []domain.ReservationMenu {
	items := make([]domain.ReservationMenu, 0, len(menus))
	for _, m := range menus {
		items = append(items, domain.ReservationMenu{
			MenuID:          m.ID,
			MenuName:        m.Name,
			DurationMinutes: m.DurationMinutes,
			Price:           m.Price,
		})
	}
	return items
}

// toResponse конвертирует доменную модель в response
func toResponse(res *domain.Reservation) *Response {
	menus := make([]MenuItem, 0, len(res.Menus))
	for _, m := range res.Menus {
		menus = append(menus, MenuItem{
			MenuID:          m.MenuID,
			MenuName:        m.MenuName,
			DurationMinutes: m.DurationMinutes,
			Price:           m.Price,
		})
	}

	return &Response{
		ID:         res.ID,
		CustomerID: res.CustomerID,
		ProviderID: res.ProviderID,
		StartAt:    res.StartAt,
		EndAt:      res.EndAt,
		Status:     string(res.Status),
		Menus:      menus,
		TotalPrice: res.TotalPrice,
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	}
}
