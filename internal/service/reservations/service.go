package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	storage "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

const notifyTimeout = 5 * time.Second

// Service сервис жизненного цикла бронирований: чтение, отмена, смена статуса
type Service struct {
	repo      ReservationRepository
	capacity  CapacityService
	notifier  Notifier
	txManager TransactionManager
	location  *time.Location
	logger    Logger
}

// NewService создает новый экземпляр сервиса бронирований
// location - таймзона салона, в которой считаются ключи леджера вместимости
func NewService(repo ReservationRepository, capacity CapacityService, notifier Notifier, txManager TransactionManager, location *time.Location, logger Logger) *Service {
	return &Service{
		repo:      repo,
		capacity:  capacity,
		notifier:  notifier,
		txManager: txManager,
		location:  location,
		logger:    logger,
	}
}

// GetByID возвращает бронирование по ID
// Доступ имеют только клиент и провайдер этого бронирования
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*models.ReservationResponse, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrReservationNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrReservationNotFound, id)
		}
		s.logger.Error("GetByID: failed to get reservation: id=%d, error=%v", id, err)
		return nil, fmt.Errorf("%w: GetByID: %v", ErrInternal, err)
	}

	if res.CustomerID != userID && res.ProviderID != userID {
		return nil, fmt.Errorf("%w: user_id=%d, reservation_id=%d", ErrAccessDenied, userID, id)
	}

	return models.FromDomain(res), nil
}

// GetCustomerReservations возвращает бронирования клиента, опционально фильтруя по статусу
func (s *Service) GetCustomerReservations(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*models.ReservationResponse, error) {
	list, err := s.repo.GetByCustomerID(ctx, customerID, status)
	if err != nil {
		s.logger.Error("GetCustomerReservations: failed to get reservations: customer_id=%d, error=%v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations: %v", ErrInternal, err)
	}

	return models.FromDomainList(list), nil
}

// GetProviderReservations возвращает бронирования провайдера по фильтру
func (s *Service) GetProviderReservations(ctx context.Context, filter domain.ProviderReservationsFilter) ([]*models.ReservationResponse, error) {
	list, err := s.repo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderReservations: failed to get reservations: provider_id=%d, error=%v", filter.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderReservations: %v", ErrInternal, err)
	}

	return models.FromDomainList(list), nil
}

// Cancel отменяет бронирование и возвращает вместимость занятых слотов.
// Отмена и возврат выполняются в одной serializable транзакции: бронирование
// читается с блокировкой FOR UPDATE, поэтому конкурентная повторная отмена
// увидит статус canceled и вместимость не вернётся дважды.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.ReservationResponse, error) {
	var canceled *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, storage.ErrReservationNotFound) {
				return fmt.Errorf("%w: id=%d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("get reservation for update: %w", err)
		}

		// Из БД метки приходят в таймзоне сессии; слоты для возврата должны
		// совпасть с теми, что списало создание - считаем в таймзоне салона
		res.StartAt = res.StartAt.In(s.location)
		res.EndAt = res.EndAt.In(s.location)

		if res.CustomerID != req.UserID && res.ProviderID != req.UserID {
			return fmt.Errorf("%w: user_id=%d, reservation_id=%d", ErrAccessDenied, req.UserID, id)
		}

		if res.IsCanceled() {
			return fmt.Errorf("%w: id=%d", ErrAlreadyCanceled, id)
		}
		if !res.CanBeCancelled() {
			return fmt.Errorf("%w: id=%d, status=%s", ErrCannotCancel, id, res.Status)
		}

		if err := s.repo.Cancel(txCtx, id, req.Reason); err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}

		if err := s.capacity.ReleaseSlots(txCtx, res.ProviderID, res.StartAt, res.CoveredSlots()); err != nil {
			return fmt.Errorf("release slots: %w", err)
		}

		canceled = res
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) || errors.Is(err, ErrAlreadyCanceled) ||
			errors.Is(err, ErrCannotCancel) || errors.Is(err, ErrAccessDenied) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed: id=%d, error=%v", id, err)
		return nil, fmt.Errorf("%w: Cancel: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: reservation canceled: id=%d, provider_id=%d, slots=%v", id, canceled.ProviderID, canceled.CoveredSlots())

	canceled.Status = domain.StatusCanceled
	canceled.CancellationReason = &req.Reason

	// Уведомление после коммита, fire-and-forget: ошибка отправки не отменяет отмену
	go func(res domain.Reservation) {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.SendCancellation(notifyCtx, &res); err != nil {
			s.logger.Warn("Cancel: failed to send cancellation notification: reservation_id=%d, error=%v", res.ID, err)
		}
	}(*canceled)

	return models.FromDomain(canceled), nil
}

// UpdateStatus переводит бронирование в статус visited или no_show.
// Доступно только провайдеру бронирования; переход разрешён только из before_visit.
// Вместимость при этом не меняется - визит уже состоялся или слот уже прошёл.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	if req.Status != domain.StatusVisited && req.Status != domain.StatusNoShow {
		return nil, fmt.Errorf("%w: status must be visited or no_show, got %s", ErrInvalidInput, req.Status)
	}

	var updated *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, storage.ErrReservationNotFound) {
				return fmt.Errorf("%w: id=%d", ErrReservationNotFound, id)
			}
			return fmt.Errorf("get reservation for update: %w", err)
		}

		if res.ProviderID != req.UserID {
			return fmt.Errorf("%w: user_id=%d, reservation_id=%d", ErrAccessDenied, req.UserID, id)
		}

		if !res.CanTransitionTo(req.Status) {
			return fmt.Errorf("%w: id=%d, from=%s, to=%s", ErrInvalidTransition, id, res.Status, req.Status)
		}

		if err := s.repo.UpdateStatus(txCtx, id, req.Status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		updated = res
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		s.logger.Error("UpdateStatus: transaction failed: id=%d, error=%v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: reservation status updated: id=%d, status=%s", id, req.Status)

	updated.Status = req.Status
	return models.FromDomain(updated), nil
}
