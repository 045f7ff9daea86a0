package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Service сервис управления расписанием провайдеров
type Service struct {
	repo      ScheduleRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(repo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// EffectiveHours возвращает действующие часы работы провайдера на конкретную дату.
// Выходной день имеет приоритет над рабочими часами: в выходной провайдер закрыт,
// даже если на этот день недели заданы часы работы.
func (s *Service) EffectiveHours(ctx context.Context, providerID int64, date time.Time) (*domain.EffectiveHours, error) {
	day := date.Weekday()

	isHoliday, err := s.repo.HolidayExists(ctx, providerID, day)
	if err != nil {
		s.logger.Error("EffectiveHours: failed to check holiday: provider_id=%d, day=%d, error=%v", providerID, day, err)
		return nil, fmt.Errorf("%w: EffectiveHours - check holiday: %v", ErrInternal, err)
	}

	if isHoliday {
		return &domain.EffectiveHours{IsOpen: false}, nil
	}

	wh, err := s.repo.GetWorkingHoursForDay(ctx, providerID, day)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkingHoursNotFound) {
			// Часы на этот день недели не заданы - провайдер закрыт
			return &domain.EffectiveHours{IsOpen: false}, nil
		}
		s.logger.Error("EffectiveHours: failed to get working hours: provider_id=%d, day=%d, error=%v", providerID, day, err)
		return nil, fmt.Errorf("%w: EffectiveHours - get working hours: %v", ErrInternal, err)
	}

	return &domain.EffectiveHours{
		IsOpen:    true,
		OpenTime:  wh.StartTime,
		CloseTime: wh.EndTime,
	}, nil
}

// ReplaceWorkingHours полностью перезаписывает недельное расписание провайдера.
// Дни, отсутствующие в запросе, удаляются (провайдер закрыт в эти дни).
func (s *Service) ReplaceWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.ScheduleResponse, error) {
	if err := s.validateWorkingHours(req); err != nil {
		return nil, err
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		keepDays := make([]time.Weekday, 0, len(req.Days))

		for _, day := range req.Days {
			startTime, err := types.NewTimeStringFromString(day.StartTime)
			if err != nil {
				return fmt.Errorf("%w: invalid start_time %q: %v", ErrInvalidInput, day.StartTime, err)
			}
			endTime, err := types.NewTimeStringFromString(day.EndTime)
			if err != nil {
				return fmt.Errorf("%w: invalid end_time %q: %v", ErrInvalidInput, day.EndTime, err)
			}

			wh := &domain.WorkingHours{
				ProviderID: req.ProviderID,
				DayOfWeek:  time.Weekday(day.DayOfWeek),
				StartTime:  startTime,
				EndTime:    endTime,
			}

			if _, err := s.repo.UpsertWorkingHours(txCtx, wh); err != nil {
				return fmt.Errorf("upsert working hours for day %d: %w", day.DayOfWeek, err)
			}

			keepDays = append(keepDays, time.Weekday(day.DayOfWeek))
		}

		if err := s.repo.DeleteWorkingHoursNotIn(txCtx, req.ProviderID, keepDays); err != nil {
			return fmt.Errorf("delete stale working hours: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		s.logger.Error("ReplaceWorkingHours: transaction failed: provider_id=%d, error=%v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ReplaceWorkingHours: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWorkingHours: schedule updated: provider_id=%d, days=%d", req.ProviderID, len(req.Days))

	return s.GetSchedule(ctx, req.ProviderID)
}

// ReconcileHolidays приводит набор выходных дней провайдера к заданному.
// Недостающие дни создаются, лишние удаляются, существующие не трогаются.
func (s *Service) ReconcileHolidays(ctx context.Context, req *models.UpdateHolidaysRequest) (*models.ScheduleResponse, error) {
	for _, d := range req.Days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: day_of_week must be in range [0, 6], got %d", ErrInvalidInput, d)
		}
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, day := range req.Weekdays() {
			if err := s.repo.CreateHoliday(txCtx, req.ProviderID, day); err != nil {
				return fmt.Errorf("create holiday for day %d: %w", day, err)
			}
		}

		if err := s.repo.DeleteHolidaysNotIn(txCtx, req.ProviderID, req.Weekdays()); err != nil {
			return fmt.Errorf("delete stale holidays: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("ReconcileHolidays: transaction failed: provider_id=%d, error=%v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ReconcileHolidays: %v", ErrInternal, err)
	}

	s.logger.Info("ReconcileHolidays: holidays updated: provider_id=%d, days=%v", req.ProviderID, req.Days)

	return s.GetSchedule(ctx, req.ProviderID)
}

// GetSchedule возвращает недельное расписание провайдера: часы работы и выходные
func (s *Service) GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error) {
	hours, err := s.repo.GetWorkingHours(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get working hours: provider_id=%d, error=%v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - get working hours: %v", ErrInternal, err)
	}

	holidays, err := s.repo.GetHolidays(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get holidays: provider_id=%d, error=%v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - get holidays: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(providerID, hours, holidays), nil
}

func (s *Service) validateWorkingHours(req *models.UpdateWorkingHoursRequest) error {
	seen := make(map[int]bool, len(req.Days))

	for _, day := range req.Days {
		if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
			return fmt.Errorf("%w: day_of_week must be in range [0, 6], got %d", ErrInvalidInput, day.DayOfWeek)
		}
		if seen[day.DayOfWeek] {
			return fmt.Errorf("%w: duplicate day_of_week %d", ErrInvalidInput, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		startTime, err := types.NewTimeStringFromString(day.StartTime)
		if err != nil {
			return fmt.Errorf("%w: invalid start_time %q", ErrInvalidInput, day.StartTime)
		}
		endTime, err := types.NewTimeStringFromString(day.EndTime)
		if err != nil {
			return fmt.Errorf("%w: invalid end_time %q", ErrInvalidInput, day.EndTime)
		}
		if !startTime.IsBefore(endTime) {
			return fmt.Errorf("%w: start_time %s must be before end_time %s", ErrInvalidInput, day.StartTime, day.EndTime)
		}
	}

	return nil
}
