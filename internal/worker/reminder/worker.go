package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const sendTimeout = 10 * time.Second

// Worker фоновый воркер напоминаний о завтрашних визитах.
// Раз в checkInterval выбирает бронирования со start_at в следующем календарном
// дне (в таймзоне салона), созданные до начала сегодняшнего дня, и рассылает
// напоминания. Сегодняшние брони исключаются: клиент и так помнит о записи,
// которую сделал сегодня.
type Worker struct {
	repo          ReservationRepository
	userClient    UserServiceClient
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger
	location      *time.Location
	checkInterval time.Duration
	maxConcurrent int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWorker создает новый экземпляр воркера напоминаний
func NewWorker(
	repo ReservationRepository,
	userClient UserServiceClient,
	notifier Notifier,
	location *time.Location,
	checkInterval time.Duration,
	maxConcurrent int,
	logger Logger,
) *Worker {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Worker{
		repo:          repo,
		userClient:    userClient,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		location:      location,
		checkInterval: checkInterval,
		maxConcurrent: maxConcurrent,
		stopCh:        make(chan struct{}),
	}
}

// Start запускает фоновый цикл воркера
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("ReminderWorker: starting, interval=%s, max_concurrent=%d", w.checkInterval, w.maxConcurrent)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.checkInterval)
		defer ticker.Stop()

		// Первый проход сразу при старте, не дожидаясь тикера
		w.processBatch(ctx)

		for {
			select {
			case <-ticker.C:
				w.processBatch(ctx)
			case <-w.stopCh:
				w.logger.Info("ReminderWorker: stop signal received")
				return
			case <-ctx.Done():
				w.logger.Info("ReminderWorker: context canceled")
				return
			}
		}
	}()
}

// Stop останавливает воркер и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.logger.Info("ReminderWorker: stopped")
}

// processBatch выполняет один проход: выборка завтрашних броней и рассылка
func (w *Worker) processBatch(ctx context.Context) {
	now := w.timeProvider.Now().In(w.location)

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.location)
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	dayAfterStart := todayStart.AddDate(0, 0, 2)

	reservations, err := w.repo.ListForReminder(ctx, tomorrowStart, dayAfterStart, todayStart)
	if err != nil {
		w.logger.Error("ReminderWorker: failed to list reservations: %v", err)
		return
	}

	if len(reservations) == 0 {
		return
	}

	w.logger.Info("ReminderWorker: found %d reservations for %s", len(reservations), tomorrowStart.Format(domain.DateFormat))

	// Ограничиваем параллелизм отправки семафором
	sem := make(chan struct{}, w.maxConcurrent)
	var wg sync.WaitGroup

	for _, res := range reservations {
		select {
		case <-w.stopCh:
			w.logger.Info("ReminderWorker: batch interrupted by stop signal")
			wg.Wait()
			return
		case <-ctx.Done():
			wg.Wait()
			return
		default:
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(res *domain.Reservation) {
			defer wg.Done()
			defer func() { <-sem }()

			// Ошибка одной отправки не прерывает проход
			w.remind(ctx, res)
		}(res)
	}

	wg.Wait()
}

// remind отправляет напоминание по одному бронированию
func (w *Worker) remind(ctx context.Context, res *domain.Reservation) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	user, err := w.userClient.GetUser(sendCtx, res.CustomerID)
	if err != nil {
		w.logger.Warn("ReminderWorker: failed to get customer: reservation_id=%d, customer_id=%d, error=%v",
			res.ID, res.CustomerID, err)
		return
	}

	// Демо-аккаунты напоминания не получают
	if user.IsDemo {
		return
	}

	if err := w.notifier.SendReminder(sendCtx, res); err != nil {
		w.logger.Warn("ReminderWorker: failed to send reminder: reservation_id=%d, error=%v", res.ID, err)
		return
	}

	w.logger.Info("ReminderWorker: reminder sent: reservation_id=%d, customer_id=%d, start_at=%s",
		res.ID, res.CustomerID, res.StartAt.Format(time.RFC3339))
}
