package reservations

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	storage "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-SalonService/internal/service/reservations/models"
)

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[int64]*domain.Reservation)}
}

func (f *fakeReservationRepo) put(res *domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *res
	f.reservations[res.ID] = &copied
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, storage.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Reservation, 0)
	for _, res := range f.reservations {
		if res.CustomerID != customerID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		copied := *res
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeReservationRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderReservationsFilter) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Reservation, 0)
	for _, res := range f.reservations {
		if res.ProviderID != filter.ProviderID {
			continue
		}
		if !filter.IncludeInactive && res.Status == domain.StatusCanceled {
			continue
		}
		copied := *res
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return storage.ErrReservationNotFound
	}
	res.Status = status
	return nil
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return storage.ErrReservationNotFound
	}
	now := time.Now()
	res.Status = domain.StatusCanceled
	res.CancellationReason = &reason
	res.CancelledAt = &now
	return nil
}

type fakeCapacity struct {
	mu       sync.Mutex
	released [][]int
}

func (f *fakeCapacity) ReleaseSlots(_ context.Context, _ int64, _ time.Time, slots []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, slots)
	return nil
}

func (f *fakeCapacity) releaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.released)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []int64
}

func (f *fakeNotifier) SendCancellation(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, res.ID)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func activeReservation(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		CustomerID: 100,
		ProviderID: 200,
		StartAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		Status:     domain.StatusBeforeVisit,
	}
}

func newTestService(repo *fakeReservationRepo, capacity *fakeCapacity, notifier *fakeNotifier) *Service {
	return NewService(repo, capacity, notifier, &fakeTxManager{}, time.UTC, nopLogger{})
}

func TestGetByID_AccessControl(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	svc := newTestService(repo, &fakeCapacity{}, &fakeNotifier{})
	ctx := context.Background()

	// Клиент и провайдер видят бронирование
	res, err := svc.GetByID(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)

	_, err = svc.GetByID(ctx, 1, 200)
	require.NoError(t, err)

	// Посторонний пользователь - нет
	_, err = svc.GetByID(ctx, 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, 42, 100)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel_ReleasesCapacityOnce(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	capacity := &fakeCapacity{}
	svc := newTestService(repo, capacity, &fakeNotifier{})
	ctx := context.Background()

	result, err := svc.Cancel(ctx, 1, &models.CancelRequest{UserID: 100, Reason: "передумал"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceled), result.Status)
	assert.Equal(t, 1, capacity.releaseCount())
	assert.Equal(t, [][]int{{20, 21}}, capacity.released)

	// Повторная отмена не возвращает вместимость второй раз
	_, err = svc.Cancel(ctx, 1, &models.CancelRequest{UserID: 100, Reason: "ещё раз"})
	assert.ErrorIs(t, err, ErrAlreadyCanceled)
	assert.Equal(t, 1, capacity.releaseCount())
}

func TestCancel_SlotKeysUseSalonTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	repo := newFakeReservationRepo()
	// 10:00-11:00 по Токио, сохранено в UTC (как вернёт TIMESTAMPTZ из БД)
	res := activeReservation(1)
	res.StartAt = time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)
	res.EndAt = time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC)
	repo.put(res)

	capacity := &fakeCapacity{}
	svc := NewService(repo, capacity, &fakeNotifier{}, &fakeTxManager{}, loc, nopLogger{})

	_, err = svc.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 100, Reason: "передумал"})
	require.NoError(t, err)

	// Возвращаются слоты токийского утра, а не слоты 2,3 по UTC
	assert.Equal(t, [][]int{{20, 21}}, capacity.released)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	capacity := &fakeCapacity{}
	svc := newTestService(repo, capacity, &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, capacity.releaseCount())
}

func TestCancel_TerminalStatus(t *testing.T) {
	repo := newFakeReservationRepo()
	visited := activeReservation(1)
	visited.Status = domain.StatusVisited
	repo.put(visited)
	capacity := &fakeCapacity{}
	svc := newTestService(repo, capacity, &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 100})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 0, capacity.releaseCount())
}

func TestUpdateStatus_ProviderOnly(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	svc := newTestService(repo, &fakeCapacity{}, &fakeNotifier{})
	ctx := context.Background()

	// Клиент не может отметить визит
	_, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: 100, Status: domain.StatusVisited})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Провайдер может
	result, err := svc.UpdateStatus(ctx, 1, &models.UpdateStatusRequest{UserID: 200, Status: domain.StatusVisited})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusVisited), result.Status)
}

func TestUpdateStatus_OnlyFromBeforeVisit(t *testing.T) {
	repo := newFakeReservationRepo()
	canceled := activeReservation(1)
	canceled.Status = domain.StatusCanceled
	repo.put(canceled)
	svc := newTestService(repo, &fakeCapacity{}, &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 200, Status: domain.StatusNoShow})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RejectsCancellationStatus(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	svc := newTestService(repo, &fakeCapacity{}, &fakeNotifier{})

	// Отмена идёт через Cancel, не через смену статуса
	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: 200, Status: domain.StatusCanceled})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerReservations_FiltersByStatus(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.put(activeReservation(1))
	canceled := activeReservation(2)
	canceled.Status = domain.StatusCanceled
	repo.put(canceled)
	svc := newTestService(repo, &fakeCapacity{}, &fakeNotifier{})
	ctx := context.Background()

	all, err := svc.GetCustomerReservations(ctx, 100, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := domain.StatusBeforeVisit
	active, err := svc.GetCustomerReservations(ctx, 100, &status)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)
}
