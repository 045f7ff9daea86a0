package capacity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	storage "github.com/m04kA/SMC-SalonService/internal/infra/storage/capacity"
)

type fakeCapacityRepo struct {
	mu        sync.Mutex
	defaults  map[int64]int
	overrides map[string]int
}

func newFakeCapacityRepo() *fakeCapacityRepo {
	return &fakeCapacityRepo{
		defaults:  make(map[int64]int),
		overrides: make(map[string]int),
	}
}

func overrideKey(providerID int64, date time.Time, slot int) string {
	return fmt.Sprintf("%d|%s|%d", providerID, date.Format(domain.DateFormat), slot)
}

func (f *fakeCapacityRepo) GetDefault(_ context.Context, providerID int64) (*domain.CapacityDefault, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.defaults[providerID]
	if !ok {
		return nil, storage.ErrDefaultNotFound
	}
	return &domain.CapacityDefault{ProviderID: providerID, MaxReservations: value}, nil
}

func (f *fakeCapacityRepo) UpsertDefault(_ context.Context, providerID int64, maxReservations int) (*domain.CapacityDefault, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults[providerID] = maxReservations
	return &domain.CapacityDefault{ProviderID: providerID, MaxReservations: maxReservations}, nil
}

func (f *fakeCapacityRepo) GetOverride(_ context.Context, providerID int64, date time.Time, slot int) (*domain.SlotCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.overrides[overrideKey(providerID, date, slot)]
	if !ok {
		return nil, storage.ErrOverrideNotFound
	}
	return &domain.SlotCapacity{
		ProviderID:      providerID,
		TargetDate:      date,
		TimeSlot:        slot,
		MaxReservations: value,
	}, nil
}

func (f *fakeCapacityRepo) ListOverridesForDate(_ context.Context, providerID int64, date time.Time) ([]*domain.SlotCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.SlotCapacity, 0)
	for slot := 0; slot < domain.SlotsPerDay; slot++ {
		if value, ok := f.overrides[overrideKey(providerID, date, slot)]; ok {
			result = append(result, &domain.SlotCapacity{
				ProviderID:      providerID,
				TargetDate:      date,
				TimeSlot:        slot,
				MaxReservations: value,
			})
		}
	}
	return result, nil
}

func (f *fakeCapacityRepo) Materialize(_ context.Context, providerID int64, date time.Time, slot int, seed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(providerID, date, slot)
	if _, ok := f.overrides[key]; !ok {
		f.overrides[key] = seed
	}
	return nil
}

func (f *fakeCapacityRepo) DecrementIfPositive(_ context.Context, providerID int64, date time.Time, slot int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(providerID, date, slot)
	value, ok := f.overrides[key]
	if !ok || value <= 0 {
		return false, nil
	}
	f.overrides[key] = value - 1
	return true, nil
}

func (f *fakeCapacityRepo) Increment(_ context.Context, providerID int64, date time.Time, slot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(providerID, date, slot)
	if _, ok := f.overrides[key]; !ok {
		return storage.ErrOverrideNotFound
	}
	f.overrides[key]++
	return nil
}

func (f *fakeCapacityRepo) SetValue(_ context.Context, providerID int64, date time.Time, slot int, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(providerID, date, slot)
	if _, ok := f.overrides[key]; !ok {
		return storage.ErrOverrideNotFound
	}
	f.overrides[key] = value
	return nil
}

func (f *fakeCapacityRepo) setOverride(providerID int64, date time.Time, slot, value int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[overrideKey(providerID, date, slot)] = value
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newTestService(repo *fakeCapacityRepo) *Service {
	return NewService(repo, &fakeTxManager{}, 2, nopLogger{})
}

func TestRemaining_FallsBackToDefault(t *testing.T) {
	repo := newFakeCapacityRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Ни дефолта, ни переопределения - ноль
	remaining, err := svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Появился дефолт
	repo.defaults[1] = 2
	remaining, err = svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	// Переопределение приоритетнее дефолта
	repo.setOverride(1, testDate, 20, 0)
	remaining, err = svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestRemaining_InvalidSlot(t *testing.T) {
	svc := newTestService(newFakeCapacityRepo())

	_, err := svc.Remaining(context.Background(), 1, testDate, 48)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Remaining(context.Background(), 1, testDate, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdjust_MaterializesWithSeed(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	svc := newTestService(repo)

	value, err := svc.Adjust(context.Background(), 1, testDate, 20, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, value, "seeded with default 2, then decremented")
}

func TestAdjust_ClampsSilently(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	svc := newTestService(repo)
	ctx := context.Background()

	// Выше потолка не растёт, ошибки нет
	value, err := svc.Adjust(ctx, 1, testDate, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, value)

	// Ниже нуля не опускается
	repo.setOverride(1, testDate, 21, 0)
	value, err = svc.Adjust(ctx, 1, testDate, 21, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestAdjust_FrozenSeed(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	svc := newTestService(repo)
	ctx := context.Background()

	// Материализуем строку со значением 2-1=1
	_, err := svc.Adjust(ctx, 1, testDate, 20, -1)
	require.NoError(t, err)

	// Смена дефолта материализованную строку не трогает
	_, err = svc.SetDefault(ctx, 1, 0)
	require.NoError(t, err)

	remaining, err := svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	// А нематериализованный слот видит новый дефолт
	remaining, err = svc.Remaining(ctx, 1, testDate, 21)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestAdjust_InvalidDelta(t *testing.T) {
	svc := newTestService(newFakeCapacityRepo())

	_, err := svc.Adjust(context.Background(), 1, testDate, 20, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Adjust(context.Background(), 1, testDate, 20, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdjust_UnderflowDetected(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.setOverride(1, testDate, 20, -1)
	svc := newTestService(repo)

	_, err := svc.Adjust(context.Background(), 1, testDate, 20, 1)
	assert.ErrorIs(t, err, ErrCapacityUnderflow)
}

func TestSetDefault_ValidatesRange(t *testing.T) {
	svc := newTestService(newFakeCapacityRepo())
	ctx := context.Background()

	_, err := svc.SetDefault(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetDefault(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	def, err := svc.SetDefault(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, def.MaxReservations)
}

func TestConsumeSlots_DecrementsEachSlot(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	svc := newTestService(repo)
	ctx := context.Background()

	err := svc.ConsumeSlots(ctx, 1, testDate, []int{20, 21})
	require.NoError(t, err)

	for _, slot := range []int{20, 21} {
		remaining, err := svc.Remaining(ctx, 1, testDate, slot)
		require.NoError(t, err)
		assert.Equal(t, 1, remaining, "slot %d", slot)
	}
}

func TestConsumeSlots_ExhaustedSlotFails(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 1
	repo.setOverride(1, testDate, 21, 0)
	svc := newTestService(repo)

	err := svc.ConsumeSlots(context.Background(), 1, testDate, []int{20, 21})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestConsumeSlots_UnderflowDetected(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.setOverride(1, testDate, 20, -1)
	svc := newTestService(repo)

	err := svc.ConsumeSlots(context.Background(), 1, testDate, []int{20})
	assert.ErrorIs(t, err, ErrCapacityUnderflow)
}

func TestReleaseSlots_IncrementsWithoutCeiling(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	repo.setOverride(1, testDate, 20, 2)
	svc := newTestService(repo)
	ctx := context.Background()

	// Возврат выше потолка допустим
	err := svc.ReleaseSlots(ctx, 1, testDate, []int{20})
	require.NoError(t, err)

	remaining, err := svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestReleaseSlots_MaterializesMissingRow(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 1
	svc := newTestService(repo)
	ctx := context.Background()

	err := svc.ReleaseSlots(ctx, 1, testDate, []int{20})
	require.NoError(t, err)

	remaining, err := svc.Remaining(ctx, 1, testDate, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining, "seeded with default 1, then incremented")
}

func TestDayRemaining_MergesOverrides(t *testing.T) {
	repo := newFakeCapacityRepo()
	repo.defaults[1] = 2
	repo.setOverride(1, testDate, 20, 0)
	repo.setOverride(1, testDate, 21, 1)
	svc := newTestService(repo)

	day, err := svc.DayRemaining(context.Background(), 1, testDate)
	require.NoError(t, err)

	assert.Equal(t, 0, day[20])
	assert.Equal(t, 1, day[21])
	assert.Equal(t, 2, day[22], "unmaterialized slot uses default")
}
