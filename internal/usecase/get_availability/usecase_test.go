package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type fakeSchedule struct {
	hours *domain.EffectiveHours
}

func (f *fakeSchedule) EffectiveHours(_ context.Context, _ int64, _ time.Time) (*domain.EffectiveHours, error) {
	return f.hours, nil
}

type fakeCapacity struct {
	day domain.DayCapacity
}

func (f *fakeCapacity) DayRemaining(_ context.Context, _ int64, _ time.Time) (*domain.DayCapacity, error) {
	day := f.day
	return &day, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestExecute_ClosedDay(t *testing.T) {
	uc := NewUseCase(
		&fakeSchedule{hours: &domain.EffectiveHours{IsOpen: false}},
		&fakeCapacity{day: domain.NewDayCapacity(2)},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: testDate})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	require.Len(t, resp.Slots, domain.SlotsPerDay)
	for _, slot := range resp.Slots {
		assert.False(t, slot.Available, "slot %d", slot.Index)
	}
}

func TestExecute_OpenDay(t *testing.T) {
	day := domain.NewDayCapacity(2)
	day[20] = 0 // 10:00 исчерпан
	day[21] = 1

	uc := NewUseCase(
		&fakeSchedule{hours: &domain.EffectiveHours{
			IsOpen:    true,
			OpenTime:  "10:00",
			CloseTime: "19:00",
		}},
		&fakeCapacity{day: day},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, Date: testDate})
	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	require.Len(t, resp.Slots, domain.SlotsPerDay)

	// До открытия недоступно, даже при положительном остатке
	assert.False(t, resp.Slots[19].Available)
	assert.Equal(t, "09:30", resp.Slots[19].StartTime)

	// Исчерпанный слот в рабочих часах недоступен
	assert.False(t, resp.Slots[20].Available)
	assert.Equal(t, 0, resp.Slots[20].Remaining)

	// Рабочий слот с остатком доступен
	assert.True(t, resp.Slots[21].Available)
	assert.Equal(t, 1, resp.Slots[21].Remaining)
	assert.Equal(t, "10:30", resp.Slots[21].StartTime)

	// Последний слот перед закрытием доступен, после закрытия - нет
	assert.True(t, resp.Slots[37].Available)
	assert.False(t, resp.Slots[38].Available)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(
		&fakeSchedule{hours: &domain.EffectiveHours{IsOpen: false}},
		&fakeCapacity{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
