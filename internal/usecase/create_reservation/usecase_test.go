package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/billingservice"
	"github.com/m04kA/SMC-SalonService/internal/integrations/userservice"
	capacityService "github.com/m04kA/SMC-SalonService/internal/service/capacity"
)

type fakeReservationRepo struct {
	mu      sync.Mutex
	created []*domain.Reservation
	nextID  int64
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	copied := *res
	f.created = append(f.created, &copied)
	return res, nil
}

type fakeMenuRepo struct {
	menus []*domain.Menu
}

func (f *fakeMenuRepo) GetByIDs(_ context.Context, providerID int64, ids []int64) ([]*domain.Menu, error) {
	requested := make(map[int64]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	result := make([]*domain.Menu, 0)
	for _, m := range f.menus {
		if m.ProviderID == providerID && requested[m.ID] {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeSchedule struct {
	hours *domain.EffectiveHours
}

func (f *fakeSchedule) EffectiveHours(_ context.Context, _ int64, _ time.Time) (*domain.EffectiveHours, error) {
	return f.hours, nil
}

type fakeCapacity struct {
	mu       sync.Mutex
	consumed [][]int
	failSlot *int
}

func (f *fakeCapacity) ConsumeSlots(_ context.Context, _ int64, _ time.Time, slots []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSlot != nil {
		for _, s := range slots {
			if s == *f.failSlot {
				return fmt.Errorf("%w: slot=%d", capacityService.ErrSlotUnavailable, s)
			}
		}
	}
	f.consumed = append(f.consumed, slots)
	return nil
}

type fakeUserClient struct {
	users map[int64]*userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

type fakeBillingClient struct {
	sub *billingservice.Subscription
	err error
}

func (f *fakeBillingClient) GetSubscriptionWithGracefulDegradation(_ context.Context, providerID int64) (*billingservice.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []int64
}

func (f *fakeNotifier) SendConfirmation(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, res.ID)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc       *UseCase
	repo     *fakeReservationRepo
	capacity *fakeCapacity
	billing  *fakeBillingClient
	schedule *fakeSchedule
	notifier *fakeNotifier
}

func newFixture() *fixture {
	repo := &fakeReservationRepo{}
	capacity := &fakeCapacity{}
	notifier := &fakeNotifier{}
	schedule := &fakeSchedule{
		hours: &domain.EffectiveHours{
			IsOpen:    true,
			OpenTime:  "10:00",
			CloseTime: "19:00",
		},
	}
	billing := &fakeBillingClient{
		sub: &billingservice.Subscription{ProviderID: 200, Plan: "standard", Active: true},
	}
	menuRepo := &fakeMenuRepo{
		menus: []*domain.Menu{
			{ID: 1, ProviderID: 200, Name: "Стрижка", DurationMinutes: 60, Price: 3000, IsActive: true},
			{ID: 2, ProviderID: 200, Name: "Окрашивание", DurationMinutes: 90, Price: 8000, IsActive: true},
			{ID: 3, ProviderID: 200, Name: "Архивная услуга", DurationMinutes: 30, Price: 1000, IsActive: false},
		},
	}

	uc := NewUseCase(
		repo,
		menuRepo,
		schedule,
		capacity,
		&fakeUserClient{users: map[int64]*userservice.User{100: {ID: 100, Name: "Анна"}}},
		billing,
		notifier,
		&fakeTxManager{},
		time.UTC,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}

	return &fixture{
		uc:       uc,
		repo:     repo,
		capacity: capacity,
		billing:  billing,
		schedule: schedule,
		notifier: notifier,
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID: 100,
		ProviderID: 200,
		StartAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		MenuIDs:    []int64{1},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusBeforeVisit), resp.Status)
	assert.Equal(t, 3000.0, resp.TotalPrice)
	require.Len(t, resp.Menus, 1)
	assert.Equal(t, "Стрижка", resp.Menus[0].MenuName)

	// Списаны оба получасовых слота часа
	require.Len(t, f.capacity.consumed, 1)
	assert.Equal(t, []int{20, 21}, f.capacity.consumed[0])
}

func TestExecute_MultipleMenus(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.MenuIDs = []int64{1, 2}
	req.EndAt = req.StartAt.Add(150 * time.Minute) // 60 + 90 минут

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 11000.0, resp.TotalPrice)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, f.capacity.consumed[0])
}

func TestExecute_SlotUnavailable(t *testing.T) {
	f := newFixture()
	failSlot := 21
	f.capacity.failSlot = &failSlot

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, f.repo.created, "reservation must not be created when capacity is exhausted")
}

func TestExecute_DurationMismatch(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.EndAt = req.StartAt.Add(90 * time.Minute) // меню на 60 минут

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDurationMismatch)
}

func TestExecute_ProviderClosed(t *testing.T) {
	f := newFixture()
	f.schedule.hours = &domain.EffectiveHours{IsOpen: false}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartAt = time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	req.EndAt = time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_EndExactlyAtClosingAllowed(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartAt = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	req.EndAt = time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_StartInPast(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartAt = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	req.EndAt = time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.CustomerID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_InactiveMenu(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.MenuIDs = []int64{3}
	req.EndAt = req.StartAt.Add(30 * time.Minute)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMenuInactive)
}

func TestExecute_UnknownMenu(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.MenuIDs = []int64{42}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestExecute_SubscriptionInactive(t *testing.T) {
	f := newFixture()
	f.billing.sub = &billingservice.Subscription{ProviderID: 200, Active: false}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSubscriptionInactive)
}

func TestExecute_SubscriptionNotFound(t *testing.T) {
	f := newFixture()
	f.billing.err = billingservice.ErrSubscriptionNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSubscriptionInactive)
}

func TestExecute_BillingDegradedDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.billing.err = fmt.Errorf("%w: provider_id=200", billingservice.ErrServiceDegraded)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err, "billing outage must not block reservations")
}

func TestExecute_ClientOffsetNormalizedToSalonTimezone(t *testing.T) {
	f := newFixture()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	f.uc.location = loc

	// Клиент прислал метки в UTC; 01:00 UTC - это 10:00 токийского утра
	req := validRequest()
	req.StartAt = time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)
	req.EndAt = time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC)

	_, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Списаны слоты токийского утра, а не слоты 2,3 по UTC
	require.Len(t, f.capacity.consumed, 1)
	assert.Equal(t, []int{20, 21}, f.capacity.consumed[0])
}

// ledgerCapacity фейк леджера с атомарным условным списанием:
// исчерпанный слот отклоняет списание целиком, как DecrementIfPositive в БД
type ledgerCapacity struct {
	mu        sync.Mutex
	remaining map[int]int
}

func (f *ledgerCapacity) ConsumeSlots(_ context.Context, _ int64, _ time.Time, slots []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range slots {
		if f.remaining[s] <= 0 {
			return fmt.Errorf("%w: slot=%d", capacityService.ErrSlotUnavailable, s)
		}
	}
	for _, s := range slots {
		f.remaining[s]--
	}
	return nil
}

func TestExecute_ConcurrentCreatesLastUnit(t *testing.T) {
	f := newFixture()
	ledger := &ledgerCapacity{remaining: map[int]int{20: 1, 21: 1}}
	f.uc.capacity = ledger

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, unavailable int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Последнюю единицу вместимости получает ровно одно из двух бронирований
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, unavailable)
	assert.Equal(t, 0, ledger.remaining[20])
	assert.Equal(t, 0, ledger.remaining[21])
	assert.Len(t, f.repo.created, 1)
}

func TestExecute_CrossMidnightRejected(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartAt = time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)
	req.EndAt = time.Date(2026, 9, 2, 0, 30, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InputValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"no menus", func(r *Request) { r.MenuIDs = nil }},
		{"duplicate menus", func(r *Request) { r.MenuIDs = []int64{1, 1} }},
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"zero provider", func(r *Request) { r.ProviderID = 0 }},
		{"end before start", func(r *Request) { r.EndAt = r.StartAt.Add(-time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := f.uc.Execute(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
