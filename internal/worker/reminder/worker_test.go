package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/userservice"
)

type fakeReservationRepo struct {
	mu            sync.Mutex
	reservations  []*domain.Reservation
	startFrom     time.Time
	startTo       time.Time
	createdBefore time.Time
}

func (f *fakeReservationRepo) ListForReminder(_ context.Context, startFrom, startTo, createdBefore time.Time) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startFrom = startFrom
	f.startTo = startTo
	f.createdBefore = createdBefore
	return f.reservations, nil
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

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []int64
	failIDs map[int64]bool
}

func (f *fakeNotifier) SendReminder(_ context.Context, res *domain.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[res.ID] {
		return errors.New("notify service unavailable")
	}
	f.sent = append(f.sent, res.ID)
	return nil
}

func (f *fakeNotifier) sentIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.sent...)
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

func reservation(id, customerID int64, startAt time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		CustomerID: customerID,
		ProviderID: 200,
		StartAt:    startAt,
		EndAt:      startAt.Add(time.Hour),
		Status:     domain.StatusBeforeVisit,
	}
}

func newTestWorker(repo *fakeReservationRepo, users *fakeUserClient, notifier *fakeNotifier, now time.Time, loc *time.Location) *Worker {
	w := NewWorker(repo, users, notifier, loc, time.Hour, 4, nopLogger{})
	w.timeProvider = &fixedTimeProvider{now: now}
	return w
}

func TestProcessBatch_WindowIsNextCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	repo := &fakeReservationRepo{}
	users := &fakeUserClient{users: map[int64]*userservice.User{}}
	notifier := &fakeNotifier{}

	// 30 августа 15:30 по Токио
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, loc)
	w := newTestWorker(repo, users, notifier, now, loc)

	w.processBatch(context.Background())

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, loc), repo.startFrom, "window opens at tomorrow midnight")
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc), repo.startTo, "window closes at day-after midnight")
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, loc), repo.createdBefore,
		"reservations created today are excluded")
}

func TestProcessBatch_SendsReminders(t *testing.T) {
	tomorrow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{
		reservations: []*domain.Reservation{
			reservation(1, 100, tomorrow),
			reservation(2, 101, tomorrow.Add(2*time.Hour)),
		},
	}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		100: {ID: 100, Name: "Анна"},
		101: {ID: 101, Name: "Борис"},
	}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, users, notifier, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.UTC)
	w.processBatch(context.Background())

	assert.ElementsMatch(t, []int64{1, 2}, notifier.sentIDs())
}

func TestProcessBatch_SkipsDemoAccounts(t *testing.T) {
	tomorrow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{
		reservations: []*domain.Reservation{
			reservation(1, 100, tomorrow),
			reservation(2, 101, tomorrow),
		},
	}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		100: {ID: 100, Name: "Анна"},
		101: {ID: 101, Name: "Демо", IsDemo: true},
	}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, users, notifier, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.UTC)
	w.processBatch(context.Background())

	assert.Equal(t, []int64{1}, notifier.sentIDs())
}

func TestProcessBatch_FailureDoesNotStopBatch(t *testing.T) {
	tomorrow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{
		reservations: []*domain.Reservation{
			reservation(1, 100, tomorrow),
			reservation(2, 100, tomorrow.Add(time.Hour)),
			reservation(3, 100, tomorrow.Add(2*time.Hour)),
		},
	}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		100: {ID: 100, Name: "Анна"},
	}}
	notifier := &fakeNotifier{failIDs: map[int64]bool{2: true}}

	w := newTestWorker(repo, users, notifier, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.UTC)
	w.processBatch(context.Background())

	assert.ElementsMatch(t, []int64{1, 3}, notifier.sentIDs())
}

func TestProcessBatch_UnknownCustomerSkipped(t *testing.T) {
	tomorrow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{
		reservations: []*domain.Reservation{reservation(1, 999, tomorrow)},
	}
	users := &fakeUserClient{users: map[int64]*userservice.User{}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, users, notifier, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.UTC)
	w.processBatch(context.Background())

	assert.Empty(t, notifier.sentIDs())
}

func TestStartStop(t *testing.T) {
	repo := &fakeReservationRepo{}
	users := &fakeUserClient{users: map[int64]*userservice.User{}}
	notifier := &fakeNotifier{}

	w := newTestWorker(repo, users, notifier, time.Now(), time.UTC)
	w.Start(context.Background())
	w.Stop()
}
