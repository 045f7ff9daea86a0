package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.EndAt.IsZero() {
		return fmt.Errorf("%w: endAt is required", ErrInvalidInput)
	}

	if !req.EndAt.After(req.StartAt) {
		return fmt.Errorf("%w: endAt must be after startAt", ErrInvalidInput)
	}

	// Бронирование не пересекает полночь: оба конца в одном календарном дне
	if !isSameDay(req.StartAt, req.EndAt) && !endsAtMidnight(req.StartAt, req.EndAt) {
		return fmt.Errorf("%w: reservation must not cross midnight", ErrInvalidInput)
	}

	if len(req.MenuIDs) == 0 {
		return fmt.Errorf("%w: at least one menu is required", ErrInvalidInput)
	}

	seen := make(map[int64]bool, len(req.MenuIDs))
	for _, id := range req.MenuIDs {
		if id <= 0 {
			return fmt.Errorf("%w: menu id must be positive", ErrInvalidInput)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate menu id %d", ErrInvalidInput, id)
		}
		seen[id] = true
	}

	return nil
}

// validateMenus сверяет запрошенные позиции с каталогом и возвращает их в порядке запроса
func validateMenus(menuIDs []int64, menus []*domain.Menu) ([]*domain.Menu, error) {
	byID := make(map[int64]*domain.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	ordered := make([]*domain.Menu, 0, len(menuIDs))
	for _, id := range menuIDs {
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", ErrMenuNotFound, id)
		}
		if !m.IsActive {
			return nil, fmt.Errorf("%w: id=%d", ErrMenuInactive, id)
		}
		ordered = append(ordered, m)
	}

	return ordered, nil
}

// validateDuration проверяет, что окно бронирования равно сумме длительностей меню
func validateDuration(startAt, endAt time.Time, menus []*domain.Menu) error {
	total := 0
	for _, m := range menus {
		total += m.DurationMinutes
	}

	expected := startAt.Add(time.Duration(total) * time.Minute)
	if !endAt.Equal(expected) {
		return fmt.Errorf("%w: expected end %s for %d minutes of menus, got %s",
			ErrDurationMismatch, expected.Format(time.RFC3339), total, endAt.Format(time.RFC3339))
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// endsAtMidnight допускает конец ровно в полночь следующего дня
func endsAtMidnight(startAt, endAt time.Time) bool {
	nextMidnight := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location()).AddDate(0, 0, 1)
	return endAt.Equal(nextMidnight)
}
