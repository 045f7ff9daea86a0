package domain

import "time"

// Сутки делятся на 48 получасовых слотов: слот i покрывает [i*30, (i+1)*30) минут от полуночи
const (
	SlotsPerDay = 48
	SlotMinutes = 30
)

// SlotIndex returns the index (0..47) of the slot containing t:
// hour*2 for the first half of the hour, hour*2+1 for the second.
func SlotIndex(t time.Time) int {
	idx := t.Hour() * 2
	if t.Minute() >= 30 {
		idx++
	}
	return idx
}

// CoveredSlots returns the ordered slot indices occupied by the half-open
// interval [startAt, endAt). A slot is occupied if any part of it falls within
// the interval: the end slot is excluded when endAt lies exactly on a slot
// boundary and included when the reservation ends mid-slot.
func CoveredSlots(startAt, endAt time.Time) []int {
	if !endAt.After(startAt) {
		return nil
	}

	first := SlotIndex(startAt)

	// Конец на следующем календарном дне (ровно полночь) покрывает хвост суток
	last := SlotsPerDay
	if sameCalendarDay(startAt, endAt) {
		last = SlotIndex(endAt)
		if !onSlotBoundary(endAt) {
			last++
		}
	}

	slots := make([]int, 0, last-first)
	for i := first; i < last; i++ {
		slots = append(slots, i)
	}
	return slots
}

// SlotStartMinutes возвращает смещение начала слота в минутах от полуночи
func SlotStartMinutes(slot int) int {
	return slot * SlotMinutes
}

// onSlotBoundary проверяет, что время попадает ровно на границу слота
func onSlotBoundary(t time.Time) bool {
	return (t.Minute() == 0 || t.Minute() == 30) && t.Second() == 0 && t.Nanosecond() == 0
}

// sameCalendarDay проверяет, что оба времени относятся к одному календарному дню
func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
