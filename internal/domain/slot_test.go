package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestSlotIndex(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want int
	}{
		{"midnight", at(0, 0), 0},
		{"first half hour", at(0, 29), 0},
		{"second half hour", at(0, 30), 1},
		{"morning on the hour", at(10, 0), 20},
		{"morning half past", at(10, 30), 21},
		{"mid-slot", at(10, 45), 21},
		{"last slot", at(23, 30), 47},
		{"end of day", at(23, 59), 47},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotIndex(tt.time))
		})
	}
}

func TestCoveredSlots(t *testing.T) {
	tests := []struct {
		name    string
		startAt time.Time
		endAt   time.Time
		want    []int
	}{
		{
			name:    "one hour on slot boundaries",
			startAt: at(10, 0),
			endAt:   at(11, 0),
			want:    []int{20, 21},
		},
		{
			name:    "end mid-slot includes the partial slot",
			startAt: at(10, 0),
			endAt:   at(11, 15),
			want:    []int{20, 21, 22},
		},
		{
			name:    "start mid-slot includes the containing slot",
			startAt: at(10, 45),
			endAt:   at(11, 30),
			want:    []int{21, 22},
		},
		{
			name:    "single half-hour slot",
			startAt: at(9, 0),
			endAt:   at(9, 30),
			want:    []int{18},
		},
		{
			name:    "short visit inside one slot",
			startAt: at(9, 0),
			endAt:   at(9, 10),
			want:    []int{18},
		},
		{
			name:    "until end of day",
			startAt: at(23, 0),
			endAt:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			want:    []int{46, 47},
		},
		{
			name:    "end past midnight is clamped to end of day",
			startAt: at(23, 30),
			endAt:   time.Date(2026, 9, 2, 0, 30, 0, 0, time.UTC),
			want:    []int{47},
		},
		{
			name:    "zero length interval",
			startAt: at(10, 0),
			endAt:   at(10, 0),
			want:    nil,
		},
		{
			name:    "inverted interval",
			startAt: at(11, 0),
			endAt:   at(10, 0),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoveredSlots(tt.startAt, tt.endAt))
		})
	}
}

func TestSlotStartMinutes(t *testing.T) {
	assert.Equal(t, 0, SlotStartMinutes(0))
	assert.Equal(t, 600, SlotStartMinutes(20))
	assert.Equal(t, 1410, SlotStartMinutes(47))
}
