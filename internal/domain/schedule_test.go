package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestEffectiveHours_Contains(t *testing.T) {
	open := EffectiveHours{
		IsOpen:    true,
		OpenTime:  mustTime(t, "10:00"),
		CloseTime: mustTime(t, "19:00"),
	}

	assert.True(t, open.Contains(mustTime(t, "10:00"), mustTime(t, "11:00")))
	assert.True(t, open.Contains(mustTime(t, "18:00"), mustTime(t, "19:00")), "end exactly at closing is allowed")
	assert.False(t, open.Contains(mustTime(t, "09:30"), mustTime(t, "10:30")), "starts before opening")
	assert.False(t, open.Contains(mustTime(t, "18:30"), mustTime(t, "19:30")), "ends after closing")

	closed := Closed()
	assert.False(t, closed.Contains(mustTime(t, "10:00"), mustTime(t, "11:00")))
}

func TestEffectiveHours_ContainsSlot(t *testing.T) {
	open := EffectiveHours{
		IsOpen:    true,
		OpenTime:  mustTime(t, "10:00"),
		CloseTime: mustTime(t, "19:00"),
	}

	assert.False(t, open.ContainsSlot(19), "09:30 slot is before opening")
	assert.True(t, open.ContainsSlot(20), "10:00 slot is the first open slot")
	assert.True(t, open.ContainsSlot(37), "18:30 slot ends exactly at closing")
	assert.False(t, open.ContainsSlot(38), "19:00 slot is past closing")

	assert.False(t, Closed().ContainsSlot(20))
}
