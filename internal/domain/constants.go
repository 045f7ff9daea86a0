package domain

// Default configuration values
const (
	DefaultCapacityCeiling = 2 // Практический потолок вместимости слота, настраивается в конфиге
	DefaultSlotCapacity    = 0 // Remaining при отсутствии и override, и дефолта провайдера
)

// Business validation constants
const (
	MinMenuDurationMinutes      = 5
	MaxMenuDurationMinutes      = 480 // 8 часов
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих вместимость слотов
// Используется для фильтрации при выборке бронирований
var InactiveStatuses = []ReservationStatus{
	StatusCanceled,
	StatusNoShow,
}
