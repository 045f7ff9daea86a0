package adjust_capacity

import (
	"context"
	"time"
)

type CapacityService interface {
	Adjust(ctx context.Context, providerID int64, date time.Time, slot int, delta int) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
