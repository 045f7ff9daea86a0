package set_capacity_default

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type CapacityService interface {
	SetDefault(ctx context.Context, providerID int64, value int) (*domain.CapacityDefault, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
