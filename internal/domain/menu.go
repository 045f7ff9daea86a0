package domain

import "time"

// Menu is a service offering with a fixed duration and price.
// Read-only from the scheduling core's perspective.
type Menu struct {
	ID              int64
	ProviderID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
