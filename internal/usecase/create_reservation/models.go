package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64     // ID клиента
	ProviderID int64     // ID провайдера (салона)
	StartAt    time.Time // Начало визита
	EndAt      time.Time // Конец визита
	MenuIDs    []int64   // Выбранные позиции меню
}

// MenuItem позиция меню в составе созданного бронирования
type MenuItem struct {
	MenuID          int64
	MenuName        string
	DurationMinutes int
	Price           float64
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	CustomerID int64
	ProviderID int64
	StartAt    time.Time
	EndAt      time.Time
	Status     string

	// Денормализованные данные меню на момент бронирования
	Menus      []MenuItem
	TotalPrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
