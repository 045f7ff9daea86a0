package get_availability

import "time"

// Request модель запроса доступности слотов на дату
type Request struct {
	ProviderID int64     // ID провайдера
	Date       time.Time // Дата (время игнорируется)
}

// Slot доступность одного получасового слота
type Slot struct {
	Index     int    // Индекс слота 0..47
	StartTime string // Начало слота "HH:MM"
	Available bool   // Слот в рабочих часах и вместимость не исчерпана
	Remaining int    // Остаток вместимости
}

// Response модель ответа с доступностью всех слотов дня
type Response struct {
	ProviderID int64
	Date       time.Time
	IsOpen     bool   // Открыт ли провайдер в эту дату
	Slots      []Slot // Всегда 48 слотов
}
