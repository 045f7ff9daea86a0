package create_reservation

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден в UserService
	ErrCustomerNotFound = errors.New("create_reservation: customer not found")

	// ErrSubscriptionInactive возвращается, когда у провайдера нет активной подписки
	ErrSubscriptionInactive = errors.New("create_reservation: provider subscription is not active")

	// ErrMenuNotFound возвращается, когда позиция меню не найдена у провайдера
	ErrMenuNotFound = errors.New("create_reservation: menu not found")

	// ErrMenuInactive возвращается, когда позиция меню снята с продажи
	ErrMenuInactive = errors.New("create_reservation: menu is not active")

	// ErrDurationMismatch возвращается, когда окно бронирования не равно сумме длительностей меню
	ErrDurationMismatch = errors.New("create_reservation: end time does not match sum of menu durations")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_reservation: reservation must be in the future")

	// ErrProviderClosed возвращается, когда провайдер закрыт в указанную дату
	ErrProviderClosed = errors.New("create_reservation: provider is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда окно бронирования выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("create_reservation: reservation is outside working hours")

	// ErrSlotUnavailable возвращается, когда вместимость хотя бы одного слота исчерпана
	ErrSlotUnavailable = errors.New("create_reservation: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
