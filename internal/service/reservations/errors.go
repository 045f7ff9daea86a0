package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservations.service: reservation not found")

	// ErrAlreadyCanceled возвращается при повторной отмене бронирования.
	// Вместимость при этом не возвращается - она уже была возвращена первой отменой
	ErrAlreadyCanceled = errors.New("reservations.service: reservation already canceled")

	// ErrCannotCancel возвращается при отмене бронирования в терминальном статусе
	ErrCannotCancel = errors.New("reservations.service: reservation cannot be canceled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("reservations.service: invalid status transition")

	// ErrAccessDenied возвращается, когда пользователь не имеет доступа к бронированию
	ErrAccessDenied = errors.New("reservations.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservations.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations.service: internal error")
)
