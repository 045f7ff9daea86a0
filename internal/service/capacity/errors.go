package capacity

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда вместимость слота исчерпана
	ErrSlotUnavailable = errors.New("capacity.service: slot capacity exhausted")

	// ErrCapacityUnderflow возвращается при отрицательном значении в леджере.
	// Условный декремент не может уйти ниже нуля, поэтому отрицательное значение
	// означает повреждение данных и требует ручного вмешательства
	ErrCapacityUnderflow = errors.New("capacity.service: negative capacity value in ledger")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capacity.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity.service: internal error")
)
