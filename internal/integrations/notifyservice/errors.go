package notifyservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrSendFailed возвращается, когда сервис уведомлений отклонил отправку
	// Вызывающие стороны логируют эту ошибку, но никогда не откатывают бронирование
	ErrSendFailed = errors.New("notifyservice client: failed to send notification")
)
