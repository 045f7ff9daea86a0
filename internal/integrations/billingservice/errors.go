package billingservice

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда у провайдера нет подписки
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("billingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("billingservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что BillingService недоступен и бронирование пропущено без проверки подписки
	ErrServiceDegraded = errors.New("billingservice unavailable: graceful degradation applied")
)
