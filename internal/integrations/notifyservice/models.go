package notifyservice

import "time"

// NotificationKind тип уведомления
type NotificationKind string

const (
	KindConfirmation NotificationKind = "reservation_confirmation"
	KindCancellation NotificationKind = "reservation_cancellation"
	KindReminder     NotificationKind = "visit_reminder"
)

// Notification модель запроса на отправку уведомления
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	CustomerID    int64            `json:"customer_id"`
	ProviderID    int64            `json:"provider_id"`
	ReservationID int64            `json:"reservation_id"`
	StartAt       time.Time        `json:"start_at"`
	EndAt         time.Time        `json:"end_at"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
