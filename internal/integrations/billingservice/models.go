package billingservice

// Subscription модель статуса подписки провайдера из BillingService
type Subscription struct {
	ProviderID int64  `json:"provider_id"`
	Plan       string `json:"plan"`
	Active     bool   `json:"active"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// ErrorResponse модель ошибки от BillingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
