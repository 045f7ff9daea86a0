package billingservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с BillingService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента BillingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSubscription получает статус подписки провайдера
func (c *Client) GetSubscription(ctx context.Context, providerID int64) (*Subscription, error) {
	url := fmt.Sprintf("%s/internal/providers/%d/subscription", c.baseURL, providerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrSubscriptionNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var sub Subscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &sub, nil
}

// GetSubscriptionWithGracefulDegradation получает статус подписки с graceful degradation
// При недоступности BillingService возвращает ErrServiceDegraded: бронирование
// при этом не блокируется, чтобы сбой биллинга не останавливал запись клиентов
func (c *Client) GetSubscriptionWithGracefulDegradation(ctx context.Context, providerID int64) (*Subscription, error) {
	sub, err := c.GetSubscription(ctx, providerID)
	if err != nil {
		// Отсутствие подписки - бизнес-ошибка, пробрасываем дальше
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.log.Info("No subscription found for provider_id=%d", providerID)
			return nil, err
		}

		// Для остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("BillingService unavailable, applying graceful degradation for provider_id=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: provider_id=%d, error=%v", ErrServiceDegraded, providerID, err)
	}

	return sub, nil
}
