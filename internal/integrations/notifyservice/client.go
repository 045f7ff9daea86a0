package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Client клиент для работы с NotifyService (почта, push)
// Отправка уведомлений fire-and-forget: ошибки логируются вызывающей стороной
// и никогда не становятся ошибками бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendConfirmation отправляет подтверждение бронирования
func (c *Client) SendConfirmation(ctx context.Context, res *domain.Reservation) error {
	return c.send(ctx, KindConfirmation, res)
}

// SendCancellation отправляет уведомление об отмене бронирования
func (c *Client) SendCancellation(ctx context.Context, res *domain.Reservation) error {
	return c.send(ctx, KindCancellation, res)
}

// SendReminder отправляет напоминание о предстоящем визите
func (c *Client) SendReminder(ctx context.Context, res *domain.Reservation) error {
	return c.send(ctx, KindReminder, res)
}

func (c *Client) send(ctx context.Context, kind NotificationKind, res *domain.Reservation) error {
	notification := Notification{
		Kind:          kind,
		CustomerID:    res.CustomerID,
		ProviderID:    res.ProviderID,
		ReservationID: res.ID,
		StartAt:       res.StartAt,
		EndAt:         res.EndAt,
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: kind=%s, status code %d: %s", ErrSendFailed, kind, resp.StatusCode, string(respBody))
	}

	return nil
}
