package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifyService
// С точки зрения движка отправка fire-and-forget: неудача логируется
// вызывающим кодом и никогда не откатывает основную операцию
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
// timeout ограничивает каждую отправку; истёкший таймаут трактуется
// как неуспешная отправка
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendConfirmation отправляет уведомление о создании записи
func (c *Client) SendConfirmation(ctx context.Context, notice *AppointmentNotice) error {
	return c.post(ctx, "/internal/notifications/confirmation", notice)
}

// SendCancellation отправляет уведомление об отмене записи
func (c *Client) SendCancellation(ctx context.Context, notice *AppointmentNotice) error {
	return c.post(ctx, "/internal/notifications/cancellation", notice)
}

// SendReminder отправляет напоминание о завтрашней записи
func (c *Client) SendReminder(ctx context.Context, notice *AppointmentNotice) error {
	return c.post(ctx, "/internal/notifications/reminder", notice)
}

func (c *Client) post(ctx context.Context, path string, notice *AppointmentNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notice: %v", ErrInternal, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("NotifyService unavailable: path=%s, appointment_id=%s: %v", path, notice.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		c.log.Info("NotifyService dispatched: path=%s, appointment_id=%s", path, notice.AppointmentID)
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("NotifyService rejected notice: path=%s, appointment_id=%s, status=%d", path, notice.AppointmentID, resp.StatusCode)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrDispatchFailed, resp.StatusCode, string(body))
	}
}
