package registryservice

import (
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

// Client клиент для работы с RegistryService
// RegistryService владеет справочниками госпиталей, врачей и пациентов;
// движок бронирования читает их через этот узкий интерфейс
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента RegistryService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetHospital получает госпиталь по ID
func (c *Client) GetHospital(ctx context.Context, hospitalID string) (*Hospital, error) {
	var hospital Hospital
	url := fmt.Sprintf("%s/internal/hospitals/%s", c.baseURL, hospitalID)
	if err := c.getJSON(ctx, url, &hospital, ErrHospitalNotFound); err != nil {
		return nil, err
	}
	return &hospital, nil
}

// ListActiveHospitals получает список всех активных госпиталей
// Используется фоновой рассылкой напоминаний
func (c *Client) ListActiveHospitals(ctx context.Context) ([]Hospital, error) {
	var hospitals []Hospital
	url := fmt.Sprintf("%s/internal/hospitals?active=true", c.baseURL)
	if err := c.getJSON(ctx, url, &hospitals, nil); err != nil {
		return nil, err
	}
	return hospitals, nil
}

// GetDoctor получает врача по ID
func (c *Client) GetDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	var doctor Doctor
	url := fmt.Sprintf("%s/internal/doctors/%s", c.baseURL, doctorID)
	if err := c.getJSON(ctx, url, &doctor, ErrDoctorNotFound); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// GetPatient получает пациента по ID
func (c *Client) GetPatient(ctx context.Context, patientID string) (*Patient, error) {
	var patient Patient
	url := fmt.Sprintf("%s/internal/patients/%s", c.baseURL, patientID)
	if err := c.getJSON(ctx, url, &patient, ErrPatientNotFound); err != nil {
		return nil, err
	}
	return &patient, nil
}

// GetPatientByUser получает профиль пациента по ID пользователя
// Используется при бронировании: аутентифицированный пользователь бронирует
// от имени своего профиля пациента
func (c *Client) GetPatientByUser(ctx context.Context, userID string) (*Patient, error) {
	var patient Patient
	url := fmt.Sprintf("%s/internal/users/%s/patient", c.baseURL, userID)
	if err := c.getJSON(ctx, url, &patient, ErrPatientNotFound); err != nil {
		return nil, err
	}
	return &patient, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ в dst
// notFoundErr возвращается на 404 (nil - 404 считается некорректным ответом)
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("RegistryService unavailable: url=%s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		if notFoundErr != nil {
			return notFoundErr
		}
		return fmt.Errorf("%w: unexpected status code 404", ErrInvalidResponse)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("RegistryService returned unexpected status: url=%s, status=%d", url, resp.StatusCode)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
