package meeting

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

// Client клиент внешнего сервиса видеовстреч
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса встреч
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateMeeting создает встречу и возвращает ссылку для участников
func (c *Client) CreateMeeting(ctx context.Context, req Request) (string, error) {
	if req.CaseNumber == "" {
		return "", fmt.Errorf("%w: case number is required", ErrInvalidRequest)
	}

	body, err := json.Marshal(createMeetingRequest{
		Title:           "Консультация " + req.CaseNumber,
		ExternalID:      req.CaseNumber,
		HostID:          req.ExpertID,
		StartsAt:        req.StartsAt,
		DurationMinutes: int(req.Duration / time.Minute),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/api/v1/meetings", c.baseURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("Meeting service unavailable for case=%s: %v", req.CaseNumber, err)
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return "", fmt.Errorf("%w: meeting service rejected request", ErrInvalidRequest)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var created createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if created.Link == "" {
		return "", fmt.Errorf("%w: empty meeting link", ErrInvalidResponse)
	}

	c.log.Info("Meeting created for case=%s, meeting_id=%s", req.CaseNumber, created.ID)
	return created.Link, nil
}
