package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

// Client клиент HTTP-шлюза WhatsApp
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(baseURL, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет сообщение
func (c *Client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	msg.From = NormalizePhone(msg.From)
	msg.To = NormalizePhone(msg.To)
	if msg.To == "" {
		return nil, fmt.Errorf("%w: empty recipient phone", ErrRecipientRejected)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode message: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%w: %s", ErrRecipientRejected, e.Message)
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return &result, nil
}

// SendWithGracefulDegradation отправляет сообщение. Недоступность шлюза
// возвращается как ErrServiceDegraded, отказ по номеру пробрасывается как есть
func (c *Client) SendWithGracefulDegradation(ctx context.Context, msg Message) (*SendResult, error) {
	c.log.Info("Sending whatsapp message to=%s", NormalizePhone(msg.To))

	result, err := c.Send(ctx, msg)
	if err != nil {
		if errors.Is(err, ErrRecipientRejected) {
			c.log.Warn("Whatsapp gateway rejected message to=%s: %v", NormalizePhone(msg.To), err)
			return nil, err
		}

		c.log.Error("Whatsapp gateway unavailable, message dropped to=%s: %v", NormalizePhone(msg.To), err)
		return nil, fmt.Errorf("%w: to=%s, error=%v", ErrServiceDegraded, NormalizePhone(msg.To), err)
	}

	c.log.Info("Whatsapp message accepted: id=%s, status=%s", result.ID, result.Status)
	return result, nil
}
