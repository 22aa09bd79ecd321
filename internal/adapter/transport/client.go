package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// TooManyRequestsError represents a rate limiting signal from the transport.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Sender pushes a plain text message to an actor through the messaging
// transport, outside the request/reply cycle of the event webhook.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// HTTPClient implements Sender via the transport's HTTP send API.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// message mirrors the JSON payload of the transport send endpoint.
type message struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// NewHTTPClient creates an HTTP transport client with default timeout.
func NewHTTPClient(baseURL, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse transport url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("transport url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send delivers one message to the given chat.
func (c *HTTPClient) Send(ctx context.Context, chatID int64, text string) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/send")

	body, err := json.Marshal(message{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		payload, _ := io.ReadAll(resp.Body)
		c.logger.Error("transport send failed", slog.Int("status", resp.StatusCode), slog.String("body", string(payload)))
		return fmt.Errorf("transport error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
