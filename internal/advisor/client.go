package advisor

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

// maxResponseBytes bounds how much of a service response is read.
const maxResponseBytes = 64 << 10

// HTTPClient calls a remote advisory service over HTTP.
type HTTPClient struct {
	url  string
	http *http.Client
}

// NewHTTPClient creates a client for the service at url.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Advise implements Service.
func (c *HTTPClient) Advise(ctx context.Context, req Request) (Message, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Message{}, fmt.Errorf("advisor: cannot encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("advisor: cannot build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Message{}, fmt.Errorf("advisor: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Message{}, fmt.Errorf("advisor: cannot read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure errorBody
		//nolint:errcheck // Detail is optional
		json.Unmarshal(data, &failure)
		return Message{}, &ServiceError{Status: resp.StatusCode, Detail: failure.Error}
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("advisor: cannot decode response: %w", err)
	}
	if msg.Text == "" {
		return Message{}, errors.New("advisor: response has no message")
	}
	return msg, nil
}
