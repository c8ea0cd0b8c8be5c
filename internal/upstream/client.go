package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"booking-admin-backend/config"
)

// Client talks to the booking platform's REST backend. One http.Client with
// a configured timeout backs every call, so a hung backend request can never
// pin a loading flag forever.
type Client struct {
	base    string
	headers map[string]string
	http    *http.Client
}

// New creates a client for the configured upstream.
func New(cfg *config.UpstreamConfig) *Client {
	return &Client{
		base:    cfg.BaseURL,
		headers: cfg.Headers,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Error is a normalized transport/application failure. Message carries the
// backend's own message when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream request failed with status %d", e.Status)
}

// envelope is the {success, message, data} wrapper used by the device, room
// and room-device endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// pagedData is the paged object shape some endpoints put inside the
// envelope's data field.
type pagedData struct {
	Content json.RawMessage `json:"content"`
}

// do issues one request and decodes the raw response body into out (when out
// is non-nil). Non-2xx responses are normalized into *Error, preferring the
// backend's message field over a generic one.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", path, err)
	}
	return nil
}

// doEnveloped issues a request against a wrapped endpoint and returns the
// unwrapped data field. A 2xx response with success=false is still a
// failure.
func (c *Client) doEnveloped(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var env envelope
	if err := c.do(ctx, method, path, query, body, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &Error{Status: http.StatusOK, Message: env.Message}
	}
	return env.Data, nil
}

// unwrapList tolerates both shapes the backend uses for list data: a bare
// array, or a paged object whose content field holds the array.
func unwrapList(data json.RawMessage) json.RawMessage {
	var paged pagedData
	if err := json.Unmarshal(data, &paged); err == nil && paged.Content != nil {
		return paged.Content
	}
	return data
}

// extractMessage pulls a human-readable message out of an error response
// body, whatever its shape.
func extractMessage(data []byte) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return env.Message
	}
	var bare struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &bare); err == nil {
		if bare.Message != "" {
			return bare.Message
		}
		return bare.Error
	}
	return ""
}
