// Package client talks to a running relay over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"maar-backend/internal/models"
)

// ErrUnreachable is returned when the relay could not be contacted at all.
var ErrUnreachable = errors.New("server not reachable")

// ServerError carries the error string a relay returned.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the relay at baseURL (e.g. "http://localhost:3000").
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Ask posts a single message and returns the relayed reply.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", models.ChatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// Health reports the relay's health status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &ServerError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
