package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/pickupgames/internal/api/apierr"
)

// Client talks to the pickup API. The server keeps a single session, so
// requests carry no credentials.
type Client struct {
	baseURL string
	// http bounds unary calls; stream has no timeout and relies on ctx
	http   *http.Client
	stream *http.Client
	// trace receives one line per request when non-nil
	trace io.Writer
}

// NewClient creates a client for cfg.ServerURL. Requests are traced to trace
// if it is non-nil.
func NewClient(cfg *Config, trace io.Writer) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.ServerURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		stream:  &http.Client{},
		trace:   trace,
	}
}

// APIError is an error response from the server. It matches, under
// errors.Is, every model error the server reports with the same code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is reports whether target is a model error sharing this error's code
func (e *APIError) Is(target error) bool {
	if e.Code == apierr.CodeInternalError {
		return false
	}
	return apierr.Code(target) == e.Code
}

// decodeError turns a failed response body into an *APIError when it has the
// server's error shape
func decodeError(status int, body []byte) error {
	var resp struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error.Code == "" {
		return fmt.Errorf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	resp.Error.Status = status
	return &resp.Error
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) traceRequest(method, path string, status int, start time.Time) {
	if c.trace == nil {
		return
	}
	_, _ = fmt.Fprintf(c.trace, "%s %s -> %d (%s)\n", method, path, status, time.Since(start).Round(time.Millisecond))
}

// Do sends a JSON request and decodes a successful response into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.traceRequest(method, path, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Patch performs a PATCH request
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Stream opens a server-sent events stream. The caller closes the body;
// cancelling ctx ends the stream.
func (c *Client) Stream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	c.traceRequest(http.MethodGet, path, resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return nil, decodeError(resp.StatusCode, body)
	}
	return resp.Body, nil
}
