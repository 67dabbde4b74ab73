package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cognicard/internal/domain"
	"cognicard/internal/httputil"
)

// Client talks to the library service over HTTP. It implements workspace.RemoteStore
// and exposes the card, study and search endpoints for the CLI.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for baseURL authenticating with a bearer token
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// StatusError is a failure the domain errors do not cover (5xx, 429, ...)
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// do sends an authenticated request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError turns an RFC 7807 body back into the domain error the server started from
func decodeError(status int, body []byte) error {
	var problem httputil.ProblemDetail
	if err := json.Unmarshal(body, &problem); err != nil || problem.Status == 0 {
		problem = httputil.ProblemDetail{Status: status, Detail: strings.TrimSpace(string(body))}
	}
	message := problem.Detail
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusConflict:
		if problem.ExtraString("code") == domain.CodeDuplicateName {
			return &domain.ConflictError{
				Message:      message,
				ResourceType: problem.ExtraString("resource_type"),
				ResourceID:   problem.ExtraString("resource_id"),
			}
		}
		return fmt.Errorf("%s: %w", message, domain.ErrConflict)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return &domain.ValidationError{Message: message}
	case http.StatusNotFound:
		return &domain.NotFoundError{Message: message}
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, message)
	default:
		return &StatusError{Status: status, Message: message}
	}
}

// IsRetryable reports whether err is a transient server-side failure.
// Nothing retries automatically; the CLI uses it to word its message.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= 500
	}
	return false
}

func escape(id string) string {
	return url.PathEscape(id)
}
