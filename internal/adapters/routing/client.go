package routing

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
)

// BackendClient implements the route preview and order matching ports
// against the dispatch backend's HTTP API.
//
// The backend is an opaque collaborator: it owns geocoding, route
// optimization and order scoring. Failures are surfaced as short
// diagnostics, never retried (a failed call reports and stops).
type BackendClient struct {
	session *http.Client
	baseURL string
}

// Body size cap for error payloads; keeps diagnostics short.
const maxErrorBodyBytes = 4 << 10

// Diagnostic truncation limit matching the console status line.
const maxDetailChars = 80

func NewBackendClient(baseURL string) (*BackendClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base URL is empty")
	}

	return &BackendClient{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}, nil
}

type httpStatusError struct {
	Code   int
	Detail string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Code, e.Detail)
}

func (c *BackendClient) newRequest(
	ctx context.Context,
	method string,
	path string,
	payload any,
) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do executes one request. Non-2xx responses become httpStatusError with
// the backend's detail message, truncated to console length.
func (c *BackendClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code:   resp.StatusCode,
			Detail: truncateDetail(extractDetail(b, resp.Status)),
		}
	}
	return resp, nil
}

// postJSON issues a POST and decodes the JSON response into out.
func (c *BackendClient) postJSON(ctx context.Context, path string, payload, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// The backend reports errors as {"detail": "..."}; fall back to the raw
// body or HTTP status line when that shape is absent.
func extractDetail(body []byte, status string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return status
}

func truncateDetail(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDetailChars {
		return s
	}
	return string(runes[:maxDetailChars]) + "…"
}
