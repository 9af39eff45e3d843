package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Driver mode, mode config and planned trips are small pass-through
// surfaces: the console reads and writes them but attaches no semantics
// of its own, so payloads stay as raw JSON.

func (c *BackendClient) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", path, err)
	}
	return raw, nil
}

func (c *BackendClient) sendRaw(ctx context.Context, method, path string, payload json.RawMessage) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", path, err)
	}
	return raw, nil
}

func (c *BackendClient) DriverMode(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/driver_mode")
}

func (c *BackendClient) SetDriverMode(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.sendRaw(ctx, http.MethodPut, "/driver_mode", payload)
}

func (c *BackendClient) DriverModeConfig(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/driver_mode_config")
}

func (c *BackendClient) SetDriverModeConfig(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return c.sendRaw(ctx, http.MethodPut, "/driver_mode_config", payload)
}

func (c *BackendClient) PlannedTrip(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/planned_trip")
}

func (c *BackendClient) SavePlannedTrip(ctx context.Context, method string, payload json.RawMessage) (json.RawMessage, error) {
	if method != http.MethodPut && method != http.MethodPost {
		return nil, fmt.Errorf("planned trip: unsupported method %q", method)
	}
	return c.sendRaw(ctx, method, "/planned_trip", payload)
}

func (c *BackendClient) CompletePlannedTrip(ctx context.Context) (json.RawMessage, error) {
	return c.sendRaw(ctx, http.MethodPost, "/planned_trip/complete", nil)
}
