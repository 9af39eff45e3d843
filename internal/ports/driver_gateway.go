package ports

import (
	"context"
	"encoding/json"
)

// Port: reverse geocoding via the routing backend.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Port: driver mode and planned trip settings on the dispatch backend.
// The console proxies these verbatim, so payloads stay raw JSON.
type DriverModeGateway interface {
	DriverMode(ctx context.Context) (json.RawMessage, error)
	SetDriverMode(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	DriverModeConfig(ctx context.Context) (json.RawMessage, error)
	SetDriverModeConfig(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	PlannedTrip(ctx context.Context) (json.RawMessage, error)
	SavePlannedTrip(ctx context.Context, method string, payload json.RawMessage) (json.RawMessage, error)
	CompletePlannedTrip(ctx context.Context) (json.RawMessage, error)
}
