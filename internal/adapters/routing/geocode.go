package routing

import (
	"context"
	"fmt"

	"driver-console-service/internal/platform/obs"
)

type reverseGeocodeRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type reverseGeocodeResponse struct {
	Address string `json:"address"`
}

// ReverseGeocode resolves a coordinate to a free-text address via the
// backend (which in turn fronts the map provider's geocoder).
func (c *BackendClient) ReverseGeocode(ctx context.Context, lat, lng float64) (_ string, err error) {
	defer obs.Time(ctx, "backend.ReverseGeocode")(&err)

	var decoded reverseGeocodeResponse
	if err := c.postJSON(ctx, "/reverse_geocode", reverseGeocodeRequest{Lat: lat, Lng: lng}, &decoded); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	if decoded.Address == "" {
		return "", fmt.Errorf("reverse geocode: no address for %.6f,%.6f", lat, lng)
	}
	return decoded.Address, nil
}
