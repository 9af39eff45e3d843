package routing

import (
	"context"
	"fmt"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/platform/obs"
)

type previewRequest struct {
	CurrentState domain.ItineraryState `json:"current_state"`
	Tactics      int                   `json:"tactics"`
}

type previewResponse struct {
	RouteAddresses   []string    `json:"route_addresses"`
	RouteCoords      [][]float64 `json:"route_coords"`
	PointTypes       []string    `json:"point_types"`
	PointLabels      []string    `json:"point_labels"`
	RoutePath        [][]float64 `json:"route_path"`
	TotalTimeSeconds int         `json:"total_time_seconds"`
}

// PreviewRoute asks the backend to compute an ordered multi-stop route
// for the itinerary. The response arrays are index-aligned per stop;
// route_path is an optional dense polyline for the full route.
func (c *BackendClient) PreviewRoute(
	ctx context.Context,
	state domain.ItineraryState,
	tactics int,
) (_ *domain.RouteSnapshot, err error) {
	defer obs.Time(ctx, "backend.PreviewRoute")(&err)

	var decoded previewResponse
	if err := c.postJSON(ctx, "/current_route_preview", previewRequest{
		CurrentState: state,
		Tactics:      tactics,
	}, &decoded); err != nil {
		return nil, fmt.Errorf("route preview: %w", err)
	}

	if len(decoded.RouteCoords) != len(decoded.RouteAddresses) {
		return nil, fmt.Errorf(
			"route preview: %d addresses but %d coordinates",
			len(decoded.RouteAddresses), len(decoded.RouteCoords),
		)
	}

	snap := &domain.RouteSnapshot{
		Stops:                make([]domain.RouteStop, 0, len(decoded.RouteAddresses)),
		TotalDurationSeconds: decoded.TotalTimeSeconds,
	}

	for i, addr := range decoded.RouteAddresses {
		coord, ok := domain.CoordsFromList(decoded.RouteCoords[i])
		if !ok {
			return nil, fmt.Errorf("route preview: invalid coordinate pair for %q", addr)
		}

		stop := domain.RouteStop{Address: addr, Coord: coord}
		if i < len(decoded.PointTypes) {
			stop.Type = decoded.PointTypes[i]
		}
		if i < len(decoded.PointLabels) {
			stop.Label = decoded.PointLabels[i]
		}
		snap.Stops = append(snap.Stops, stop)
	}

	for _, pair := range decoded.RoutePath {
		if coord, ok := domain.CoordsFromList(pair); ok {
			snap.Path = append(snap.Path, coord)
		}
	}

	return snap, nil
}
