package ports

import (
	"context"

	"driver-console-service/internal/domain"
)

// Port: boundary to the external route computation service.
// The stop ordering, path and timing are entirely the service's business;
// this side only supplies the itinerary and a routing tactics code.
type RoutePreviewProvider interface {
	// Compute an ordered multi-stop route for the given itinerary.
	PreviewRoute(ctx context.Context, state domain.ItineraryState, tactics int) (*domain.RouteSnapshot, error)
}
