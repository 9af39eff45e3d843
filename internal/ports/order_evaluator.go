package ports

import (
	"context"

	"driver-console-service/internal/domain"
)

// A candidate order scraped from the order hall, offered for evaluation
// against the driver's current itinerary.
type CandidateOrder struct {
	Pickup   string `json:"pickup"`
	Delivery string `json:"delivery"`
	Price    string `json:"price"`
}

// Verdict from the matching backend. Status is one of matched, rejected
// or ignored; the remaining fields are only set for a match.
type OrderEvaluation struct {
	Status        string   `json:"status"`
	Reason        string   `json:"reason,omitempty"`
	Message       string   `json:"message,omitempty"`
	DetourMinutes float64  `json:"detour_minutes,omitempty"`
	Profit        string   `json:"profit,omitempty"`
	RoutePreview  []string `json:"new_route_preview,omitempty"`
}

// Port: boundary to the external order matching backend.
type OrderEvaluator interface {
	// Score a candidate order against the current itinerary.
	EvaluateOrder(ctx context.Context, state domain.ItineraryState, order CandidateOrder) (OrderEvaluation, error)
}
