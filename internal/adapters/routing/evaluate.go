package routing

import (
	"context"
	"fmt"
	"time"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/platform/obs"
	"driver-console-service/internal/ports"
)

// Order evaluation needs two full matrix computations on the backend, so
// it gets a longer leash than interactive calls but is still bounded.
const evaluateTimeout = 8 * time.Second

type evaluateRequest struct {
	CurrentState domain.ItineraryState `json:"current_state"`
	NewOrder     ports.CandidateOrder  `json:"new_order"`
}

// EvaluateOrder forwards a candidate order to the matching backend and
// returns its verdict verbatim. Deduplication and push notifications are
// the backend's concern.
func (c *BackendClient) EvaluateOrder(
	ctx context.Context,
	state domain.ItineraryState,
	order ports.CandidateOrder,
) (_ ports.OrderEvaluation, err error) {
	defer obs.Time(ctx, "backend.EvaluateOrder")(&err)

	ctx, cancel := context.WithTimeout(ctx, evaluateTimeout)
	defer cancel()

	var decoded ports.OrderEvaluation
	if err := c.postJSON(ctx, "/evaluate_new_order", evaluateRequest{
		CurrentState: state,
		NewOrder:     order,
	}, &decoded); err != nil {
		return ports.OrderEvaluation{}, fmt.Errorf("evaluate order: %w", err)
	}

	return decoded, nil
}
