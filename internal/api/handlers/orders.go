package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"driver-console-service/internal/api/dto"
	"driver-console-service/internal/ports"
	"driver-console-service/internal/services"
)

type OrderHandler struct {
	Evaluator ports.OrderEvaluator
	Store     *services.ItineraryStore
}

// Evaluate forwards a candidate order plus the current itinerary to the
// matching backend and returns its verdict as-is. The backend owns
// scoring; this endpoint is a conduit.
func (h *OrderHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Evaluator == nil {
		writeError(w, r, http.StatusServiceUnavailable, "matching backend not configured")
		return
	}

	var req dto.EvaluateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Pickup) == "" || strings.TrimSpace(req.Delivery) == "" {
		writeError(w, r, http.StatusBadRequest, "pickup and delivery are required")
		return
	}

	state := h.Store.ItineraryState().RoutableState()
	if state.DriverLoc == "" {
		writeError(w, r, http.StatusConflict, "driver location not set")
		return
	}

	eval, err := h.Evaluator.EvaluateOrder(r.Context(), state, ports.CandidateOrder{
		Pickup:   req.Pickup,
		Delivery: req.Delivery,
		Price:    req.Price,
	})
	if err != nil {
		log.Warn().Err(err).Msg("order evaluation failed")
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EvaluateOrderResponse{
		Status:        eval.Status,
		Reason:        eval.Reason,
		Message:       eval.Message,
		DetourMinutes: eval.DetourMinutes,
		Profit:        eval.Profit,
		RoutePreview:  eval.RoutePreview,
	})
}
