package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"driver-console-service/internal/api/dto"
	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
	"driver-console-service/internal/services"
)

type RouteHandler struct {
	Tracker  *services.TripTracker
	Geocoder ports.Geocoder
}

func stopResponse(stop domain.RouteStop) dto.RouteStopResponse {
	return dto.RouteStopResponse{
		Address: stop.Address,
		Coord:   stop.Coord.CoordsToList(),
		Type:    stop.Type,
		Label:   stop.Label,
	}
}

func routeResponse(view services.TripView) dto.RouteResponse {
	res := dto.RouteResponse{
		StopIndex: view.StopIndex,
		Completed: view.Completed,
		Remaining: view.Remaining,
		LastError: view.LastError,
		Stops:     []dto.RouteStopResponse{},
	}
	if view.Snapshot == nil {
		return res
	}

	res.Stops = make([]dto.RouteStopResponse, 0, len(view.Snapshot.Stops))
	for _, stop := range view.Snapshot.Stops {
		res.Stops = append(res.Stops, stopResponse(stop))
	}
	for _, pt := range view.Snapshot.Path {
		res.Path = append(res.Path, pt.CoordsToList())
	}
	res.TotalDurationSeconds = view.Snapshot.TotalDurationSeconds
	res.DurationText = services.FormatDuration(view.Snapshot.TotalDurationSeconds)

	if view.NextStop != nil {
		next := stopResponse(*view.NextStop)
		res.NextStop = &next
	}
	return res
}

// writeRouteError maps tracker failures onto HTTP statuses: missing
// routing config is 503, no active route is 409, backend trouble is 502.
func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrRoutingUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "routing backend not configured")
	case errors.Is(err, services.ErrNoRoute):
		writeError(w, r, http.StatusConflict, "no active route")
	default:
		writeError(w, r, http.StatusBadGateway, err.Error())
	}
}

// Get returns the current route view without touching the backend.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, routeResponse(h.Tracker.View()))
}

// Request asks the routing backend for a fresh multi-stop route over the
// current itinerary, with an optional strategy key.
func (h *RouteHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	if _, ok := services.TacticsForStrategy(req.Strategy); !ok {
		writeError(w, r, http.StatusBadRequest, "unknown strategy")
		return
	}

	view, err := h.Tracker.RequestRoute(r.Context(), req.Strategy)
	if err != nil {
		log.Warn().Err(err).Msg("route request failed")
		writeRouteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(view))
}

// Restore loads the last persisted route without a routing call.
func (h *RouteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tracker.RestoreSnapshot(r.Context())
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(view))
}

// Arrived acknowledges reaching the next stop.
func (h *RouteHandler) Arrived(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tracker.Arrive(r.Context())
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(view))
}

// Reset moves the stop pointer back to the start of the route.
func (h *RouteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.Tracker.Reset(r.Context())
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, routeResponse(view))
}

// ReverseGeocode resolves a coordinate to an address via the backend.
func (h *RouteHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if h.Geocoder == nil {
		writeError(w, r, http.StatusServiceUnavailable, "routing backend not configured")
		return
	}

	var req dto.ReverseGeocodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	addr, err := h.Geocoder.ReverseGeocode(r.Context(), req.Lat, req.Lng)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ReverseGeocodeResponse{Address: addr})
}
