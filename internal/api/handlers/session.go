package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"driver-console-service/internal/api/dto"
	"driver-console-service/internal/domain"
	"driver-console-service/internal/services"
)

type SessionHandler struct {
	Store *services.ItineraryStore
}

func sessionResponse(sess services.Session) dto.SessionResponse {
	res := dto.SessionResponse{
		DriverLoc:  sess.DriverLoc,
		DriverName: sess.DriverName,
		Plate:      sess.Plate,
		EmptySeats: sess.EmptySeats,
		Capacity:   sess.Capacity,
		Legs:       make([]dto.LegResponse, 0, len(sess.Legs)),
		Waypoints:  make([]string, 0, len(sess.Waypoints)),
		LastError:  sess.LastError,
		LocalOnly:  sess.LocalOnly,
	}

	for i, leg := range sess.Legs {
		lr := dto.LegResponse{
			Index:    i,
			Pickup:   leg.Pickup,
			Delivery: leg.Delivery,
			Onboard:  leg.Onboard,
		}
		if leg.OrderID != nil {
			lr.OrderID = *leg.OrderID
		}
		res.Legs = append(res.Legs, lr)
	}
	for _, wp := range sess.Waypoints {
		res.Waypoints = append(res.Waypoints, wp.Address)
	}
	return res
}

// Get returns the current session: driver state, passenger legs and
// waypoints, plus the most recent remote failure if any.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

// Reload re-hydrates the session from the shared store (or the local
// cache in local-only mode).
func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Load(r.Context()); err != nil {
		log.Error().Err(err).Msg("session reload failed")
		writeError(w, r, http.StatusBadGateway, "session reload failed")
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

func (h *SessionHandler) AddLeg(w http.ResponseWriter, r *http.Request) {
	var req dto.LegRequest
	if !decodeBody(w, r, &req) {
		return
	}

	index, err := h.Store.AddLeg(req.Pickup, req.Delivery)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AddLegResponse{
		Index:           index,
		RestrictionHint: domain.InRestrictionArea(req.Pickup) || domain.InRestrictionArea(req.Delivery),
	})
}

func (h *SessionHandler) EditLeg(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req dto.LegRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Store.EditLeg(r.Context(), index, req.Pickup, req.Delivery); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

func (h *SessionHandler) MarkOnboard(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	if err := h.Store.MarkOnboard(index); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

// RemoveLeg drops a leg. The optional body carries the arrival address
// that becomes the driver's new location (drop-off flow).
func (h *SessionHandler) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req dto.RemoveLegRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	if err := h.Store.RemoveLeg(r.Context(), index, req.ArrivalAddress); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

func (h *SessionHandler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	var req dto.WaypointRequest
	if !decodeBody(w, r, &req) {
		return
	}

	index, err := h.Store.AddWaypoint(req.Address)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.AddWaypointResponse{Index: index})
}

func (h *SessionHandler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	if err := h.Store.RemoveWaypoint(index); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(h.Store.Session()))
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["index"]
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		writeError(w, r, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return index, true
}
