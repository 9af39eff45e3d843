package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"driver-console-service/internal/ports"
)

// Driver mode, mode config and planned trips live on the dispatch
// backend; the console proxies them without interpreting the payloads.
type DriverHandler struct {
	Gateway ports.DriverModeGateway
}

const maxProxyBodyBytes = 64 << 10

func (h *DriverHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.Gateway == nil {
		writeError(w, r, http.StatusServiceUnavailable, "routing backend not configured")
		return false
	}
	return true
}

func readRawBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable body")
		return nil, false
	}
	if len(b) > 0 && !json.Valid(b) {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}
	return b, true
}

func writeRaw(w http.ResponseWriter, r *http.Request, raw json.RawMessage, err error) {
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (h *DriverHandler) GetMode(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	raw, err := h.Gateway.DriverMode(r.Context())
	writeRaw(w, r, raw, err)
}

func (h *DriverHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	body, ok := readRawBody(w, r)
	if !ok {
		return
	}
	raw, err := h.Gateway.SetDriverMode(r.Context(), body)
	writeRaw(w, r, raw, err)
}

func (h *DriverHandler) GetModeConfig(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	raw, err := h.Gateway.DriverModeConfig(r.Context())
	writeRaw(w, r, raw, err)
}

func (h *DriverHandler) SetModeConfig(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	body, ok := readRawBody(w, r)
	if !ok {
		return
	}
	raw, err := h.Gateway.SetDriverModeConfig(r.Context(), body)
	writeRaw(w, r, raw, err)
}

func (h *DriverHandler) GetPlannedTrip(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	raw, err := h.Gateway.PlannedTrip(r.Context())
	writeRaw(w, r, raw, err)
}

// SavePlannedTrip proxies both PUT (replace) and POST (create) verbatim.
func (h *DriverHandler) SavePlannedTrip(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	body, ok := readRawBody(w, r)
	if !ok {
		return
	}
	raw, err := h.Gateway.SavePlannedTrip(r.Context(), r.Method, body)
	writeRaw(w, r, raw, err)
}

func (h *DriverHandler) CompletePlannedTrip(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	raw, err := h.Gateway.CompletePlannedTrip(r.Context())
	writeRaw(w, r, raw, err)
}
