package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"driver-console-service/internal/adapters/cache"
	"driver-console-service/internal/services"
)

// Local-only wiring: no shared store, no routing backend. The session
// surface works fully; backend-facing endpoints degrade to 503.
func newTestRouter() http.Handler {
	sessionCache := cache.NewMemorySessionCache()
	store := services.NewItineraryStore("drv-1", 4, nil, nil, nil, sessionCache)
	tracker := services.NewTripTracker("drv-1", nil, nil, sessionCache, store)
	return NewRouter(store, tracker, nil, nil, nil)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAddLegThenGetSession(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"pickup":"启东市南苑新村","delivery":"上海市浦东新区张江高科"}`)
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/session/legs", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add leg status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get session status = %d", rec.Code)
	}
	got := rec.Body.String()
	if !strings.Contains(got, "启东市南苑新村") || !strings.Contains(got, `"local_only":true`) {
		t.Fatalf("session body = %s", got)
	}
}

func TestAddLegFlagsRestrictedAddress(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"pickup":"启东市南苑新村","delivery":"上海市静安区南京西路"}`)
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/session/legs", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"restriction_hint":true`) {
		t.Fatalf("body = %s, want restriction hint", rec.Body.String())
	}
}

func TestAddLegRejectsEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"pickup":"","delivery":""}`)
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/session/legs", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRouteRequestWithoutBackendIs503(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"strategy":"LEAST_TIME"}`)
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/route", body))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestArrivedWithoutRouteIs409(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/route/arrived", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestEvaluateWithoutBackendIs503(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"pickup":"A","delivery":"B","price":"20"}`)
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/orders/evaluate", body))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestUnknownStrategyIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"strategy":"TELEPORT"}`)
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("POST", "/route", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
