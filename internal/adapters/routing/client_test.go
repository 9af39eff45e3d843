package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
)

func testState() domain.ItineraryState {
	return domain.ItineraryState{
		DriverLoc:  "启东市人民中路",
		Pickups:    []string{"启东市南苑新村"},
		Deliveries: []string{"上海市浦东新区张江高科"},
	}
}

func TestPreviewRouteMapsAlignedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current_route_preview" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Tactics != 12 {
			t.Errorf("tactics = %d, want 12", req.Tactics)
		}

		json.NewEncoder(w).Encode(previewResponse{
			RouteAddresses:   []string{"启东市人民中路", "启东市南苑新村", "上海市浦东新区张江高科"},
			RouteCoords:      [][]float64{{31.81, 121.66}, {31.8, 121.65}, {31.2, 121.58}},
			PointTypes:       []string{"waypoint", "pickup", "delivery"},
			PointLabels:      []string{"起点", "接乘客1", "送乘客1"},
			RoutePath:        [][]float64{{31.81, 121.66}, {31.5, 121.6}, {31.2, 121.58}},
			TotalTimeSeconds: 5400,
		})
	}))
	defer srv.Close()

	client, err := NewBackendClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	snap, err := client.PreviewRoute(context.Background(), testState(), 12)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if len(snap.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(snap.Stops))
	}
	if snap.Hash() != "启东市人民中路|启东市南苑新村|上海市浦东新区张江高科" {
		t.Fatalf("hash = %q", snap.Hash())
	}
	if snap.Stops[1].Type != domain.StopTypePickup || snap.Stops[1].Label != "接乘客1" {
		t.Fatalf("stop 1 = %+v", snap.Stops[1])
	}
	if snap.Stops[2].Coord.Lat != 31.2 || snap.Stops[2].Coord.Lng != 121.58 {
		t.Fatalf("stop 2 coord = %+v", snap.Stops[2].Coord)
	}
	if len(snap.Path) != 3 {
		t.Fatalf("path points = %d, want 3", len(snap.Path))
	}
	if snap.TotalDurationSeconds != 5400 {
		t.Fatalf("duration = %d, want 5400", snap.TotalDurationSeconds)
	}
}

func TestPreviewRouteRejectsMisalignedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(previewResponse{
			RouteAddresses: []string{"A", "B"},
			RouteCoords:    [][]float64{{31.8, 121.6}},
		})
	}))
	defer srv.Close()

	client, _ := NewBackendClient(srv.URL)
	if _, err := client.PreviewRoute(context.Background(), testState(), 0); err == nil {
		t.Fatal("expected alignment error")
	}
}

func TestErrorDetailExtractedAndTruncated(t *testing.T) {
	longDetail := strings.Repeat("地址无法解析", 30)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": longDetail})
	}))
	defer srv.Close()

	client, _ := NewBackendClient(srv.URL)
	_, err := client.PreviewRoute(context.Background(), testState(), 0)
	if err == nil {
		t.Fatal("expected error for 422")
	}

	msg := err.Error()
	if !strings.Contains(msg, "422") {
		t.Fatalf("error lacks status code: %s", msg)
	}
	if !strings.Contains(msg, "…") {
		t.Fatalf("detail was not truncated: %s", msg)
	}
	if strings.Contains(msg, longDetail) {
		t.Fatal("full backend detail leaked into the error")
	}
}

func TestErrorFallsBackToStatusLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, _ := NewBackendClient(srv.URL)
	_, err := client.PreviewRoute(context.Background(), testState(), 0)
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("error lacks status: %s", err.Error())
	}
}

func TestEvaluateOrderReturnsVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evaluate_new_order" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.NewOrder.Pickup != "启东市南苑新村" {
			t.Errorf("order pickup = %q", req.NewOrder.Pickup)
		}

		json.NewEncoder(w).Encode(ports.OrderEvaluation{
			Status:        "matched",
			DetourMinutes: 12.5,
			Profit:        "31.0",
		})
	}))
	defer srv.Close()

	client, _ := NewBackendClient(srv.URL)
	eval, err := client.EvaluateOrder(context.Background(), testState(), ports.CandidateOrder{
		Pickup:   "启东市南苑新村",
		Delivery: "上海市静安区南京西路",
		Price:    "55",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eval.Status != "matched" || eval.DetourMinutes != 12.5 {
		t.Fatalf("verdict = %+v", eval)
	}
}

func TestNewBackendClientRejectsEmptyURL(t *testing.T) {
	if _, err := NewBackendClient("  "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
