package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/ports"
)

func newTestCache(t *testing.T) *RedisSessionCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionCache(client)
}

func TestSessionStateRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	orderID := "ord-1"
	in := ports.SessionState{
		DriverLoc: "如东县委党校",
		Legs: []domain.PassengerLeg{
			{OrderID: &orderID, Pickup: "P1", Delivery: "D1"},
			{Pickup: "P2", Delivery: "D2", Onboard: true},
		},
		Waypoints: []domain.Waypoint{{Address: "W1"}},
	}

	if err := c.SaveState(ctx, "drv", in); err != nil {
		t.Fatalf("save state: %v", err)
	}

	out, err := c.LoadState(ctx, "drv")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if out == nil {
		t.Fatal("expected cached state, got nil")
	}
	if out.DriverLoc != in.DriverLoc {
		t.Errorf("driver loc = %q, want %q", out.DriverLoc, in.DriverLoc)
	}
	if len(out.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(out.Legs))
	}
	if out.Legs[0].OrderID == nil || *out.Legs[0].OrderID != orderID {
		t.Errorf("order id lost: %v", out.Legs[0].OrderID)
	}
	if out.Legs[1].OrderID != nil {
		t.Errorf("unassigned leg must keep nil order id, got %v", *out.Legs[1].OrderID)
	}
	if !out.Legs[1].Onboard {
		t.Error("onboard flag lost")
	}
	if len(out.Waypoints) != 1 || out.Waypoints[0].Address != "W1" {
		t.Errorf("waypoints = %v, want [W1]", out.Waypoints)
	}
}

func TestLoadStateMissing(t *testing.T) {
	c := newTestCache(t)

	out, err := c.LoadState(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil for missing state, got %+v", out)
	}
}

func TestProgressSaveLoadClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.LoadProgress(ctx, "drv"); err != nil || ok {
		t.Fatalf("fresh progress: ok=%v err=%v, want false nil", ok, err)
	}

	want := ports.SavedProgress{RouteHash: "X|P1|D1", StopIndex: 2}
	if err := c.SaveProgress(ctx, "drv", want); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	got, ok, err := c.LoadProgress(ctx, "drv")
	if err != nil || !ok {
		t.Fatalf("load progress: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("progress = %+v, want %+v", got, want)
	}

	if err := c.ClearProgress(ctx, "drv"); err != nil {
		t.Fatalf("clear progress: %v", err)
	}
	if _, ok, _ := c.LoadProgress(ctx, "drv"); ok {
		t.Fatal("progress survived clear")
	}
}

func TestSnapshotMirrorRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := &domain.RouteSnapshot{
		Stops: []domain.RouteStop{
			{Address: "X", Coord: domain.Coordinates{Lat: 32.3, Lng: 121.1}, Type: domain.StopTypeWaypoint, Label: "起点"},
			{Address: "D1", Coord: domain.Coordinates{Lat: 31.2, Lng: 121.4}, Type: domain.StopTypeDelivery, Label: "送乘客1"},
		},
		Path:                 []domain.Coordinates{{Lat: 32.3, Lng: 121.1}, {Lat: 31.2, Lng: 121.4}},
		TotalDurationSeconds: 5400,
	}

	if err := c.SaveSnapshot(ctx, "drv", in); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	out, err := c.LoadSnapshot(ctx, "drv")
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if out == nil {
		t.Fatal("expected mirrored snapshot, got nil")
	}
	if out.Hash() != in.Hash() {
		t.Errorf("hash = %q, want %q", out.Hash(), in.Hash())
	}
	if out.Stops[1].Type != domain.StopTypeDelivery || out.Stops[1].Label != "送乘客1" {
		t.Errorf("stop metadata lost: %+v", out.Stops[1])
	}
	if out.TotalDurationSeconds != 5400 {
		t.Errorf("duration = %d, want 5400", out.TotalDurationSeconds)
	}
	if len(out.Path) != 2 {
		t.Errorf("path length = %d, want 2", len(out.Path))
	}
}
