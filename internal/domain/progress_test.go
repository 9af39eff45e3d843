package domain

import "testing"

func TestTripProgressAdvancesToCompletion(t *testing.T) {
	// Three stops: driver location, one pickup, one delivery.
	p := NewTripProgress(3, 0, false)

	if p.Completed() {
		t.Fatal("fresh progress should not be completed")
	}
	if next, ok := p.NextIndex(); !ok || next != 1 {
		t.Fatalf("next = %d ok=%v, want 1 true", next, ok)
	}

	reached, advanced := p.Arrive()
	if !advanced || reached != 1 {
		t.Fatalf("first arrive: reached=%d advanced=%v, want 1 true", reached, advanced)
	}
	if next, ok := p.NextIndex(); !ok || next != 2 {
		t.Fatalf("next after first arrive = %d ok=%v, want 2 true", next, ok)
	}

	reached, advanced = p.Arrive()
	if !advanced || reached != 2 {
		t.Fatalf("second arrive: reached=%d advanced=%v, want 2 true", reached, advanced)
	}
	if !p.Completed() {
		t.Fatal("trip should be complete after reaching the final stop")
	}

	// Arriving again must not move the index.
	reached, advanced = p.Arrive()
	if advanced {
		t.Fatal("arrive on a completed trip must not advance")
	}
	if reached != 2 || p.Index() != 2 {
		t.Fatalf("index moved after completion: reached=%d index=%d", reached, p.Index())
	}
}

func TestTripProgressRestoresSavedIndexOnHashMatch(t *testing.T) {
	p := NewTripProgress(4, 2, true)
	if p.Index() != 2 {
		t.Fatalf("index = %d, want saved 2", p.Index())
	}

	// Saved index beyond the route is clamped to the final stop.
	p = NewTripProgress(3, 9, true)
	if p.Index() != 2 {
		t.Fatalf("index = %d, want clamped 2", p.Index())
	}

	p = NewTripProgress(3, -1, true)
	if p.Index() != 0 {
		t.Fatalf("index = %d, want clamped 0", p.Index())
	}
}

func TestTripProgressIgnoresSavedIndexOnHashMismatch(t *testing.T) {
	p := NewTripProgress(5, 3, false)
	if p.Index() != 0 {
		t.Fatalf("index = %d, want 0 on hash mismatch", p.Index())
	}
}

func TestTripProgressReset(t *testing.T) {
	p := NewTripProgress(3, 0, false)
	p.Arrive()
	p.Reset()
	if p.Index() != 0 {
		t.Fatalf("index = %d after reset, want 0", p.Index())
	}
}

func TestRouteSnapshotHash(t *testing.T) {
	snap := &RouteSnapshot{Stops: []RouteStop{
		{Address: "X"}, {Address: "P1"}, {Address: "D1"},
	}}
	if got := snap.Hash(); got != "X|P1|D1" {
		t.Fatalf("hash = %q, want %q", got, "X|P1|D1")
	}

	var nilSnap *RouteSnapshot
	if got := nilSnap.Hash(); got != "" {
		t.Fatalf("nil snapshot hash = %q, want empty", got)
	}
}
