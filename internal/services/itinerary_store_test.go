package services

import (
	"context"
	"errors"
	"testing"

	"driver-console-service/internal/adapters/cache"
	"driver-console-service/internal/ports"
)

type fakeOrderRepo struct {
	assigned []ports.AssignedOrder

	completeErr   error
	completedIDs  []string
	updatedOrders map[string][2]string
}

func (f *fakeOrderRepo) ListAssigned(ctx context.Context, driverID string) ([]ports.AssignedOrder, error) {
	return f.assigned, nil
}

func (f *fakeOrderRepo) UpdateAddresses(ctx context.Context, orderID, pickup, delivery string) error {
	if f.updatedOrders == nil {
		f.updatedOrders = make(map[string][2]string)
	}
	f.updatedOrders[orderID] = [2]string{pickup, delivery}
	return nil
}

func (f *fakeOrderRepo) CompleteOrder(ctx context.Context, orderID string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completedIDs = append(f.completedIDs, orderID)
	return nil
}

func (f *fakeOrderRepo) FindAssignedByDelivery(ctx context.Context, driverID, delivery string) (string, bool, error) {
	for _, o := range f.assigned {
		if o.Delivery == delivery {
			return o.ID, true, nil
		}
	}
	return "", false, nil
}

type fakeDriverRepo struct {
	state    ports.DriverState
	hasState bool

	locations []string
	seats     []int
}

func (f *fakeDriverRepo) GetState(ctx context.Context, driverID string) (ports.DriverState, bool, error) {
	return f.state, f.hasState, nil
}

func (f *fakeDriverRepo) SetCurrentLocation(ctx context.Context, driverID, loc string) error {
	f.locations = append(f.locations, loc)
	return nil
}

func (f *fakeDriverRepo) SetEmptySeats(ctx context.Context, driverID string, seats int) error {
	f.seats = append(f.seats, seats)
	return nil
}

func newTestStore(orders *fakeOrderRepo, drivers *fakeDriverRepo) *ItineraryStore {
	var o ports.OrderRepository
	var d ports.DriverStateRepository
	if orders != nil {
		o = orders
	}
	if drivers != nil {
		d = drivers
	}
	return NewItineraryStore("drv-1", 4, o, d, nil, cache.NewMemorySessionCache())
}

func TestItineraryStateStaysAligned(t *testing.T) {
	s := newTestStore(nil, nil)

	if _, err := s.AddLeg("P1", "D1"); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if _, err := s.AddLeg("P2", "D2"); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if _, err := s.AddLeg("P3", "D3"); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	if err := s.MarkOnboard(1); err != nil {
		t.Fatalf("mark onboard: %v", err)
	}
	if err := s.RemoveLeg(context.Background(), 0, ""); err != nil {
		t.Fatalf("remove leg: %v", err)
	}

	state := s.ItineraryState()
	if len(state.Pickups) != 2 || len(state.Deliveries) != 2 {
		t.Fatalf("pickups=%d deliveries=%d, want one entry per retained leg (2)",
			len(state.Pickups), len(state.Deliveries))
	}
	// Leg P2/D2 (now index 0) is onboard: pickup blank, delivery kept.
	if state.Pickups[0] != "" || state.Deliveries[0] != "D2" {
		t.Fatalf("onboard leg emitted as %q/%q, want \"\"/D2", state.Pickups[0], state.Deliveries[0])
	}
}

func TestMarkOnboardIsIdempotent(t *testing.T) {
	s := newTestStore(nil, nil)
	if _, err := s.AddLeg("P1", "D1"); err != nil {
		t.Fatalf("add leg: %v", err)
	}

	if err := s.MarkOnboard(0); err != nil {
		t.Fatalf("first mark onboard: %v", err)
	}
	first := s.Session().Legs[0]

	if err := s.MarkOnboard(0); err != nil {
		t.Fatalf("second mark onboard: %v", err)
	}
	second := s.Session().Legs[0]

	if first != second {
		t.Fatalf("second mark onboard changed the leg: %+v vs %+v", first, second)
	}
}

func TestAddLegRejectsFullyEmpty(t *testing.T) {
	s := newTestStore(nil, nil)
	if _, err := s.AddLeg("  ", ""); err == nil {
		t.Fatal("expected error for empty pickup and delivery")
	}
}

func TestRemoveLegSurvivesBackendFailure(t *testing.T) {
	orders := &fakeOrderRepo{completeErr: errors.New("connection refused")}
	drivers := &fakeDriverRepo{}
	s := newTestStore(orders, drivers)

	if _, err := s.AddLeg("P1", "D1"); err != nil {
		t.Fatalf("add leg: %v", err)
	}

	// Simulate a backend-assigned order behind the leg.
	id := "ord-9"
	s.mu.Lock()
	s.legs[0].OrderID = &id
	s.mu.Unlock()

	if err := s.RemoveLeg(context.Background(), 0, "新地点"); err != nil {
		t.Fatalf("remove leg must not fail on backend error: %v", err)
	}

	state := s.ItineraryState()
	if len(state.Pickups) != 0 {
		t.Fatalf("leg still present after removal: %v", state.Pickups)
	}
	if s.Session().LastError == "" {
		t.Fatal("backend failure should be recorded as a status string")
	}
	if got := s.Session().DriverLoc; got != "新地点" {
		t.Fatalf("driver location = %q, want arrival address", got)
	}
}

func TestRemoveLegCompletesOrderAndFreesSeat(t *testing.T) {
	orders := &fakeOrderRepo{}
	drivers := &fakeDriverRepo{}
	s := newTestStore(orders, drivers)

	if _, err := s.AddLeg("P1", "D1"); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	id := "ord-1"
	s.mu.Lock()
	s.legs[0].OrderID = &id
	s.mu.Unlock()

	if err := s.RemoveLeg(context.Background(), 0, ""); err != nil {
		t.Fatalf("remove leg: %v", err)
	}

	if len(orders.completedIDs) != 1 || orders.completedIDs[0] != "ord-1" {
		t.Fatalf("completed orders = %v, want [ord-1]", orders.completedIDs)
	}
	if len(drivers.seats) != 1 || drivers.seats[0] != 1 {
		t.Fatalf("seat updates = %v, want [1]", drivers.seats)
	}
}

func TestEditLegPropagatesAndKeepsLocalOnFailure(t *testing.T) {
	orders := &fakeOrderRepo{}
	s := newTestStore(orders, &fakeDriverRepo{})

	if _, err := s.AddLeg("P1", "D1"); err != nil {
		t.Fatalf("add leg: %v", err)
	}
	id := "ord-2"
	s.mu.Lock()
	s.legs[0].OrderID = &id
	s.mu.Unlock()

	if err := s.EditLeg(context.Background(), 0, "P1b", "D1b"); err != nil {
		t.Fatalf("edit leg: %v", err)
	}

	if got := orders.updatedOrders["ord-2"]; got != [2]string{"P1b", "D1b"} {
		t.Fatalf("order update = %v, want propagated addresses", got)
	}
	if leg := s.Session().Legs[0]; leg.Pickup != "P1b" || leg.Delivery != "D1b" {
		t.Fatalf("local edit lost: %+v", leg)
	}
}

func TestLoadHydratesFromOrderPool(t *testing.T) {
	orders := &fakeOrderRepo{assigned: []ports.AssignedOrder{
		{ID: "o1", Pickup: "P1", Delivery: "D1"},
		{ID: "o2", Pickup: "P2", Delivery: "D2"},
	}}
	drivers := &fakeDriverRepo{
		state:    ports.DriverState{CurrentLoc: "如东县委党校", EmptySeats: 9},
		hasState: true,
	}
	s := newTestStore(orders, drivers)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	sess := s.Session()
	if len(sess.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(sess.Legs))
	}
	if sess.DriverLoc != "如东县委党校" {
		t.Fatalf("driver loc = %q", sess.DriverLoc)
	}
	// Seats recomputed from passenger count, not the stored out-of-range value.
	if sess.EmptySeats != 2 {
		t.Fatalf("empty seats = %d, want 2", sess.EmptySeats)
	}
	if len(drivers.seats) == 0 || drivers.seats[len(drivers.seats)-1] != 2 {
		t.Fatalf("recomputed seats not written back: %v", drivers.seats)
	}
}
