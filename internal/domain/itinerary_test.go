package domain

import "testing"

func TestBuildItineraryStateBlanksOnboardPickups(t *testing.T) {
	legs := []PassengerLeg{
		{Pickup: "P1", Delivery: "D1"},
		{Pickup: "P2", Delivery: "D2", Onboard: true},
	}

	state := BuildItineraryState("X", "苏F12345", legs, []Waypoint{{Address: "W1"}})

	if len(state.Pickups) != 2 || len(state.Deliveries) != 2 {
		t.Fatalf("pickups=%d deliveries=%d, want 2 each", len(state.Pickups), len(state.Deliveries))
	}
	if state.Pickups[0] != "P1" || state.Pickups[1] != "" {
		t.Fatalf("pickups = %v, onboard pickup must be emitted empty", state.Pickups)
	}
	if state.Deliveries[1] != "D2" {
		t.Fatalf("deliveries = %v, deliveries are always emitted in full", state.Deliveries)
	}
	if len(state.Waypoints) != 1 || state.Waypoints[0] != "W1" {
		t.Fatalf("waypoints = %v, want [W1]", state.Waypoints)
	}
}

func TestRoutableStateDropsLegsWithoutDelivery(t *testing.T) {
	state := ItineraryState{
		DriverLoc:  "X",
		Pickups:    []string{"P1", "P2", "P3"},
		Deliveries: []string{"D1", "", "D3"},
	}

	routable := state.RoutableState()

	if len(routable.Pickups) != 2 || len(routable.Deliveries) != 2 {
		t.Fatalf("got %d/%d entries, want 2/2", len(routable.Pickups), len(routable.Deliveries))
	}
	if routable.Pickups[0] != "P1" || routable.Pickups[1] != "P3" {
		t.Fatalf("pickups = %v, alignment lost", routable.Pickups)
	}
}

func TestInRestrictionArea(t *testing.T) {
	if !InRestrictionArea("上海市外滩") {
		t.Error("Shanghai address should be flagged")
	}
	if InRestrictionArea("如东县委党校") {
		t.Error("Rudong address should not be flagged")
	}
	if InRestrictionArea("") {
		t.Error("empty address should not be flagged")
	}
}
