package domain

import "strings"

// ItineraryState is the wire form of the driver's current plan, built
// freshly from leg/waypoint state for every route request. It is derived
// data and never persisted as a composed object.
//
// Pickups and deliveries stay index-aligned: one entry per retained leg.
// A leg already onboard keeps its slot but emits an empty pickup so the
// routing backend does not revisit a completed pickup.
type ItineraryState struct {
	DriverLoc   string   `json:"driver_loc"`
	Pickups     []string `json:"pickups"`
	Deliveries  []string `json:"deliveries"`
	Waypoints   []string `json:"waypoints,omitempty"`
	PlateNumber string   `json:"plate_number,omitempty"`
}

// BuildItineraryState assembles the routing request payload from the
// current session state.
func BuildItineraryState(driverLoc, plate string, legs []PassengerLeg, waypoints []Waypoint) ItineraryState {
	state := ItineraryState{
		DriverLoc:   strings.TrimSpace(driverLoc),
		Pickups:     make([]string, 0, len(legs)),
		Deliveries:  make([]string, 0, len(legs)),
		PlateNumber: strings.TrimSpace(plate),
	}

	for _, leg := range legs {
		pickup := leg.Pickup
		if leg.Onboard {
			pickup = ""
		}
		state.Pickups = append(state.Pickups, pickup)
		state.Deliveries = append(state.Deliveries, leg.Delivery)
	}

	for _, wp := range waypoints {
		if a := strings.TrimSpace(wp.Address); a != "" {
			state.Waypoints = append(state.Waypoints, a)
		}
	}

	return state
}

// RoutableState filters out legs excluded from route computation
// (empty delivery after an edit) while preserving pickup/delivery
// alignment for the legs that remain.
func (s ItineraryState) RoutableState() ItineraryState {
	out := ItineraryState{
		DriverLoc:   s.DriverLoc,
		Pickups:     make([]string, 0, len(s.Pickups)),
		Deliveries:  make([]string, 0, len(s.Deliveries)),
		Waypoints:   s.Waypoints,
		PlateNumber: s.PlateNumber,
	}
	for i := range s.Deliveries {
		if strings.TrimSpace(s.Deliveries[i]) == "" {
			continue
		}
		out.Pickups = append(out.Pickups, s.Pickups[i])
		out.Deliveries = append(out.Deliveries, s.Deliveries[i])
	}
	return out
}
