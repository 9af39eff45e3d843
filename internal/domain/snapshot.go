package domain

import "strings"

// Stop type tags as reported by the routing backend.
const (
	StopTypePickup   = "pickup"
	StopTypeDelivery = "delivery"
	StopTypeWaypoint = "waypoint"
)

// Represents a single stop in a computed route: an address, its resolved
// coordinates, the stop's role and a display label.
type RouteStop struct {
	Address string
	Coord   Coordinates
	Type    string
	Label   string
}

// RouteSnapshot is the result of one external route computation.
// It is replaced wholesale on every new computation and never partially
// mutated; the first stop is the driver's own location.
type RouteSnapshot struct {
	Stops                []RouteStop
	Path                 []Coordinates
	TotalDurationSeconds int
}

// Hash identifies a snapshot by its stop sequence. Two snapshots with the
// same hash describe the same ordered stops, so a saved progression index
// may be carried over between them.
func (s *RouteSnapshot) Hash() string {
	if s == nil || len(s.Stops) == 0 {
		return ""
	}
	addrs := make([]string, 0, len(s.Stops))
	for _, stop := range s.Stops {
		addrs = append(addrs, stop.Address)
	}
	return strings.Join(addrs, "|")
}

// LastIndex is the terminal progression index: reaching the final stop
// completes the trip.
func (s *RouteSnapshot) LastIndex() int {
	if s == nil || len(s.Stops) == 0 {
		return 0
	}
	return len(s.Stops) - 1
}
