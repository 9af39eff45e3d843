package domain

import "strings"

// Represents one passenger's transport request tracked by the console.
// OrderID is nil until the backend order pool has confirmed the order.
// Once Onboard is set the pickup is done and only the delivery remains
// relevant for route computation.
type PassengerLeg struct {
	OrderID  *string
	Pickup   string
	Delivery string
	Onboard  bool
}

// A leg with no delivery is retained (the driver may fill it in later)
// but must not participate in route computation.
func (l PassengerLeg) Routable() bool {
	return strings.TrimSpace(l.Delivery) != ""
}

// Waypoint is a bare address the driver wants on the route, with no
// passenger semantics and no backend order behind it.
type Waypoint struct {
	Address string
}
