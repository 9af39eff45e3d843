package dto

type LegRequest struct {
	Pickup   string `json:"pickup"`
	Delivery string `json:"delivery"`
}

type WaypointRequest struct {
	Address string `json:"address"`
}

type RemoveLegRequest struct {
	ArrivalAddress string `json:"arrival_address"`
}

type LegResponse struct {
	Index    int    `json:"index"`
	OrderID  string `json:"order_id,omitempty"`
	Pickup   string `json:"pickup"`
	Delivery string `json:"delivery"`
	Onboard  bool   `json:"onboard"`
}

type AddLegResponse struct {
	Index int `json:"index"`
	// Set when either address sits inside a known restricted zone; the
	// leg is still accepted, the driver just gets a heads-up.
	RestrictionHint bool `json:"restriction_hint,omitempty"`
}

type AddWaypointResponse struct {
	Index int `json:"index"`
}

type SessionResponse struct {
	DriverLoc  string        `json:"driver_loc"`
	DriverName string        `json:"driver_name,omitempty"`
	Plate      string        `json:"plate_number,omitempty"`
	EmptySeats int           `json:"empty_seats"`
	Capacity   int           `json:"capacity"`
	Legs       []LegResponse `json:"legs"`
	Waypoints  []string      `json:"waypoints"`
	LastError  string        `json:"last_error,omitempty"`
	LocalOnly  bool          `json:"local_only"`
}
