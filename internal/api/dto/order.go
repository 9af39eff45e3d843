package dto

type EvaluateOrderRequest struct {
	Pickup   string `json:"pickup"`
	Delivery string `json:"delivery"`
	Price    string `json:"price"`
}

type EvaluateOrderResponse struct {
	Status        string   `json:"status"`
	Reason        string   `json:"reason,omitempty"`
	Message       string   `json:"message,omitempty"`
	DetourMinutes float64  `json:"detour_minutes,omitempty"`
	Profit        string   `json:"profit,omitempty"`
	RoutePreview  []string `json:"new_route_preview,omitempty"`
}
