package ports

import "context"

// An order from the shared pool currently assigned to this driver.
type AssignedOrder struct {
	ID       string
	Pickup   string
	Delivery string
}

// Port: boundary for the shared order pool table.
// All access is filtered by driver id and status; the assignment
// algorithm itself lives behind the matching backend.
type OrderRepository interface {
	// List orders assigned to the driver, ordered by id.
	ListAssigned(ctx context.Context, driverID string) ([]AssignedOrder, error)

	// Update the pickup/delivery addresses of an order.
	UpdateAddresses(ctx context.Context, orderID, pickup, delivery string) error

	// Mark an order completed and release it from the driver.
	CompleteOrder(ctx context.Context, orderID string) error

	// Find the assigned order whose delivery address matches, if any.
	// Reports ok=false when no such order exists.
	FindAssignedByDelivery(ctx context.Context, driverID, delivery string) (orderID string, ok bool, err error)
}
