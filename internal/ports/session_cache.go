package ports

import (
	"context"

	"driver-console-service/internal/domain"
)

// The locally cached console session: everything needed to survive a
// reload without touching the shared store.
type SessionState struct {
	DriverLoc string
	Legs      []domain.PassengerLeg
	Waypoints []domain.Waypoint
}

// Saved stop progression, bound to the hash of the stop sequence it was
// recorded against.
type SavedProgress struct {
	RouteHash string
	StopIndex int
}

// Port: boundary for the driver's local session cache (the reload-survival
// store). Writes are best-effort; a cache failure must never fail a
// console operation.
type SessionCache interface {
	// Persist the full leg/waypoint session state.
	SaveState(ctx context.Context, driverID string, state SessionState) error

	// Load the cached session state. Returns nil when none is cached.
	LoadState(ctx context.Context, driverID string) (*SessionState, error)

	// Persist the stop progression pointer and its route hash.
	SaveProgress(ctx context.Context, driverID string, p SavedProgress) error

	// Load saved progression. Reports ok=false when none is cached.
	LoadProgress(ctx context.Context, driverID string) (p SavedProgress, ok bool, err error)

	// Discard saved progression (explicit route refresh).
	ClearProgress(ctx context.Context, driverID string) error

	// Mirror the last route snapshot locally so the map can render when
	// the remote store is unreachable.
	SaveSnapshot(ctx context.Context, driverID string, snap *domain.RouteSnapshot) error

	// Load the locally mirrored snapshot. Returns nil when none is cached.
	LoadSnapshot(ctx context.Context, driverID string) (*domain.RouteSnapshot, error)
}
