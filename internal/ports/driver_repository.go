package ports

import "context"

// Per-driver mutable state mirrored in the shared store.
type DriverState struct {
	CurrentLoc string
	EmptySeats int
}

// Static driver profile data.
type DriverProfile struct {
	Name        string
	PlateNumber string
}

// Port: boundary for the driver_state table.
type DriverStateRepository interface {
	// Fetch the driver's current state. Reports ok=false when no row exists.
	GetState(ctx context.Context, driverID string) (state DriverState, ok bool, err error)

	// Update the driver's current location.
	SetCurrentLocation(ctx context.Context, driverID, loc string) error

	// Update the driver's free seat count.
	SetEmptySeats(ctx context.Context, driverID string, seats int) error
}

// Port: boundary for the drivers profile table.
type DriverDirectory interface {
	// Fetch name and plate for a driver. Reports ok=false when unknown.
	GetProfile(ctx context.Context, driverID string) (profile DriverProfile, ok bool, err error)
}

// Port: boundary for the app_config key/value table.
type AppConfigRepository interface {
	// Load all configuration rows as a key -> value map.
	Load(ctx context.Context) (map[string]string, error)
}
