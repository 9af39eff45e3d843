package ports

import (
	"context"

	"driver-console-service/internal/domain"
)

// Port: boundary for the per-driver remote route snapshot row.
// At most one snapshot exists per driver; saving overwrites it
// (last write wins, no cross-device coordination).
type SnapshotStore interface {
	// Upsert the driver's route snapshot.
	SaveSnapshot(ctx context.Context, driverID string, snap *domain.RouteSnapshot) error

	// Load the driver's last saved snapshot. Returns nil when none exists.
	LoadSnapshot(ctx context.Context, driverID string) (*domain.RouteSnapshot, error)
}
