package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"driver-console-service/internal/domain"
	"driver-console-service/internal/platform/obs"
)

// Postgres-backed implementation of the SnapshotStore port over the
// driver_route_snapshot table. The row layout keeps the original per-stop
// aligned arrays (addresses, coords, types, labels) so the browser map
// can consume the same shape.
type PostgresSnapshotStore struct{ DB *sql.DB }

func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{DB: db}
}

func (s *PostgresSnapshotStore) SaveSnapshot(ctx context.Context, driverID string, snap *domain.RouteSnapshot) (err error) {
	defer obs.Time(ctx, "snapshot.store.Save")(&err)

	if s.DB == nil {
		return errors.New("snapshot store: DB is nil")
	}
	if snap == nil || len(snap.Stops) == 0 {
		return errors.New("save snapshot: snapshot is empty")
	}

	addresses := make([]string, 0, len(snap.Stops))
	coords := make([][]float64, 0, len(snap.Stops))
	types := make([]string, 0, len(snap.Stops))
	labels := make([]string, 0, len(snap.Stops))
	for _, stop := range snap.Stops {
		addresses = append(addresses, stop.Address)
		coords = append(coords, stop.Coord.CoordsToList())
		types = append(types, stop.Type)
		labels = append(labels, stop.Label)
	}

	addrJSON, err := json.Marshal(addresses)
	if err != nil {
		return fmt.Errorf("save snapshot: encode addresses: %w", err)
	}
	coordJSON, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("save snapshot: encode coords: %w", err)
	}
	typeJSON, err := json.Marshal(types)
	if err != nil {
		return fmt.Errorf("save snapshot: encode types: %w", err)
	}
	labelJSON, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("save snapshot: encode labels: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO driver_route_snapshot
		(driver_id, route_addresses, route_coords, point_types, point_labels, total_time_seconds)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (driver_id) DO UPDATE
	SET route_addresses = EXCLUDED.route_addresses,
		route_coords = EXCLUDED.route_coords,
		point_types = EXCLUDED.point_types,
		point_labels = EXCLUDED.point_labels,
		total_time_seconds = EXCLUDED.total_time_seconds;
	`, driverID, addrJSON, coordJSON, typeJSON, labelJSON, snap.TotalDurationSeconds); err != nil {
		return fmt.Errorf("save snapshot: upsert driver_route_snapshot: %w", err)
	}

	return nil
}

func (s *PostgresSnapshotStore) LoadSnapshot(ctx context.Context, driverID string) (_ *domain.RouteSnapshot, err error) {
	defer obs.Time(ctx, "snapshot.store.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("snapshot store: DB is nil")
	}

	var addrJSON, coordJSON, typeJSON, labelJSON []byte
	var totalSeconds int
	err = s.DB.QueryRowContext(ctx, `
	SELECT route_addresses, route_coords, point_types, point_labels, total_time_seconds
	FROM driver_route_snapshot
	WHERE driver_id = $1;
	`, driverID).Scan(&addrJSON, &coordJSON, &typeJSON, &labelJSON, &totalSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query driver_route_snapshot: %w", err)
	}

	var addresses, types, labels []string
	var coords [][]float64
	if err := json.Unmarshal(addrJSON, &addresses); err != nil {
		return nil, fmt.Errorf("load snapshot: decode addresses: %w", err)
	}
	if err := json.Unmarshal(coordJSON, &coords); err != nil {
		return nil, fmt.Errorf("load snapshot: decode coords: %w", err)
	}
	if err := json.Unmarshal(typeJSON, &types); err != nil {
		return nil, fmt.Errorf("load snapshot: decode types: %w", err)
	}
	if err := json.Unmarshal(labelJSON, &labels); err != nil {
		return nil, fmt.Errorf("load snapshot: decode labels: %w", err)
	}

	// A row without stops or with misaligned coords is useless to the map;
	// treat it the same as no snapshot.
	if len(addresses) == 0 || len(coords) != len(addresses) {
		return nil, nil
	}

	snap := &domain.RouteSnapshot{
		Stops:                make([]domain.RouteStop, 0, len(addresses)),
		TotalDurationSeconds: totalSeconds,
	}
	for i, addr := range addresses {
		coord, ok := domain.CoordsFromList(coords[i])
		if !ok {
			return nil, fmt.Errorf("load snapshot: invalid coordinate pair for %q", addr)
		}
		stop := domain.RouteStop{Address: addr, Coord: coord}
		if i < len(types) {
			stop.Type = types[i]
		}
		if i < len(labels) {
			stop.Label = labels[i]
		}
		snap.Stops = append(snap.Stops, stop)
	}

	return snap, nil
}
