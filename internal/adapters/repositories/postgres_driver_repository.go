package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"driver-console-service/internal/ports"
)

// Postgres-backed implementation of DriverStateRepository, DriverDirectory
// and AppConfigRepository over the driver_state, drivers and app_config
// tables.
type PostgresDriverRepository struct{ DB *sql.DB }

func NewPostgresDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{DB: db}
}

func (r *PostgresDriverRepository) GetState(ctx context.Context, driverID string) (ports.DriverState, bool, error) {
	if r.DB == nil {
		return ports.DriverState{}, false, errors.New("driver repository: DB is nil")
	}

	var state ports.DriverState
	err := r.DB.QueryRowContext(ctx, `
	SELECT current_loc, empty_seats FROM driver_state WHERE driver_id = $1;
	`, driverID).Scan(&state.CurrentLoc, &state.EmptySeats)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DriverState{}, false, nil
	}
	if err != nil {
		return ports.DriverState{}, false, fmt.Errorf("get driver state: %w", err)
	}

	return state, true, nil
}

// SetCurrentLocation upserts so a brand-new driver gets a state row on
// first use instead of a silent no-op.
func (r *PostgresDriverRepository) SetCurrentLocation(ctx context.Context, driverID, loc string) error {
	if r.DB == nil {
		return errors.New("driver repository: DB is nil")
	}

	if _, err := r.DB.ExecContext(ctx, `
	INSERT INTO driver_state (driver_id, current_loc)
	VALUES ($1, $2)
	ON CONFLICT (driver_id) DO UPDATE SET current_loc = EXCLUDED.current_loc;
	`, driverID, loc); err != nil {
		return fmt.Errorf("set current location: %w", err)
	}
	return nil
}

func (r *PostgresDriverRepository) SetEmptySeats(ctx context.Context, driverID string, seats int) error {
	if r.DB == nil {
		return errors.New("driver repository: DB is nil")
	}

	if _, err := r.DB.ExecContext(ctx, `
	INSERT INTO driver_state (driver_id, empty_seats)
	VALUES ($1, $2)
	ON CONFLICT (driver_id) DO UPDATE SET empty_seats = EXCLUDED.empty_seats;
	`, driverID, seats); err != nil {
		return fmt.Errorf("set empty seats: %w", err)
	}
	return nil
}

func (r *PostgresDriverRepository) GetProfile(ctx context.Context, driverID string) (ports.DriverProfile, bool, error) {
	if r.DB == nil {
		return ports.DriverProfile{}, false, errors.New("driver repository: DB is nil")
	}

	var profile ports.DriverProfile
	err := r.DB.QueryRowContext(ctx, `
	SELECT name, plate_number FROM drivers WHERE id = $1;
	`, driverID).Scan(&profile.Name, &profile.PlateNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DriverProfile{}, false, nil
	}
	if err != nil {
		return ports.DriverProfile{}, false, fmt.Errorf("get driver profile: %w", err)
	}

	return profile, true, nil
}

func (r *PostgresDriverRepository) Load(ctx context.Context) (map[string]string, error) {
	if r.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT key, value FROM app_config;`)
	if err != nil {
		return nil, fmt.Errorf("load app config: query app_config: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("load app config: scan row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load app config: row iteration: %w", err)
	}

	return out, nil
}
