package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the console schema: the five shared tables the console and
// the dispatch side read and write.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		plate_number TEXT NOT NULL DEFAULT ''
	);
	`

	createDriverStateQuery := `
	CREATE TABLE IF NOT EXISTS driver_state (
		driver_id TEXT PRIMARY KEY,
		current_loc TEXT NOT NULL DEFAULT '',
		empty_seats INTEGER NOT NULL DEFAULT 0
	);
	`

	createOrderPoolQuery := `
	CREATE TABLE IF NOT EXISTS order_pool (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		pickup TEXT NOT NULL DEFAULT '',
		delivery TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		assigned_driver_id TEXT
	);
	`

	createAppConfigQuery := `
	CREATE TABLE IF NOT EXISTS app_config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);
	`

	createSnapshotQuery := `
	CREATE TABLE IF NOT EXISTS driver_route_snapshot (
		driver_id TEXT PRIMARY KEY,
		route_addresses JSONB NOT NULL DEFAULT '[]',
		route_coords JSONB NOT NULL DEFAULT '[]',
		point_types JSONB NOT NULL DEFAULT '[]',
		point_labels JSONB NOT NULL DEFAULT '[]',
		total_time_seconds INTEGER NOT NULL DEFAULT 0
	);
	`

	createOrderIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_order_pool_driver_status
	ON order_pool(assigned_driver_id, status);
	`

	statements := []string{
		createDriversQuery,
		createDriverStateQuery,
		createOrderPoolQuery,
		createAppConfigQuery,
		createSnapshotQuery,
		createOrderIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type driverSeed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	CurrentLoc  string `json:"current_loc"`
	EmptySeats  int    `json:"empty_seats"`
}

type orderSeed struct {
	Pickup           string `json:"pickup"`
	Delivery         string `json:"delivery"`
	Status           string `json:"status"`
	AssignedDriverID string `json:"assigned_driver_id"`
}

type consoleSeed struct {
	Drivers   []driverSeed      `json:"drivers"`
	AppConfig map[string]string `json:"app_config"`
	OrderPool []orderSeed       `json:"order_pool"`
}

// Populate the console tables from a JSON seed file for local runs.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed console: read %q: %w", jsonPath, err)
	}

	var seed consoleSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed console: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed console: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, d := range seed.Drivers {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("seed console: driver at index %d has empty id", i)
		}

		if _, err := tx.Exec(`
			INSERT INTO drivers (id, name, plate_number)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, plate_number = EXCLUDED.plate_number;
		`, d.ID, d.Name, d.PlateNumber); err != nil {
			return fmt.Errorf("seed console: insert driver %q: %w", d.ID, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO driver_state (driver_id, current_loc, empty_seats)
			VALUES ($1, $2, $3)
			ON CONFLICT (driver_id) DO UPDATE
			SET current_loc = EXCLUDED.current_loc, empty_seats = EXCLUDED.empty_seats;
		`, d.ID, d.CurrentLoc, d.EmptySeats); err != nil {
			return fmt.Errorf("seed console: insert driver_state %q: %w", d.ID, err)
		}
	}

	for key, value := range seed.AppConfig {
		if _, err := tx.Exec(`
			INSERT INTO app_config (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
		`, key, value); err != nil {
			return fmt.Errorf("seed console: insert app_config %q: %w", key, err)
		}
	}

	for i, o := range seed.OrderPool {
		status := o.Status
		if status == "" {
			status = "pending"
		}

		var assigned any
		if strings.TrimSpace(o.AssignedDriverID) != "" {
			assigned = o.AssignedDriverID
		}

		if _, err := tx.Exec(`
			INSERT INTO order_pool (pickup, delivery, status, assigned_driver_id)
			VALUES ($1, $2, $3, $4);
		`, o.Pickup, o.Delivery, status, assigned); err != nil {
			return fmt.Errorf("seed console: insert order at index %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed console: commit tx: %w", err)
	}

	return nil
}
