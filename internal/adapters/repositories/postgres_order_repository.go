package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"driver-console-service/internal/ports"
)

// Postgres-backed implementation of the OrderRepository port over the
// shared order_pool table.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// List the driver's assigned orders in id order, matching the order the
// console shows its passenger rows in.
func (r *PostgresOrderRepository) ListAssigned(ctx context.Context, driverID string) ([]ports.AssignedOrder, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT id, pickup, delivery
	FROM order_pool
	WHERE assigned_driver_id = $1 AND status = 'assigned'
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("list assigned orders: query order_pool: %w", err)
	}
	defer rows.Close()

	orders := make([]ports.AssignedOrder, 0, 8)
	for rows.Next() {
		var o ports.AssignedOrder
		if err := rows.Scan(&o.ID, &o.Pickup, &o.Delivery); err != nil {
			return nil, fmt.Errorf("list assigned orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assigned orders: row iteration: %w", err)
	}

	return orders, nil
}

func (r *PostgresOrderRepository) UpdateAddresses(ctx context.Context, orderID, pickup, delivery string) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
	UPDATE order_pool SET pickup = $2, delivery = $3 WHERE id = $1;
	`, orderID, pickup, delivery)
	if err != nil {
		return fmt.Errorf("update order addresses id=%q: %w", orderID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update order addresses: no order with id %q", orderID)
	}
	return nil
}

// CompleteOrder releases the order: completed orders leave the driver's
// plate so a freed seat can be matched again.
func (r *PostgresOrderRepository) CompleteOrder(ctx context.Context, orderID string) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	if _, err := r.DB.ExecContext(ctx, `
	UPDATE order_pool
	SET status = 'completed', assigned_driver_id = NULL
	WHERE id = $1;
	`, orderID); err != nil {
		return fmt.Errorf("complete order id=%q: %w", orderID, err)
	}
	return nil
}

func (r *PostgresOrderRepository) FindAssignedByDelivery(ctx context.Context, driverID, delivery string) (string, bool, error) {
	if r.DB == nil {
		return "", false, errors.New("order repository: DB is nil")
	}

	var id string
	err := r.DB.QueryRowContext(ctx, `
	SELECT id
	FROM order_pool
	WHERE assigned_driver_id = $1 AND status = 'assigned' AND delivery = $2
	ORDER BY id
	LIMIT 1;
	`, driverID, delivery).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find assigned order by delivery %q: %w", delivery, err)
	}

	return id, true, nil
}
