package pglogistics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const orderColumns = `id, customer_id, logistics_id, shipping_address, order_date, status, total_price, order_items`

func scanOrder(row pgx.Row) (models.OrderResource, error) {
	var o models.OrderResource
	var items []byte
	if err := row.Scan(
		&o.OrderID, &o.CustomerID, &o.LogisticsID, &o.ShippingAddress,
		&o.OrderDate, &o.Status, &o.TotalPrice, &items,
	); err != nil {
		return models.OrderResource{}, err
	}
	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return models.OrderResource{}, errors.Wrap(err, "decode order items")
	}
	return o, nil
}

func (s *Storage) CreateOrder(ctx context.Context, o models.OrderResource) error {
	items, err := json.Marshal(o.OrderItems)
	if err != nil {
		return errors.Wrap(err, "encode order items")
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
INSERT INTO orders (
  id, customer_id, logistics_id, shipping_address, order_date, status, total_price, order_items, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
`, o.OrderID, o.CustomerID, o.LogisticsID, o.ShippingAddress, o.OrderDate, o.Status, o.TotalPrice, items, now)
	return errors.Wrap(err, "insert order")
}

func (s *Storage) GetOrder(ctx context.Context, orderID string) (models.OrderResource, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderResource{}, ErrNotFound
	}
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "select order")
	}
	return o, nil
}

func (s *Storage) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.OrderResource, error) {
	return s.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY order_date DESC`, customerID)
}

func (s *Storage) ListOrdersByLogistics(ctx context.Context, logisticsID string) ([]models.OrderResource, error) {
	return s.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE logistics_id = $1 ORDER BY order_date DESC`, logisticsID)
}

func (s *Storage) listOrders(ctx context.Context, query string, args ...any) ([]models.OrderResource, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	var out []models.OrderResource
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) UpdateOrderStatus(ctx context.Context, orderID, status string) (models.OrderResource, error) {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, orderID, status)
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "update order status")
	}
	if tag.RowsAffected() == 0 {
		return models.OrderResource{}, ErrNotFound
	}
	return s.GetOrder(ctx, orderID)
}

func (s *Storage) UpdateOrderShippingAddress(ctx context.Context, orderID, address string) (models.OrderResource, error) {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET shipping_address = $2, updated_at = now() WHERE id = $1`, orderID, address)
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "update shipping address")
	}
	if tag.RowsAffected() == 0 {
		return models.OrderResource{}, ErrNotFound
	}
	return s.GetOrder(ctx, orderID)
}

// ReplaceOrderItems overwrites the item list and recomputed total inside one
// transaction. Callers compute the new list and total.
func (s *Storage) ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItemResource, total float64) (models.OrderResource, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "encode order items")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE orders SET order_items = $2, total_price = $3, updated_at = now() WHERE id = $1
`, orderID, b, total)
	if err != nil {
		return models.OrderResource{}, errors.Wrap(err, "replace order items")
	}
	if tag.RowsAffected() == 0 {
		return models.OrderResource{}, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return models.OrderResource{}, errors.Wrap(err, "commit tx")
	}
	return s.GetOrder(ctx, orderID)
}
