package pglogistics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const routeColumns = `id, vehicle_id, route_name, planned_start_date, description, is_active, route_items, order_ids, created_at`

func scanRoute(row pgx.Row) (models.RouteResource, []string, error) {
	var r models.RouteResource
	var items []byte
	var orderIDs []byte
	if err := row.Scan(
		&r.RouteID, &r.VehicleID, &r.RouteName, &r.PlannedStartDate,
		&r.Description, &r.IsActive, &items, &orderIDs, &r.CreatedAt,
	); err != nil {
		return models.RouteResource{}, nil, err
	}
	if err := json.Unmarshal(items, &r.RouteItems); err != nil {
		return models.RouteResource{}, nil, errors.Wrap(err, "decode route items")
	}
	var ids []string
	if err := json.Unmarshal(orderIDs, &ids); err != nil {
		return models.RouteResource{}, nil, errors.Wrap(err, "decode order ids")
	}
	return r, ids, nil
}

// attachOrders fills the order summaries from the orders table.
func (s *Storage) attachOrders(ctx context.Context, r *models.RouteResource, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	rows, err := s.db.Query(ctx, `SELECT id, status FROM orders WHERE id = ANY($1)`, orderIDs)
	if err != nil {
		return errors.Wrap(err, "select route orders")
	}
	defer rows.Close()

	for rows.Next() {
		var o models.OrderSummaryResource
		if err := rows.Scan(&o.OrderID, &o.Status); err != nil {
			return errors.Wrap(err, "scan route order")
		}
		r.Orders = append(r.Orders, o)
	}
	return errors.Wrap(rows.Err(), "rows")
}

func (s *Storage) CreateRoute(ctx context.Context, r models.RouteResource, orderIDs []string) error {
	items, err := json.Marshal(r.RouteItems)
	if err != nil {
		return errors.Wrap(err, "encode route items")
	}
	ids, err := json.Marshal(orderIDs)
	if err != nil {
		return errors.Wrap(err, "encode order ids")
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
INSERT INTO routes (
  id, vehicle_id, route_name, planned_start_date, description, is_active, route_items, order_ids, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
`, r.RouteID, r.VehicleID, r.RouteName, r.PlannedStartDate, r.Description, r.IsActive, items, ids, now)
	return errors.Wrap(err, "insert route")
}

func (s *Storage) GetRoute(ctx context.Context, routeID string) (models.RouteResource, error) {
	row := s.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = $1`, routeID)
	r, orderIDs, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RouteResource{}, ErrNotFound
	}
	if err != nil {
		return models.RouteResource{}, errors.Wrap(err, "select route")
	}
	if err := s.attachOrders(ctx, &r, orderIDs); err != nil {
		return models.RouteResource{}, err
	}
	return r, nil
}

func (s *Storage) ListRoutes(ctx context.Context) ([]models.RouteResource, error) {
	return s.listRoutes(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY created_at DESC`)
}

func (s *Storage) ListActiveRoutes(ctx context.Context) ([]models.RouteResource, error) {
	return s.listRoutes(ctx, `SELECT `+routeColumns+` FROM routes WHERE is_active ORDER BY created_at DESC`)
}

func (s *Storage) ListRoutesByVehicle(ctx context.Context, vehicleID string) ([]models.RouteResource, error) {
	return s.listRoutes(ctx, `SELECT `+routeColumns+` FROM routes WHERE vehicle_id = $1 ORDER BY created_at DESC`, vehicleID)
}

// ListRoutesByOrder finds the routes whose order list contains the order.
func (s *Storage) ListRoutesByOrder(ctx context.Context, orderID string) ([]models.RouteResource, error) {
	return s.listRoutes(ctx, `SELECT `+routeColumns+` FROM routes WHERE jsonb_exists(order_ids, $1) ORDER BY created_at DESC`, orderID)
}

func (s *Storage) listRoutes(ctx context.Context, query string, args ...any) ([]models.RouteResource, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select routes")
	}
	defer rows.Close()

	var out []models.RouteResource
	var pendingIDs [][]string
	for rows.Next() {
		r, orderIDs, err := scanRoute(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan route")
		}
		out = append(out, r)
		pendingIDs = append(pendingIDs, orderIDs)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}

	for i := range out {
		if err := s.attachOrders(ctx, &out[i], pendingIDs[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Storage) SetRouteActive(ctx context.Context, routeID string, active bool) (models.RouteResource, error) {
	tag, err := s.db.Exec(ctx, `UPDATE routes SET is_active = $2, updated_at = now() WHERE id = $1`, routeID, active)
	if err != nil {
		return models.RouteResource{}, errors.Wrap(err, "set route active")
	}
	if tag.RowsAffected() == 0 {
		return models.RouteResource{}, ErrNotFound
	}
	return s.GetRoute(ctx, routeID)
}

// CompleteRouteItem marks one stop complete inside the JSONB list. Stops may
// complete in any order.
func (s *Storage) CompleteRouteItem(ctx context.Context, routeID, routeItemID string, at time.Time) (models.RouteResource, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.RouteResource{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT route_items FROM routes WHERE id = $1 FOR UPDATE`, routeID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RouteResource{}, ErrNotFound
		}
		return models.RouteResource{}, errors.Wrap(err, "select route items")
	}

	var items []models.RouteItemResource
	if err := json.Unmarshal(raw, &items); err != nil {
		return models.RouteResource{}, errors.Wrap(err, "decode route items")
	}

	found := false
	ts := at.UTC()
	for i := range items {
		if items[i].ID == routeItemID {
			if !items[i].IsCompleted {
				items[i].IsCompleted = true
				items[i].CompletedAt = &ts
			}
			found = true
			break
		}
	}
	if !found {
		return models.RouteResource{}, ErrNotFound
	}

	b, err := json.Marshal(items)
	if err != nil {
		return models.RouteResource{}, errors.Wrap(err, "encode route items")
	}
	if _, err := tx.Exec(ctx, `UPDATE routes SET route_items = $2, updated_at = now() WHERE id = $1`, routeID, b); err != nil {
		return models.RouteResource{}, errors.Wrap(err, "update route items")
	}

	if err := tx.Commit(ctx); err != nil {
		return models.RouteResource{}, errors.Wrap(err, "commit tx")
	}
	return s.GetRoute(ctx, routeID)
}
