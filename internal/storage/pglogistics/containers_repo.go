package pglogistics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const containerColumns = `id, order_id, warehouse_id, ship_items, total_weight, qr_code, is_completed, completed_at, completion_notes`

func scanContainer(row pgx.Row) (models.ContainerResource, error) {
	var c models.ContainerResource
	var items []byte
	var qr []byte
	if err := row.Scan(
		&c.ContainerID, &c.OrderID, &c.WarehouseID, &items, &c.TotalWeight,
		&qr, &c.IsCompleted, &c.CompletedAt, &c.CompletionNotes,
	); err != nil {
		return models.ContainerResource{}, err
	}
	if err := json.Unmarshal(items, &c.ShipItems); err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "decode ship items")
	}
	if len(qr) > 0 {
		if err := json.Unmarshal(qr, &c.QrCode); err != nil {
			return models.ContainerResource{}, errors.Wrap(err, "decode qr code")
		}
	}
	return c, nil
}

func (s *Storage) CreateContainer(ctx context.Context, c models.ContainerResource) error {
	items, err := json.Marshal(c.ShipItems)
	if err != nil {
		return errors.Wrap(err, "encode ship items")
	}
	var qr []byte
	if c.QrCode != nil {
		qr, err = json.Marshal(c.QrCode)
		if err != nil {
			return errors.Wrap(err, "encode qr code")
		}
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
INSERT INTO containers (
  id, order_id, warehouse_id, ship_items, total_weight, qr_code, is_completed, completed_at, completion_notes, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
`, c.ContainerID, c.OrderID, c.WarehouseID, items, c.TotalWeight, qr, c.IsCompleted, c.CompletedAt, c.CompletionNotes, now)
	return errors.Wrap(err, "insert container")
}

func (s *Storage) GetContainer(ctx context.Context, containerID string) (models.ContainerResource, error) {
	row := s.db.QueryRow(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, containerID)
	c, err := scanContainer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ContainerResource{}, ErrNotFound
	}
	if err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "select container")
	}
	return c, nil
}

func (s *Storage) ListContainersByOrder(ctx context.Context, orderID string) ([]models.ContainerResource, error) {
	return s.listContainers(ctx, `SELECT `+containerColumns+` FROM containers WHERE order_id = $1 ORDER BY created_at`, orderID)
}

func (s *Storage) ListContainersByWarehouse(ctx context.Context, warehouseID string) ([]models.ContainerResource, error) {
	return s.listContainers(ctx, `SELECT `+containerColumns+` FROM containers WHERE warehouse_id = $1 AND NOT is_completed ORDER BY created_at`, warehouseID)
}

func (s *Storage) listContainers(ctx context.Context, query string, args ...any) ([]models.ContainerResource, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select containers")
	}
	defer rows.Close()

	var out []models.ContainerResource
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan container")
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) UpdateContainerWarehouse(ctx context.Context, containerID, warehouseID string) (models.ContainerResource, error) {
	tag, err := s.db.Exec(ctx, `
UPDATE containers SET warehouse_id = $2, updated_at = now() WHERE id = $1 AND NOT is_completed
`, containerID, warehouseID)
	if err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "update container warehouse")
	}
	if tag.RowsAffected() == 0 {
		return models.ContainerResource{}, ErrNotFound
	}
	return s.GetContainer(ctx, containerID)
}

// CompleteContainer is one-way: a second completion leaves the row untouched
// and returns the stored state.
func (s *Storage) CompleteContainer(ctx context.Context, containerID, warehouseID, notes string, at time.Time) (models.ContainerResource, error) {
	_, err := s.db.Exec(ctx, `
UPDATE containers
SET
  warehouse_id = $2,
  is_completed = TRUE,
  completed_at = $3,
  completion_notes = $4,
  updated_at = now()
WHERE id = $1 AND NOT is_completed
`, containerID, warehouseID, at.UTC(), notes)
	if err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "complete container")
	}
	return s.GetContainer(ctx, containerID)
}

func (s *Storage) SetContainerQRCode(ctx context.Context, containerID string, qr models.QrCodeResource) (models.ContainerResource, error) {
	b, err := json.Marshal(qr)
	if err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "encode qr code")
	}
	tag, err := s.db.Exec(ctx, `UPDATE containers SET qr_code = $2, updated_at = now() WHERE id = $1`, containerID, b)
	if err != nil {
		return models.ContainerResource{}, errors.Wrap(err, "set qr code")
	}
	if tag.RowsAffected() == 0 {
		return models.ContainerResource{}, ErrNotFound
	}
	return s.GetContainer(ctx, containerID)
}
