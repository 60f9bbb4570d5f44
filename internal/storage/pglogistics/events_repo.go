package pglogistics

import (
	"context"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/pkg/errors"
)

// InsertEvent appends one tracking event. Events are append-only; there is no
// update or delete path.
func (s *Storage) InsertEvent(ctx context.Context, e models.TrackingEventResource) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO tracking_events (id, container_id, warehouse_id, event_type, event_time, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, e.EventID, e.ContainerID, e.WarehouseID, e.Type, e.EventTime.UTC(), time.Now().UTC())
	return errors.Wrap(err, "insert tracking event")
}

func (s *Storage) ListEventsByContainer(ctx context.Context, containerID string) ([]models.TrackingEventResource, error) {
	return s.listEvents(ctx, `
SELECT id, container_id, warehouse_id, event_type, event_time
FROM tracking_events
WHERE container_id = $1
ORDER BY event_time DESC
`, containerID)
}

// ListEventsByOrder joins through the order's containers.
func (s *Storage) ListEventsByOrder(ctx context.Context, orderID string) ([]models.TrackingEventResource, error) {
	return s.listEvents(ctx, `
SELECT e.id, e.container_id, e.warehouse_id, e.event_type, e.event_time
FROM tracking_events e
JOIN containers c ON c.id = e.container_id
WHERE c.order_id = $1
ORDER BY e.event_time DESC
`, orderID)
}

func (s *Storage) listEvents(ctx context.Context, query string, args ...any) ([]models.TrackingEventResource, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}
	defer rows.Close()

	var out []models.TrackingEventResource
	for rows.Next() {
		var e models.TrackingEventResource
		if err := rows.Scan(&e.EventID, &e.ContainerID, &e.WarehouseID, &e.Type, &e.EventTime); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
