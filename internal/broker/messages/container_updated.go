package messages

import "time"

// ContainerUpdated is published on the container.updated topic whenever a
// tracking event is appended to a container.
type ContainerUpdated struct {
	ContainerID string    `json:"container_id"`
	OrderID     string    `json:"order_id,omitempty"`
	WarehouseID string    `json:"warehouse_id"`
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	EventTime   time.Time `json:"event_time"`
	IsCompleted bool      `json:"is_completed"`
}
