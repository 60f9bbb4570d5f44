package models

import (
	"time"

	"github.com/dustin/go-humanize"
)

type TrackingEventResource struct {
	EventID     string    `json:"eventId"`
	ContainerID string    `json:"containerId"`
	WarehouseID string    `json:"warehouseId"`
	Type        string    `json:"type"`
	EventTime   time.Time `json:"eventTime"`
}

type CreateTrackingEventResource struct {
	ContainerID string    `json:"containerId"`
	WarehouseID string    `json:"warehouseId"`
	Type        string    `json:"type"`
	EventTime   time.Time `json:"eventTime"`
}

// TrackingEvent is an immutable fact appended to a container's history.
// Events are never mutated or deleted.
type TrackingEvent struct {
	EventID     string
	ContainerID string
	WarehouseID string
	Type        EventType
	EventTime   time.Time
}

// NewTrackingEvent resolves the raw type through the EventType enumeration;
// unresolvable type strings fail construction.
func NewTrackingEvent(res TrackingEventResource) (TrackingEvent, error) {
	t, err := ParseEventType(res.Type)
	if err != nil {
		return TrackingEvent{}, err
	}
	return TrackingEvent{
		EventID:     res.EventID,
		ContainerID: res.ContainerID,
		WarehouseID: res.WarehouseID,
		Type:        t,
		EventTime:   res.EventTime,
	}, nil
}

func (e TrackingEvent) IsCreationEvent() bool  { return e.Type.IsCreation() }
func (e TrackingEvent) IsArrivalEvent() bool   { return e.Type.IsArrival() }
func (e TrackingEvent) IsDepartureEvent() bool { return e.Type.IsDeparture() }
func (e TrackingEvent) IsDeliveryEvent() bool  { return e.Type.IsDelivered() }

var eventColors = map[EventType]string{
	EventTypeCreation:  "#4CAF50",
	EventTypeArrival:   "#9C27B0",
	EventTypeDeparture: "#607D8B",
	EventTypeDelivered: "#8BC34A",
}

var eventIcons = map[EventType]string{
	EventTypeCreation:  "add_circle",
	EventTypeArrival:   "warehouse",
	EventTypeDeparture: "exit_to_app",
	EventTypeDelivered: "check_circle",
}

func (e TrackingEvent) Color() string {
	if c, ok := eventColors[e.Type]; ok {
		return c
	}
	return "#757575"
}

func (e TrackingEvent) Icon() string {
	if i, ok := eventIcons[e.Type]; ok {
		return i
	}
	return "event"
}

func (e TrackingEvent) FormattedTime() string {
	return e.EventTime.Format("2 January 2006 15:04")
}

func (e TrackingEvent) ShortFormattedTime() string {
	return e.EventTime.Format("2 Jan 15:04")
}

// TimeAgo renders the elapsed time since the event ("3 hours ago").
func (e TrackingEvent) TimeAgo() string {
	return humanize.Time(e.EventTime)
}

func (e TrackingEvent) ToResource() TrackingEventResource {
	return TrackingEventResource{
		EventID:     e.EventID,
		ContainerID: e.ContainerID,
		WarehouseID: e.WarehouseID,
		Type:        e.Type.String(),
		EventTime:   e.EventTime,
	}
}
