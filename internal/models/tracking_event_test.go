package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTrackingEvent(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	e, err := NewTrackingEvent(TrackingEventResource{
		EventID:     "e1",
		ContainerID: "c1",
		WarehouseID: "w1",
		Type:        EventTypeArrival.String(),
		EventTime:   at,
	})
	require.NoError(t, err)
	require.True(t, e.IsArrivalEvent())
	require.False(t, e.IsDeliveryEvent())

	_, err = NewTrackingEvent(TrackingEventResource{EventID: "e1", Type: "TELEPORTED"})
	require.Error(t, err)
	require.True(t, IsValidation(err))
}

func TestTrackingEvent_Presentation(t *testing.T) {
	e, err := NewTrackingEvent(TrackingEventResource{
		EventID:     "e1",
		ContainerID: "c1",
		Type:        EventTypeDelivered.String(),
		EventTime:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "#8BC34A", e.Color())
	require.Equal(t, "check_circle", e.Icon())
	require.Equal(t, "14 March 2026 10:30", e.FormattedTime())
	require.Equal(t, "14 Mar 10:30", e.ShortFormattedTime())
	require.NotEmpty(t, e.TimeAgo())

	// An unmapped type falls back to neutral presentation.
	unknown := TrackingEvent{Type: EventType("OTHER")}
	require.Equal(t, "#757575", unknown.Color())
	require.Equal(t, "event", unknown.Icon())
}

func TestEventTypeDescriptions(t *testing.T) {
	for _, et := range AllEventTypes() {
		require.NotEmpty(t, et.Description())
	}
}
