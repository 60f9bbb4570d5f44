package models

// EventType classifies tracking events appended to a container's history.
type EventType string

const (
	EventTypeCreation  EventType = "CREATION"
	EventTypeArrival   EventType = "ARRIVAL"
	EventTypeDeparture EventType = "DEPARTURE"
	EventTypeDelivered EventType = "DELIVERED"
)

var eventTypeDescriptions = map[EventType]string{
	EventTypeCreation:  "Creación del contenedor",
	EventTypeArrival:   "Llegada del contenedor",
	EventTypeDeparture: "Salida del contenedor",
	EventTypeDelivered: "Contenedor entregado",
}

func AllEventTypes() []EventType {
	return []EventType{EventTypeCreation, EventTypeArrival, EventTypeDeparture, EventTypeDelivered}
}

func ParseEventType(name string) (EventType, error) {
	t := EventType(name)
	if _, ok := eventTypeDescriptions[t]; !ok {
		return "", &InvalidEnumError{Enum: "event type", Value: name, Allowed: eventTypeNames()}
	}
	return t, nil
}

func ValidEventType(name string) bool {
	_, ok := eventTypeDescriptions[EventType(name)]
	return ok
}

func eventTypeNames() []string {
	all := AllEventTypes()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.String())
	}
	return out
}

func (t EventType) String() string      { return string(t) }
func (t EventType) Description() string { return eventTypeDescriptions[t] }

func (t EventType) IsCreation() bool  { return t == EventTypeCreation }
func (t EventType) IsArrival() bool   { return t == EventTypeArrival }
func (t EventType) IsDeparture() bool { return t == EventTypeDeparture }
func (t EventType) IsDelivered() bool { return t == EventTypeDelivered }
