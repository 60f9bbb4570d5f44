package logisticsapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/broker/messages"
	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/google/uuid"
)

type orderTrackingResponse struct {
	Order      models.OrderResource           `json:"order"`
	Containers []models.ContainerResource     `json:"containers"`
	Routes     []models.RouteResource         `json:"routes"`
	Events     []models.TrackingEventResource `json:"events"`
}

func (a *API) handleOrderTracking(w http.ResponseWriter, r *http.Request) {
	orderID := pathParam(r, "orderId")
	order, err := a.store.GetOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	containers, err := a.store.ListContainersByOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	routes, err := a.store.ListRoutesByOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	events, err := a.store.ListEventsByOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderTrackingResponse{
		Order:      order,
		Containers: emptyIfNil(containers),
		Routes:     emptyIfNil(routes),
		Events:     emptyIfNil(events),
	})
}

func (a *API) handleOrderEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.store.ListEventsByOrder(r.Context(), pathParam(r, "orderId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(events))
}

type containerTrackingResponse struct {
	Container models.ContainerResource       `json:"container"`
	Events    []models.TrackingEventResource `json:"events"`
}

func (a *API) handleContainerTracking(w http.ResponseWriter, r *http.Request) {
	containerID := pathParam(r, "containerId")
	c, err := a.store.GetContainer(r.Context(), containerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	events, err := a.store.ListEventsByContainer(r.Context(), containerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containerTrackingResponse{
		Container: c,
		Events:    emptyIfNil(events),
	})
}

func (a *API) handleCurrentContainer(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.GetContainer(r.Context(), pathParam(r, "containerId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) handleContainerLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WarehouseID string `json:"warehouseId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.WarehouseID == "" {
		writeError(w, http.StatusBadRequest, "warehouseId is required")
		return
	}
	c, err := a.store.UpdateContainerWarehouse(r.Context(), pathParam(r, "containerId"), req.WarehouseID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) handleCompleteContainer(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteContainerResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DeliveryWarehouseID == "" {
		writeError(w, http.StatusBadRequest, "deliveryWarehouseId is required")
		return
	}
	at := time.Now().UTC()
	if req.DeliveryDate != nil {
		at = req.DeliveryDate.UTC()
	}

	containerID := pathParam(r, "containerId")
	c, err := a.store.CompleteContainer(r.Context(), containerID, req.DeliveryWarehouseID, req.DeliveryNotes, at)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	ev := models.TrackingEventResource{
		EventID:     uuid.NewString(),
		ContainerID: containerID,
		WarehouseID: req.DeliveryWarehouseID,
		Type:        models.EventTypeDelivered.String(),
		EventTime:   at,
	}
	if err := a.store.InsertEvent(r.Context(), ev); err != nil {
		writeStoreError(w, err)
		return
	}
	a.publishContainerUpdate(r, c, ev)

	writeJSON(w, http.StatusOK, c)
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrackingEventResource
	if !decodeBody(w, r, &req) {
		return
	}
	eventType, err := models.ParseEventType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ContainerID == "" {
		writeError(w, http.StatusBadRequest, "containerId is required")
		return
	}

	c, err := a.store.GetContainer(r.Context(), req.ContainerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	at := req.EventTime
	if at.IsZero() {
		at = time.Now().UTC()
	}
	ev := models.TrackingEventResource{
		EventID:     uuid.NewString(),
		ContainerID: req.ContainerID,
		WarehouseID: req.WarehouseID,
		Type:        eventType.String(),
		EventTime:   at,
	}
	if err := a.store.InsertEvent(r.Context(), ev); err != nil {
		writeStoreError(w, err)
		return
	}

	if req.WarehouseID != "" && req.WarehouseID != c.WarehouseID {
		if moved, err := a.store.UpdateContainerWarehouse(r.Context(), req.ContainerID, req.WarehouseID); err == nil {
			c = moved
		}
	}
	a.publishContainerUpdate(r, c, ev)

	writeJSON(w, http.StatusCreated, ev)
}

func (a *API) handleWarehouseContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := a.store.ListContainersByWarehouse(r.Context(), pathParam(r, "warehouseId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(containers))
}

func (a *API) handleActiveRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := a.store.ListActiveRoutes(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(routes))
}

type routeTrackingResponse struct {
	Route      models.RouteResource           `json:"route"`
	Containers []models.ContainerResource     `json:"containers"`
	Events     []models.TrackingEventResource `json:"events"`
}

func (a *API) handleRouteTracking(w http.ResponseWriter, r *http.Request) {
	route, err := a.store.GetRoute(r.Context(), pathParam(r, "routeId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	var containers []models.ContainerResource
	var events []models.TrackingEventResource
	for _, o := range route.Orders {
		cs, err := a.store.ListContainersByOrder(r.Context(), o.OrderID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		containers = append(containers, cs...)
		evs, err := a.store.ListEventsByOrder(r.Context(), o.OrderID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		events = append(events, evs...)
	}
	writeJSON(w, http.StatusOK, routeTrackingResponse{
		Route:      route,
		Containers: emptyIfNil(containers),
		Events:     emptyIfNil(events),
	})
}

// publishContainerUpdate is best effort: a broker outage must not fail the
// write that already committed.
func (a *API) publishContainerUpdate(r *http.Request, c models.ContainerResource, ev models.TrackingEventResource) {
	if a.producer == nil {
		return
	}
	msg := messages.ContainerUpdated{
		ContainerID: c.ContainerID,
		OrderID:     c.OrderID,
		WarehouseID: c.WarehouseID,
		EventID:     ev.EventID,
		EventType:   ev.Type,
		EventTime:   ev.EventTime,
		IsCompleted: c.IsCompleted,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encode container update", "err", err)
		return
	}
	if err := a.producer.Publish(r.Context(), a.containerTopic, []byte(c.ContainerID), b); err != nil {
		slog.Warn("publish container update", "containerId", c.ContainerID, "err", err)
	}
}

func emptyIfNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
