package tracking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/broker/messages"
	"github.com/QuipuLog/CargoTrail/internal/cache"
	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/pkg/errors"
)

// OrderTracking is the complete tracking view for one order.
type OrderTracking struct {
	Order      models.Order
	Containers []models.Container
	Routes     []models.Route
	Events     []models.TrackingEvent
}

// ContainerTracking is the tracking view for one container.
type ContainerTracking struct {
	Container models.Container
	Events    []models.TrackingEvent
	Route     *models.Route
}

// RouteTracking is the tracking view for one route.
type RouteTracking struct {
	Route      models.Route
	Containers []models.Container
	Events     []models.TrackingEvent
}

// Service wraps the tracking endpoints. The current container state is
// cached; the live feed keeps the cache fresh through ApplyUpdate.
type Service struct {
	api        backend.Caller
	cache      cache.BytesCache
	currentTTL time.Duration
}

func New(api backend.Caller, c cache.BytesCache, currentTTL time.Duration) *Service {
	return &Service{api: api, cache: c, currentTTL: currentTTL}
}

type orderTrackingResponse struct {
	Order      models.OrderResource           `json:"order"`
	Containers []models.ContainerResource     `json:"containers"`
	Routes     []models.RouteResource         `json:"routes"`
	Events     []models.TrackingEventResource `json:"events"`
}

func (s *Service) GetOrderTracking(ctx context.Context, orderID string) (OrderTracking, error) {
	if orderID == "" {
		return OrderTracking{}, &models.ValidationError{Field: "orderId", Reason: "required"}
	}
	var res orderTrackingResponse
	if err := s.api.Get(ctx, "/tracking/orders/"+orderID, nil, &res); err != nil {
		slog.Error("fetch order tracking", "orderId", orderID, "err", err)
		return OrderTracking{}, err
	}

	order, err := models.NewOrder(res.Order)
	if err != nil {
		return OrderTracking{}, err
	}
	events, err := mapEvents(res.Events)
	if err != nil {
		return OrderTracking{}, err
	}
	return OrderTracking{
		Order:      order,
		Containers: mapContainers(res.Containers),
		Routes:     mapRoutes(res.Routes),
		Events:     events,
	}, nil
}

type containerTrackingResponse struct {
	Container models.ContainerResource        `json:"container"`
	Events    []models.TrackingEventResource  `json:"events"`
	Route     *models.RouteResource           `json:"route,omitempty"`
}

func (s *Service) GetContainerTracking(ctx context.Context, containerID string) (ContainerTracking, error) {
	if containerID == "" {
		return ContainerTracking{}, &models.ValidationError{Field: "containerId", Reason: "required"}
	}
	var res containerTrackingResponse
	if err := s.api.Get(ctx, "/tracking/containers/"+containerID, nil, &res); err != nil {
		slog.Error("fetch container tracking", "containerId", containerID, "err", err)
		return ContainerTracking{}, err
	}

	events, err := mapEvents(res.Events)
	if err != nil {
		return ContainerTracking{}, err
	}
	out := ContainerTracking{
		Container: models.NewContainer(res.Container),
		Events:    events,
	}
	if res.Route != nil {
		route := models.NewRoute(*res.Route)
		out.Route = &route
	}
	s.cacheContainer(ctx, res.Container)
	return out, nil
}

// GetContainer returns the current container state, cache first.
func (s *Service) GetContainer(ctx context.Context, containerID string) (models.Container, error) {
	if containerID == "" {
		return models.Container{}, &models.ValidationError{Field: "containerId", Reason: "required"}
	}
	if s.cache != nil && s.currentTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, currentKey(containerID)); err == nil && ok {
			var res models.ContainerResource
			if json.Unmarshal(b, &res) == nil {
				return models.NewContainer(res), nil
			}
		}
	}

	var res models.ContainerResource
	if err := s.api.Get(ctx, "/tracking/containers/"+containerID+"/current", nil, &res); err != nil {
		slog.Error("fetch container", "containerId", containerID, "err", err)
		return models.Container{}, err
	}
	s.cacheContainer(ctx, res)
	return models.NewContainer(res), nil
}

type routeTrackingResponse struct {
	Route      models.RouteResource           `json:"route"`
	Containers []models.ContainerResource     `json:"containers"`
	Events     []models.TrackingEventResource `json:"events"`
}

func (s *Service) GetRouteTracking(ctx context.Context, routeID string) (RouteTracking, error) {
	if routeID == "" {
		return RouteTracking{}, &models.ValidationError{Field: "routeId", Reason: "required"}
	}
	var res routeTrackingResponse
	if err := s.api.Get(ctx, "/tracking/routes/"+routeID, nil, &res); err != nil {
		slog.Error("fetch route tracking", "routeId", routeID, "err", err)
		return RouteTracking{}, err
	}
	events, err := mapEvents(res.Events)
	if err != nil {
		return RouteTracking{}, err
	}
	return RouteTracking{
		Route:      models.NewRoute(res.Route),
		Containers: mapContainers(res.Containers),
		Events:     events,
	}, nil
}

func (s *Service) GetOrderEvents(ctx context.Context, orderID string) ([]models.TrackingEvent, error) {
	var res []models.TrackingEventResource
	if err := s.api.Get(ctx, "/tracking/orders/"+orderID+"/events", nil, &res); err != nil {
		slog.Error("fetch order events", "orderId", orderID, "err", err)
		return nil, err
	}
	return mapEvents(res)
}

// CreateEvent appends one immutable event to a container's history. The
// event type is validated before the call goes out.
func (s *Service) CreateEvent(ctx context.Context, req models.CreateTrackingEventResource) (models.TrackingEvent, error) {
	if _, err := models.ParseEventType(req.Type); err != nil {
		return models.TrackingEvent{}, err
	}
	if req.ContainerID == "" {
		return models.TrackingEvent{}, &models.ValidationError{Field: "containerId", Reason: "required"}
	}
	var res models.TrackingEventResource
	if err := s.api.Post(ctx, "/tracking/events", req, &res); err != nil {
		slog.Error("create tracking event", "containerId", req.ContainerID, "err", err)
		return models.TrackingEvent{}, err
	}
	return models.NewTrackingEvent(res)
}

func (s *Service) GetContainersByWarehouse(ctx context.Context, warehouseID string) ([]models.Container, error) {
	var res []models.ContainerResource
	if err := s.api.Get(ctx, "/tracking/warehouses/"+warehouseID+"/containers", nil, &res); err != nil {
		slog.Error("fetch containers by warehouse", "warehouseId", warehouseID, "err", err)
		return nil, err
	}
	return mapContainers(res), nil
}

func (s *Service) GetActiveRoutes(ctx context.Context) ([]models.Route, error) {
	var res []models.RouteResource
	if err := s.api.Get(ctx, "/tracking/routes/active", nil, &res); err != nil {
		slog.Error("fetch active routes", "err", err)
		return nil, err
	}
	return mapRoutes(res), nil
}

func (s *Service) UpdateContainerLocation(ctx context.Context, containerID, warehouseID string) (models.Container, error) {
	if warehouseID == "" {
		return models.Container{}, &models.ValidationError{Field: "warehouseId", Reason: "required"}
	}
	var res models.ContainerResource
	body := map[string]string{"warehouseId": warehouseID}
	if err := s.api.Patch(ctx, "/tracking/containers/"+containerID+"/location", body, &res); err != nil {
		slog.Error("update container location", "containerId", containerID, "err", err)
		return models.Container{}, err
	}
	s.cacheContainer(ctx, res)
	return models.NewContainer(res), nil
}

func (s *Service) CompleteContainer(ctx context.Context, containerID string, req models.CompleteContainerResource) (models.Container, error) {
	if req.DeliveryWarehouseID == "" {
		return models.Container{}, &models.ValidationError{Field: "deliveryWarehouseId", Reason: "required"}
	}
	var res models.ContainerResource
	if err := s.api.Post(ctx, "/tracking/containers/"+containerID+"/complete", req, &res); err != nil {
		slog.Error("complete container", "containerId", containerID, "err", err)
		return models.Container{}, err
	}
	s.cacheContainer(ctx, res)
	return models.NewContainer(res), nil
}

// ApplyUpdate processes one live-feed message: the cached state for the
// container is dropped and re-fetched best effort.
func (s *Service) ApplyUpdate(ctx context.Context, msg messages.ContainerUpdated) error {
	if msg.ContainerID == "" {
		return errors.New("container_id is required")
	}
	if s.cache == nil || s.currentTTL <= 0 {
		return nil
	}
	if err := s.cache.Del(ctx, currentKey(msg.ContainerID)); err != nil {
		return err
	}

	var res models.ContainerResource
	if err := s.api.Get(ctx, "/tracking/containers/"+msg.ContainerID+"/current", nil, &res); err != nil {
		// The next read repopulates the cache.
		slog.Warn("refresh container after update", "containerId", msg.ContainerID, "err", err)
		return nil
	}
	s.cacheContainer(ctx, res)
	return nil
}

func (s *Service) cacheContainer(ctx context.Context, res models.ContainerResource) {
	if s.cache == nil || s.currentTTL <= 0 || res.ContainerID == "" {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, currentKey(res.ContainerID), b, s.currentTTL)
}

func mapContainers(res []models.ContainerResource) []models.Container {
	out := make([]models.Container, 0, len(res))
	for _, r := range res {
		out = append(out, models.NewContainer(r))
	}
	return out
}

func mapRoutes(res []models.RouteResource) []models.Route {
	out := make([]models.Route, 0, len(res))
	for _, r := range res {
		out = append(out, models.NewRoute(r))
	}
	return out
}

func mapEvents(res []models.TrackingEventResource) ([]models.TrackingEvent, error) {
	out := make([]models.TrackingEvent, 0, len(res))
	for _, r := range res {
		e, err := models.NewTrackingEvent(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func currentKey(containerID string) string {
	return "container:" + containerID + ":current"
}
