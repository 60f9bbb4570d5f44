package routes

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
)

// Service wraps the delivery-route endpoints.
type Service struct {
	api backend.Caller
}

func New(api backend.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) GetAll(ctx context.Context) ([]models.Route, error) {
	var res []models.RouteResource
	if err := s.api.Get(ctx, "/routes", nil, &res); err != nil {
		slog.Error("fetch routes", "err", err)
		return nil, err
	}
	out := make([]models.Route, 0, len(res))
	for _, r := range res {
		out = append(out, models.NewRoute(r))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, routeID string) (models.Route, error) {
	if routeID == "" {
		return models.Route{}, &models.ValidationError{Field: "routeId", Reason: "required"}
	}
	var res models.RouteResource
	if err := s.api.Get(ctx, "/routes/"+routeID, nil, &res); err != nil {
		slog.Error("fetch route", "routeId", routeID, "err", err)
		return models.Route{}, err
	}
	return models.NewRoute(res), nil
}

func (s *Service) Create(ctx context.Context, req models.CreateRouteResource) (models.Route, error) {
	if req.VehicleID == "" {
		return models.Route{}, &models.ValidationError{Field: "vehicleId", Reason: "required"}
	}
	if len(req.WarehouseIDs) == 0 {
		return models.Route{}, &models.ValidationError{Field: "warehouseIds", Reason: "at least one stop is required"}
	}
	var res models.RouteResource
	if err := s.api.Post(ctx, "/routes", req, &res); err != nil {
		slog.Error("create route", "vehicleId", req.VehicleID, "err", err)
		return models.Route{}, err
	}
	return models.NewRoute(res), nil
}

func (s *Service) Activate(ctx context.Context, routeID string) (models.Route, error) {
	return s.setActive(ctx, routeID, true)
}

func (s *Service) Deactivate(ctx context.Context, routeID string) (models.Route, error) {
	return s.setActive(ctx, routeID, false)
}

func (s *Service) setActive(ctx context.Context, routeID string, active bool) (models.Route, error) {
	if routeID == "" {
		return models.Route{}, &models.ValidationError{Field: "routeId", Reason: "required"}
	}
	body := map[string]bool{"isActive": active}
	var res models.RouteResource
	if err := s.api.Patch(ctx, "/routes/"+routeID+"/active", body, &res); err != nil {
		slog.Error("toggle route", "routeId", routeID, "active", active, "err", err)
		return models.Route{}, err
	}
	return models.NewRoute(res), nil
}

// CompleteStop marks one warehouse stop as done. Stops may complete in any
// order; traversal helpers on the returned route follow list order.
func (s *Service) CompleteStop(ctx context.Context, routeID, routeItemID string) (models.Route, error) {
	if routeID == "" {
		return models.Route{}, &models.ValidationError{Field: "routeId", Reason: "required"}
	}
	if routeItemID == "" {
		return models.Route{}, &models.ValidationError{Field: "routeItemId", Reason: "required"}
	}
	var res models.RouteResource
	if err := s.api.Patch(ctx, "/routes/"+routeID+"/items/"+routeItemID+"/complete", nil, &res); err != nil {
		slog.Error("complete route stop", "routeId", routeID, "routeItemId", routeItemID, "err", err)
		return models.Route{}, err
	}
	return models.NewRoute(res), nil
}

func (s *Service) GetByVehicle(ctx context.Context, vehicleID string) ([]models.Route, error) {
	if vehicleID == "" {
		return nil, &models.ValidationError{Field: "vehicleId", Reason: "required"}
	}
	var res []models.RouteResource
	if err := s.api.Get(ctx, "/vehicles/"+vehicleID+"/routes", nil, &res); err != nil {
		slog.Error("fetch routes by vehicle", "vehicleId", vehicleID, "err", err)
		return nil, err
	}
	out := make([]models.Route, 0, len(res))
	for _, r := range res {
		out = append(out, models.NewRoute(r))
	}
	return out, nil
}
