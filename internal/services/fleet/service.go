package fleet

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
)

// Service wraps the vehicle endpoints.
type Service struct {
	api backend.Caller
}

func New(api backend.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) GetAll(ctx context.Context) ([]models.Vehicle, error) {
	var res []models.VehicleResource
	if err := s.api.Get(ctx, "/vehicles", nil, &res); err != nil {
		slog.Error("fetch vehicles", "err", err)
		return nil, err
	}
	return mapVehicles(res)
}

// GetAvailable returns only vehicles free for route assignment.
func (s *Service) GetAvailable(ctx context.Context) ([]models.Vehicle, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Vehicle, 0, len(all))
	for _, v := range all {
		if v.IsAvailable() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, vehicleID string) (models.Vehicle, error) {
	if vehicleID == "" {
		return models.Vehicle{}, &models.ValidationError{Field: "vehicleId", Reason: "required"}
	}
	var res models.VehicleResource
	if err := s.api.Get(ctx, "/vehicles/"+vehicleID, nil, &res); err != nil {
		slog.Error("fetch vehicle", "vehicleId", vehicleID, "err", err)
		return models.Vehicle{}, err
	}
	return models.NewVehicle(res)
}

func (s *Service) Create(ctx context.Context, req models.CreateVehicleResource) (models.Vehicle, error) {
	if req.LicensePlate == "" {
		return models.Vehicle{}, &models.ValidationError{Field: "licensePlate", Reason: "required"}
	}
	if req.LoadCapacity <= 0 {
		return models.Vehicle{}, &models.ValidationError{Field: "loadCapacity", Reason: "must be positive"}
	}
	var res models.VehicleResource
	if err := s.api.Post(ctx, "/vehicles", req, &res); err != nil {
		slog.Error("create vehicle", "licensePlate", req.LicensePlate, "err", err)
		return models.Vehicle{}, err
	}
	return models.NewVehicle(res)
}

func (s *Service) UpdateStatus(ctx context.Context, vehicleID, status string) (models.Vehicle, error) {
	if vehicleID == "" {
		return models.Vehicle{}, &models.ValidationError{Field: "vehicleId", Reason: "required"}
	}
	parsed, err := models.ParseVehicleStatus(status)
	if err != nil {
		return models.Vehicle{}, err
	}
	body := map[string]string{"status": parsed.String()}
	var res models.VehicleResource
	if err := s.api.Patch(ctx, "/vehicles/"+vehicleID+"/status", body, &res); err != nil {
		slog.Error("update vehicle status", "vehicleId", vehicleID, "err", err)
		return models.Vehicle{}, err
	}
	return models.NewVehicle(res)
}

func (s *Service) UpdateLocation(ctx context.Context, vehicleID string, lat, lon float64) (models.Vehicle, error) {
	if vehicleID == "" {
		return models.Vehicle{}, &models.ValidationError{Field: "vehicleId", Reason: "required"}
	}
	body := map[string]float64{"latitude": lat, "longitude": lon}
	var res models.VehicleResource
	if err := s.api.Patch(ctx, "/vehicles/"+vehicleID+"/location", body, &res); err != nil {
		slog.Error("update vehicle location", "vehicleId", vehicleID, "err", err)
		return models.Vehicle{}, err
	}
	return models.NewVehicle(res)
}

func mapVehicles(res []models.VehicleResource) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, 0, len(res))
	for _, r := range res {
		v, err := models.NewVehicle(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
