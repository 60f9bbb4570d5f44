package warehouses

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
)

// Service wraps the warehouse endpoints.
type Service struct {
	api backend.Caller
}

func New(api backend.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) GetAll(ctx context.Context) ([]models.Warehouse, error) {
	var res []models.WarehouseResource
	if err := s.api.Get(ctx, "/warehouses", nil, &res); err != nil {
		slog.Error("fetch warehouses", "err", err)
		return nil, err
	}
	out := make([]models.Warehouse, 0, len(res))
	for _, r := range res {
		w, err := models.NewWarehouse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, warehouseID string) (models.Warehouse, error) {
	if warehouseID == "" {
		return models.Warehouse{}, &models.ValidationError{Field: "warehouseId", Reason: "required"}
	}
	var res models.WarehouseResource
	if err := s.api.Get(ctx, "/warehouses/"+warehouseID, nil, &res); err != nil {
		slog.Error("fetch warehouse", "warehouseId", warehouseID, "err", err)
		return models.Warehouse{}, err
	}
	return models.NewWarehouse(res)
}

func (s *Service) Create(ctx context.Context, req models.CreateWarehouseResource) (models.Warehouse, error) {
	if req.Name == "" {
		return models.Warehouse{}, &models.ValidationError{Field: "name", Reason: "required"}
	}
	if _, err := models.ParseWarehouseType(req.Type); err != nil {
		return models.Warehouse{}, err
	}
	var res models.WarehouseResource
	if err := s.api.Post(ctx, "/warehouses", req, &res); err != nil {
		slog.Error("create warehouse", "name", req.Name, "err", err)
		return models.Warehouse{}, err
	}
	return models.NewWarehouse(res)
}

func (s *Service) Delete(ctx context.Context, warehouseID string) error {
	if warehouseID == "" {
		return &models.ValidationError{Field: "warehouseId", Reason: "required"}
	}
	if err := s.api.Delete(ctx, "/warehouses/"+warehouseID, nil); err != nil {
		slog.Error("delete warehouse", "warehouseId", warehouseID, "err", err)
		return err
	}
	return nil
}
