package pglogistics

import (
	"context"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func (s *Storage) CreateProduct(ctx context.Context, p models.ProductResource) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO products (id, name, description, price, currency, stock, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, p.ProductID, p.Name, p.Description, p.Price, p.Currency, p.Stock, time.Now().UTC())
	return errors.Wrap(err, "insert product")
}

func (s *Storage) GetProduct(ctx context.Context, productID string) (models.ProductResource, error) {
	var p models.ProductResource
	err := s.db.QueryRow(ctx, `
SELECT id, name, description, price, currency, stock FROM products WHERE id = $1
`, productID).Scan(&p.ProductID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ProductResource{}, ErrNotFound
	}
	if err != nil {
		return models.ProductResource{}, errors.Wrap(err, "select product")
	}
	return p, nil
}

func (s *Storage) ListProducts(ctx context.Context) ([]models.ProductResource, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, description, price, currency, stock FROM products ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	defer rows.Close()

	var out []models.ProductResource
	for rows.Next() {
		var p models.ProductResource
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.Stock); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) CreateWarehouse(ctx context.Context, w models.WarehouseResource) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO warehouses (id, name, warehouse_type, latitude, longitude, address, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, w.WarehouseID, w.Name, w.Type, w.Latitude, w.Longitude, w.Address, time.Now().UTC())
	return errors.Wrap(err, "insert warehouse")
}

func (s *Storage) GetWarehouse(ctx context.Context, warehouseID string) (models.WarehouseResource, error) {
	var w models.WarehouseResource
	err := s.db.QueryRow(ctx, `
SELECT id, name, warehouse_type, latitude, longitude, address FROM warehouses WHERE id = $1
`, warehouseID).Scan(&w.WarehouseID, &w.Name, &w.Type, &w.Latitude, &w.Longitude, &w.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WarehouseResource{}, ErrNotFound
	}
	if err != nil {
		return models.WarehouseResource{}, errors.Wrap(err, "select warehouse")
	}
	return w, nil
}

func (s *Storage) ListWarehouses(ctx context.Context) ([]models.WarehouseResource, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, warehouse_type, latitude, longitude, address FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "select warehouses")
	}
	defer rows.Close()

	var out []models.WarehouseResource
	for rows.Next() {
		var w models.WarehouseResource
		if err := rows.Scan(&w.WarehouseID, &w.Name, &w.Type, &w.Latitude, &w.Longitude, &w.Address); err != nil {
			return nil, errors.Wrap(err, "scan warehouse")
		}
		out = append(out, w)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) DeleteWarehouse(ctx context.Context, warehouseID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, warehouseID)
	if err != nil {
		return errors.Wrap(err, "delete warehouse")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) CreateVehicle(ctx context.Context, v models.VehicleResource) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO vehicles (id, license_plate, load_capacity, pax_capacity, latitude, longitude, tonnage, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, v.VehicleID, v.LicensePlate, v.LoadCapacity, v.PaxCapacity, v.Latitude, v.Longitude, v.Tonnage, v.Status, time.Now().UTC())
	return errors.Wrap(err, "insert vehicle")
}

func (s *Storage) GetVehicle(ctx context.Context, vehicleID string) (models.VehicleResource, error) {
	var v models.VehicleResource
	err := s.db.QueryRow(ctx, `
SELECT id, license_plate, load_capacity, pax_capacity, latitude, longitude, tonnage, status FROM vehicles WHERE id = $1
`, vehicleID).Scan(&v.VehicleID, &v.LicensePlate, &v.LoadCapacity, &v.PaxCapacity, &v.Latitude, &v.Longitude, &v.Tonnage, &v.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.VehicleResource{}, ErrNotFound
	}
	if err != nil {
		return models.VehicleResource{}, errors.Wrap(err, "select vehicle")
	}
	return v, nil
}

func (s *Storage) ListVehicles(ctx context.Context) ([]models.VehicleResource, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, license_plate, load_capacity, pax_capacity, latitude, longitude, tonnage, status FROM vehicles ORDER BY license_plate
`)
	if err != nil {
		return nil, errors.Wrap(err, "select vehicles")
	}
	defer rows.Close()

	var out []models.VehicleResource
	for rows.Next() {
		var v models.VehicleResource
		if err := rows.Scan(&v.VehicleID, &v.LicensePlate, &v.LoadCapacity, &v.PaxCapacity, &v.Latitude, &v.Longitude, &v.Tonnage, &v.Status); err != nil {
			return nil, errors.Wrap(err, "scan vehicle")
		}
		out = append(out, v)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) UpdateVehicleStatus(ctx context.Context, vehicleID, status string) (models.VehicleResource, error) {
	tag, err := s.db.Exec(ctx, `UPDATE vehicles SET status = $2 WHERE id = $1`, vehicleID, status)
	if err != nil {
		return models.VehicleResource{}, errors.Wrap(err, "update vehicle status")
	}
	if tag.RowsAffected() == 0 {
		return models.VehicleResource{}, ErrNotFound
	}
	return s.GetVehicle(ctx, vehicleID)
}

func (s *Storage) UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lon float64) (models.VehicleResource, error) {
	tag, err := s.db.Exec(ctx, `UPDATE vehicles SET latitude = $2, longitude = $3 WHERE id = $1`, vehicleID, lat, lon)
	if err != nil {
		return models.VehicleResource{}, errors.Wrap(err, "update vehicle location")
	}
	if tag.RowsAffected() == 0 {
		return models.VehicleResource{}, ErrNotFound
	}
	return s.GetVehicle(ctx, vehicleID)
}
