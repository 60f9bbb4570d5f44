package models

type WarehouseResource struct {
	WarehouseID string  `json:"warehouseId"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
}

type CreateWarehouseResource struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Warehouse struct {
	WarehouseID string
	Name        string
	Type        WarehouseType
	Latitude    float64
	Longitude   float64
	Address     string
}

func NewWarehouse(res WarehouseResource) (Warehouse, error) {
	t, err := ParseWarehouseType(res.Type)
	if err != nil {
		return Warehouse{}, err
	}
	return Warehouse{
		WarehouseID: res.WarehouseID,
		Name:        res.Name,
		Type:        t,
		Latitude:    res.Latitude,
		Longitude:   res.Longitude,
		Address:     res.Address,
	}, nil
}

func (w Warehouse) ToResource() WarehouseResource {
	return WarehouseResource{
		WarehouseID: w.WarehouseID,
		Name:        w.Name,
		Type:        w.Type.String(),
		Latitude:    w.Latitude,
		Longitude:   w.Longitude,
		Address:     w.Address,
	}
}
