package models

// WarehouseType classifies warehouses by owning party.
type WarehouseType string

const (
	WarehouseTypeClient    WarehouseType = "Client"
	WarehouseTypeProvider  WarehouseType = "Provider"
	WarehouseTypeLogistics WarehouseType = "Logistics"
)

var warehouseTypeDescriptions = map[WarehouseType]string{
	WarehouseTypeClient:    "Cliente warehouse",
	WarehouseTypeProvider:  "Proveedor warehouse",
	WarehouseTypeLogistics: "Logística warehouse",
}

func AllWarehouseTypes() []WarehouseType {
	return []WarehouseType{WarehouseTypeClient, WarehouseTypeProvider, WarehouseTypeLogistics}
}

func ParseWarehouseType(name string) (WarehouseType, error) {
	t := WarehouseType(name)
	if _, ok := warehouseTypeDescriptions[t]; !ok {
		return "", &InvalidEnumError{Enum: "warehouse type", Value: name, Allowed: warehouseTypeNames()}
	}
	return t, nil
}

func ValidWarehouseType(name string) bool {
	_, ok := warehouseTypeDescriptions[WarehouseType(name)]
	return ok
}

func warehouseTypeNames() []string {
	all := AllWarehouseTypes()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.String())
	}
	return out
}

func (t WarehouseType) String() string      { return string(t) }
func (t WarehouseType) Description() string { return warehouseTypeDescriptions[t] }

func (t WarehouseType) IsClient() bool    { return t == WarehouseTypeClient }
func (t WarehouseType) IsProvider() bool  { return t == WarehouseTypeProvider }
func (t WarehouseType) IsLogistics() bool { return t == WarehouseTypeLogistics }
