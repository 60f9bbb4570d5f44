package models

type VehicleResource struct {
	VehicleID    string  `json:"vehicleId"`
	LicensePlate string  `json:"licensePlate"`
	LoadCapacity float64 `json:"loadCapacity"`
	PaxCapacity  int     `json:"paxCapacity"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Tonnage      float64 `json:"tonnage"`
	Status       string  `json:"status"`
}

type CreateVehicleResource struct {
	LicensePlate string  `json:"licensePlate"`
	LoadCapacity float64 `json:"loadCapacity"`
	PaxCapacity  int     `json:"paxCapacity"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Tonnage      float64 `json:"tonnage"`
}

type Vehicle struct {
	VehicleID    string
	LicensePlate string
	LoadCapacity float64
	PaxCapacity  int
	Latitude     float64
	Longitude    float64
	Tonnage      float64
	Status       VehicleStatus
}

func NewVehicle(res VehicleResource) (Vehicle, error) {
	status, err := ParseVehicleStatus(res.Status)
	if err != nil {
		return Vehicle{}, err
	}
	return Vehicle{
		VehicleID:    res.VehicleID,
		LicensePlate: res.LicensePlate,
		LoadCapacity: res.LoadCapacity,
		PaxCapacity:  res.PaxCapacity,
		Latitude:     res.Latitude,
		Longitude:    res.Longitude,
		Tonnage:      res.Tonnage,
		Status:       status,
	}, nil
}

func (v Vehicle) IsAvailable() bool { return v.Status.IsAvailable() }
func (v Vehicle) InUse() bool       { return v.Status.IsInUse() }

// WithStatus returns a copy with the status replaced.
func (v Vehicle) WithStatus(status VehicleStatus) Vehicle {
	v.Status = status
	return v
}

func (v Vehicle) ToResource() VehicleResource {
	return VehicleResource{
		VehicleID:    v.VehicleID,
		LicensePlate: v.LicensePlate,
		LoadCapacity: v.LoadCapacity,
		PaxCapacity:  v.PaxCapacity,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		Tonnage:      v.Tonnage,
		Status:       v.Status.String(),
	}
}
