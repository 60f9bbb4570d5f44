package models

// VehicleStatus is the closed set of fleet vehicle states.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "Available"
	VehicleStatusNotAvailable VehicleStatus = "NotAvailable"
	VehicleStatusInUse        VehicleStatus = "InUse"
	VehicleStatusMaintenance  VehicleStatus = "Maintenance"
	VehicleStatusOutOfService VehicleStatus = "OutOfService"
)

var vehicleStatusDescriptions = map[VehicleStatus]string{
	VehicleStatusAvailable:    "Vehicle available",
	VehicleStatusNotAvailable: "Vehicle not available",
	VehicleStatusInUse:        "Vehicle in use",
	VehicleStatusMaintenance:  "Vehicle in maintenance",
	VehicleStatusOutOfService: "Vehicle out of service",
}

func AllVehicleStatuses() []VehicleStatus {
	return []VehicleStatus{
		VehicleStatusAvailable,
		VehicleStatusNotAvailable,
		VehicleStatusInUse,
		VehicleStatusMaintenance,
		VehicleStatusOutOfService,
	}
}

func ParseVehicleStatus(name string) (VehicleStatus, error) {
	s := VehicleStatus(name)
	if _, ok := vehicleStatusDescriptions[s]; !ok {
		return "", &InvalidEnumError{Enum: "vehicle status", Value: name, Allowed: vehicleStatusNames()}
	}
	return s, nil
}

func ValidVehicleStatus(name string) bool {
	_, ok := vehicleStatusDescriptions[VehicleStatus(name)]
	return ok
}

func vehicleStatusNames() []string {
	all := AllVehicleStatuses()
	out := make([]string, 0, len(all))
	for _, s := range all {
		out = append(out, s.String())
	}
	return out
}

func (s VehicleStatus) String() string      { return string(s) }
func (s VehicleStatus) Description() string { return vehicleStatusDescriptions[s] }

func (s VehicleStatus) IsAvailable() bool    { return s == VehicleStatusAvailable }
func (s VehicleStatus) IsInUse() bool        { return s == VehicleStatusInUse }
func (s VehicleStatus) IsMaintenance() bool  { return s == VehicleStatusMaintenance }
func (s VehicleStatus) IsOutOfService() bool { return s == VehicleStatusOutOfService }
