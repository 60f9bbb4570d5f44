package models

// TenantType is the organizational account type owning a user.
type TenantType string

const (
	TenantTypeClient   TenantType = "CLIENT"
	TenantTypeProvider TenantType = "PROVIDER"
	TenantTypeLogistic TenantType = "LOGISTIC"
)

var tenantTypeSet = map[TenantType]struct{}{
	TenantTypeClient:   {},
	TenantTypeProvider: {},
	TenantTypeLogistic: {},
}

func AllTenantTypes() []TenantType {
	return []TenantType{TenantTypeClient, TenantTypeProvider, TenantTypeLogistic}
}

func ParseTenantType(value string) (TenantType, error) {
	t := TenantType(value)
	if _, ok := tenantTypeSet[t]; !ok {
		return "", &InvalidEnumError{
			Enum:    "tenant type",
			Value:   value,
			Allowed: []string{string(TenantTypeClient), string(TenantTypeProvider), string(TenantTypeLogistic)},
		}
	}
	return t, nil
}

func ValidTenantType(value string) bool {
	_, ok := tenantTypeSet[TenantType(value)]
	return ok
}

func (t TenantType) String() string { return string(t) }

// InitialRole maps a tenant type to the role granted at sign-up.
func (t TenantType) InitialRole() Role {
	switch t {
	case TenantTypeClient:
		return RoleClient
	case TenantTypeProvider:
		return RoleProvider
	default:
		return RoleAdmin
	}
}
