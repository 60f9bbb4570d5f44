package models

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin      Role = "ROLE_ADMIN"
	RoleOperator   Role = "ROLE_OPERATOR"
	RoleSupervisor Role = "ROLE_SUPERVISOR"
	RoleClient     Role = "ROLE_CLIENT"
	RoleProvider   Role = "ROLE_PROVIDER"
)

var roleDescriptions = map[Role]string{
	RoleAdmin:      "Administrator with full system access",
	RoleOperator:   "Operator with operational access",
	RoleSupervisor: "Supervisor with oversight permissions",
	RoleClient:     "Client with limited access",
	RoleProvider:   "Provider with supplier permissions",
}

func AllRoles() []Role {
	return []Role{RoleAdmin, RoleOperator, RoleSupervisor, RoleClient, RoleProvider}
}

func ParseRole(name string) (Role, error) {
	r := Role(name)
	if _, ok := roleDescriptions[r]; !ok {
		return "", &InvalidEnumError{Enum: "role", Value: name, Allowed: roleNames()}
	}
	return r, nil
}

func ValidRole(name string) bool {
	_, ok := roleDescriptions[Role(name)]
	return ok
}

func roleNames() []string {
	all := AllRoles()
	out := make([]string, 0, len(all))
	for _, r := range all {
		out = append(out, r.String())
	}
	return out
}

func (r Role) String() string      { return string(r) }
func (r Role) Description() string { return roleDescriptions[r] }

func (r Role) IsAdmin() bool      { return r == RoleAdmin }
func (r Role) IsOperator() bool   { return r == RoleOperator }
func (r Role) IsSupervisor() bool { return r == RoleSupervisor }
func (r Role) IsClient() bool     { return r == RoleClient }
func (r Role) IsProvider() bool   { return r == RoleProvider }
