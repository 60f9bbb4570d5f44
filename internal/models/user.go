package models

import "strings"

type UserResource struct {
	UserID     string   `json:"userId"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Roles      []string `json:"roles"`
	TenantType string   `json:"tenantType,omitempty"`
}

type CreateUserResource struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type SignInResource struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignInResponseResource struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type SignUpResource struct {
	RUC            string `json:"ruc"`
	LegalName      string `json:"legalName"`
	CommercialName string `json:"commercialName"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Country        string `json:"country"`
	TenantPhone    string `json:"tenantPhone"`
	TenantEmail    string `json:"tenantEmail"`
	Website        string `json:"website,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	TenantType     string `json:"tenantType"`
	Role           string `json:"role,omitempty"`
}

type SignUpResponseResource struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	TenantType string `json:"tenantType"`
	Token      string `json:"token"`
}

type User struct {
	UserID     string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Roles      []Role
	TenantType TenantType
}

// NewUser validates the payload: every role must resolve, at least one role
// must be assigned, and the email must be well formed.
func NewUser(res UserResource) (User, error) {
	if len(res.Roles) == 0 {
		return User{}, &ValidationError{Field: "roles", Reason: "at least one role must be assigned"}
	}
	roles := make([]Role, 0, len(res.Roles))
	for _, raw := range res.Roles {
		r, err := ParseRole(raw)
		if err != nil {
			return User{}, err
		}
		roles = append(roles, r)
	}
	if !validEmail(res.Email) {
		return User{}, &ValidationError{Field: "email", Reason: "malformed address"}
	}
	u := User{
		UserID:    res.UserID,
		Username:  res.Username,
		Email:     res.Email,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Roles:     roles,
	}
	if res.TenantType != "" {
		t, err := ParseTenantType(res.TenantType)
		if err != nil {
			return User{}, err
		}
		u.TenantType = t
	}
	return u, nil
}

func (u User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (u User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) ToResource() UserResource {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.String())
	}
	return UserResource{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Roles:      roles,
		TenantType: string(u.TenantType),
	}
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return !strings.Contains(domain, "@") && strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
