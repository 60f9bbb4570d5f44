package iam

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
)

// UserService wraps the user management endpoints.
type UserService struct {
	api backend.Caller
}

func NewUsers(api backend.Caller) *UserService {
	return &UserService{api: api}
}

func (s *UserService) GetByID(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, &models.ValidationError{Field: "userId", Reason: "required"}
	}
	var res models.UserResource
	if err := s.api.Get(ctx, "/users/"+userID, nil, &res); err != nil {
		slog.Error("fetch user", "userId", userID, "err", err)
		return models.User{}, err
	}
	return models.NewUser(res)
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	var res []models.UserResource
	if err := s.api.Get(ctx, "/users", nil, &res); err != nil {
		slog.Error("fetch users", "err", err)
		return nil, err
	}
	out := make([]models.User, 0, len(res))
	for _, r := range res {
		u, err := models.NewUser(r)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// Create registers an additional user under the caller's tenant. Roles are
// validated before the request goes out.
func (s *UserService) Create(ctx context.Context, req models.CreateUserResource) (models.User, error) {
	if req.Username == "" {
		return models.User{}, &models.ValidationError{Field: "username", Reason: "required"}
	}
	if req.Password == "" {
		return models.User{}, &models.ValidationError{Field: "password", Reason: "required"}
	}
	if len(req.Roles) == 0 {
		return models.User{}, &models.ValidationError{Field: "roles", Reason: "at least one role must be assigned"}
	}
	for _, raw := range req.Roles {
		if _, err := models.ParseRole(raw); err != nil {
			return models.User{}, err
		}
	}
	var res models.UserResource
	if err := s.api.Post(ctx, "/users", req, &res); err != nil {
		slog.Error("create user", "username", req.Username, "err", err)
		return models.User{}, err
	}
	return models.NewUser(res)
}
