package iam

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/QuipuLog/CargoTrail/internal/storage/localstore"
	"github.com/pkg/errors"
)

// AuthService handles the session lifecycle: sign in, sign up, sign out and
// token refresh. Credentials live in the local store; a cleared store means
// signed out.
type AuthService struct {
	api   backend.Caller
	store localstore.Store
}

func NewAuth(api backend.Caller, store localstore.Store) *AuthService {
	return &AuthService{api: api, store: store}
}

// SignIn exchanges username and password for a token and persists the
// session locally.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (models.SignInResponseResource, error) {
	if username == "" {
		return models.SignInResponseResource{}, &models.ValidationError{Field: "username", Reason: "required"}
	}
	if password == "" {
		return models.SignInResponseResource{}, &models.ValidationError{Field: "password", Reason: "required"}
	}

	var res models.SignInResponseResource
	req := models.SignInResource{Username: username, Password: password}
	if err := s.api.Post(ctx, "/authentication/sign-in", req, &res); err != nil {
		slog.Error("sign in", "username", username, "err", err)
		return models.SignInResponseResource{}, err
	}

	if err := s.persistSession(res.ID, res.Username, res.Token, ""); err != nil {
		return models.SignInResponseResource{}, err
	}
	return res, nil
}

// SignUp registers a new tenant with its first user. The first user's role
// follows from the tenant type unless the request pins one explicitly.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpResource) (models.SignUpResponseResource, error) {
	tenant, err := models.ParseTenantType(req.TenantType)
	if err != nil {
		return models.SignUpResponseResource{}, err
	}
	if req.Username == "" {
		return models.SignUpResponseResource{}, &models.ValidationError{Field: "username", Reason: "required"}
	}
	if req.Password == "" {
		return models.SignUpResponseResource{}, &models.ValidationError{Field: "password", Reason: "required"}
	}
	if req.RUC == "" {
		return models.SignUpResponseResource{}, &models.ValidationError{Field: "ruc", Reason: "required"}
	}
	if req.Role == "" {
		req.Role = tenant.InitialRole().String()
	}

	var res models.SignUpResponseResource
	if err := s.api.Post(ctx, "/authentication/sign-up", req, &res); err != nil {
		slog.Error("sign up", "username", req.Username, "err", err)
		return models.SignUpResponseResource{}, err
	}

	if res.Token != "" {
		if err := s.persistSession(res.ID, res.Username, res.Token, res.TenantType); err != nil {
			return models.SignUpResponseResource{}, err
		}
	}
	return res, nil
}

// SignOut tells the backend best effort and always clears the local
// credentials, even when the remote call fails.
func (s *AuthService) SignOut(ctx context.Context) error {
	defer func() {
		if err := s.store.ClearCredentials(); err != nil {
			slog.Error("clear credentials", "err", err)
		}
	}()

	if err := s.api.Post(ctx, "/authentication/sign-out", nil, nil); err != nil {
		slog.Warn("remote sign out", "err", err)
	}
	return nil
}

// RefreshToken replaces the stored token. A refresh failure forces a local
// sign-out so callers never keep a session the backend has rejected.
func (s *AuthService) RefreshToken(ctx context.Context) error {
	u, ok := s.store.User()
	if !ok {
		return errors.Wrap(backend.ErrAuthExpired, "no active session")
	}

	var res models.SignInResponseResource
	if err := s.api.Post(ctx, "/authentication/refresh", nil, &res); err != nil {
		slog.Error("refresh token", "username", u.Username, "err", err)
		if clearErr := s.store.ClearCredentials(); clearErr != nil {
			slog.Error("clear credentials", "err", clearErr)
		}
		return err
	}
	return s.persistSession(u.ID, u.Username, res.Token, u.TenantType)
}

// CurrentUser returns the locally stored session user.
func (s *AuthService) CurrentUser() (localstore.StoredUser, bool) {
	return s.store.User()
}

func (s *AuthService) IsAuthenticated() bool {
	return s.store.Token() != ""
}

func (s *AuthService) persistSession(id, username, token, tenantType string) error {
	if err := s.store.SetToken(token); err != nil {
		return errors.Wrap(err, "persist token")
	}
	u := localstore.StoredUser{ID: id, Username: username, Token: token, TenantType: tenantType}
	if err := s.store.SetUser(u); err != nil {
		return errors.Wrap(err, "persist user")
	}
	return nil
}
