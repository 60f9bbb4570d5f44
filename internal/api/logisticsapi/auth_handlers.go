package logisticsapi

import (
	"net"
	"net/http"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/QuipuLog/CargoTrail/internal/storage/pglogistics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
)

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if a.limiter != nil {
		key := "signin:" + clientIP(r)
		allowed, _, err := a.limiter.Allow(r.Context(), key, a.signInRate, time.Minute)
		if err != nil {
			slog.Warn("sign-in rate limiter", "err", err)
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "too many sign-in attempts")
			return
		}
	}

	var req models.SignInResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := a.store.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, pglogistics.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := issueToken(a.jwtSecret, a.jwtExpiry, u.ID, u.Username, u.Roles)
	if err != nil {
		slog.Error("issue token", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, models.SignInResponseResource{
		ID:       u.ID,
		Username: u.Username,
		Token:    token,
	})
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpResource
	if !decodeBody(w, r, &req) {
		return
	}
	tenant, err := models.ParseTenantType(req.TenantType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RUC == "" || req.LegalName == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "ruc, legalName, username and password are required")
		return
	}

	role := req.Role
	if role == "" {
		role = tenant.InitialRole().String()
	} else if _, err := models.ParseRole(role); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	userID := uuid.NewString()
	rec := pglogistics.UserRecord{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        []string{role},
	}
	ten := pglogistics.TenantRecord{
		ID:             uuid.NewString(),
		RUC:            req.RUC,
		LegalName:      req.LegalName,
		CommercialName: req.CommercialName,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		Phone:          req.TenantPhone,
		Email:          req.TenantEmail,
		Website:        req.Website,
		TenantType:     tenant.String(),
	}
	if err := a.store.CreateTenantWithUser(r.Context(), ten, rec); err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := issueToken(a.jwtSecret, a.jwtExpiry, userID, req.Username, rec.Roles)
	if err != nil {
		slog.Error("issue token", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, models.SignUpResponseResource{
		ID:         userID,
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		TenantType: tenant.String(),
		Token:      token,
	})
}

// Tokens are stateless; sign-out exists so clients can report the event.
func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing principal")
		return
	}
	token, err := issueToken(a.jwtSecret, a.jwtExpiry, p.UserID, p.Username, p.Roles)
	if err != nil {
		slog.Error("issue token", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, models.SignInResponseResource{
		ID:       p.UserID,
		Username: p.Username,
		Token:    token,
	})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	recs, err := a.store.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]models.UserResource, 0, len(recs))
	for _, u := range recs {
		out = append(out, userResource(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.store.GetUser(r.Context(), pathParam(r, "userId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResource(u))
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if len(req.Roles) == 0 {
		writeError(w, http.StatusBadRequest, "at least one role must be assigned")
		return
	}
	for _, raw := range req.Roles {
		if _, err := models.ParseRole(raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	rec := pglogistics.UserRecord{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        req.Roles,
	}
	if err := a.store.CreateUser(r.Context(), rec); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResource(rec))
}

func userResource(u pglogistics.UserRecord) models.UserResource {
	return models.UserResource{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
