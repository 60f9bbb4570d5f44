package pglogistics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// UserRecord is a stored account. PasswordHash never leaves the API layer.
type UserRecord struct {
	ID           string
	TenantID     string
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Roles        []string
}

type TenantRecord struct {
	ID             string
	RUC            string
	LegalName      string
	CommercialName string
	Address        string
	City           string
	Country        string
	Phone          string
	Email          string
	Website        string
	TenantType     string
}

// CreateTenantWithUser registers a tenant and its first user atomically.
func (s *Storage) CreateTenantWithUser(ctx context.Context, t TenantRecord, u UserRecord) error {
	roles, err := json.Marshal(u.Roles)
	if err != nil {
		return errors.Wrap(err, "encode roles")
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO tenants (id, ruc, legal_name, commercial_name, address, city, country, phone, email, website, tenant_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`, t.ID, t.RUC, t.LegalName, t.CommercialName, t.Address, t.City, t.Country, t.Phone, t.Email, t.Website, t.TenantType, now)
	if err != nil {
		return errors.Wrap(err, "insert tenant")
	}

	_, err = tx.Exec(ctx, `
INSERT INTO users (id, tenant_id, username, password_hash, email, first_name, last_name, roles, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, u.ID, t.ID, u.Username, u.PasswordHash, u.Email, u.FirstName, u.LastName, roles, now)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}

	return errors.Wrap(tx.Commit(ctx), "commit tx")
}

func (s *Storage) CreateUser(ctx context.Context, u UserRecord) error {
	roles, err := json.Marshal(u.Roles)
	if err != nil {
		return errors.Wrap(err, "encode roles")
	}
	var tenantID any
	if u.TenantID != "" {
		tenantID = u.TenantID
	}
	_, err = s.db.Exec(ctx, `
INSERT INTO users (id, tenant_id, username, password_hash, email, first_name, last_name, roles, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, u.ID, tenantID, u.Username, u.PasswordHash, u.Email, u.FirstName, u.LastName, roles, time.Now().UTC())
	return errors.Wrap(err, "insert user")
}

const userColumns = `id, COALESCE(tenant_id, ''), username, password_hash, email, first_name, last_name, roles`

func scanUser(row pgx.Row) (UserRecord, error) {
	var u UserRecord
	var roles []byte
	if err := row.Scan(&u.ID, &u.TenantID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName, &roles); err != nil {
		return UserRecord{}, err
	}
	if err := json.Unmarshal(roles, &u.Roles); err != nil {
		return UserRecord{}, errors.Wrap(err, "decode roles")
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (UserRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, errors.Wrap(err, "select user")
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (UserRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, errors.Wrap(err, "select user by username")
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]UserRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, errors.Wrap(err, "select users")
	}
	defer rows.Close()

	var out []UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		out = append(out, u)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) GetTenant(ctx context.Context, tenantID string) (TenantRecord, error) {
	var t TenantRecord
	err := s.db.QueryRow(ctx, `
SELECT id, ruc, legal_name, commercial_name, address, city, country, phone, email, website, tenant_type
FROM tenants WHERE id = $1
`, tenantID).Scan(&t.ID, &t.RUC, &t.LegalName, &t.CommercialName, &t.Address, &t.City, &t.Country, &t.Phone, &t.Email, &t.Website, &t.TenantType)
	if errors.Is(err, pgx.ErrNoRows) {
		return TenantRecord{}, ErrNotFound
	}
	if err != nil {
		return TenantRecord{}, errors.Wrap(err, "select tenant")
	}
	return t, nil
}
