package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/utils"
)

// ErrTenantNotFound is returned when a tenant cannot be found in the DB.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrSubdomainExists is returned when a registration reuses a subdomain.
var ErrSubdomainExists = errors.New("subdomain already exists")

// TenantRepo encapsulates all database queries related to tenants.
type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

// RegisterParams carries everything needed to create a tenant together with
// its first admin account.
type RegisterParams struct {
	RestaurantName string
	Subdomain      string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	BcryptCost     int
}

// Register creates a tenant and its admin user inside a single transaction
// so a failure on either insert leaves no orphan rows.  On success both the
// tenant and the fully populated admin user are returned.
func (r *TenantRepo) Register(ctx context.Context, p RegisterParams) (model.Tenant, model.User, error) {
	hash, err := utils.HashPassword(p.Password, p.BcryptCost)
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}
	sub := strings.ToLower(strings.TrimSpace(p.Subdomain))
	email := strings.ToLower(strings.TrimSpace(p.Email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO tenants (name, subdomain) VALUES (?,?)", strings.TrimSpace(p.RestaurantName), sub)
	if err != nil {
		if isDuplicate(err) {
			return model.Tenant{}, model.User{}, ErrSubdomainExists
		}
		return model.Tenant{}, model.User{}, err
	}
	tid, err := res.LastInsertId()
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO users (tenant_id, first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?,?)",
		tid, p.FirstName, p.LastName, email, hash, string(model.RoleAdmin))
	if err != nil {
		if isDuplicate(err) {
			return model.Tenant{}, model.User{}, ErrEmailExists
		}
		return model.Tenant{}, model.User{}, err
	}
	uid, err := res.LastInsertId()
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Tenant{}, model.User{}, err
	}

	// Re-read both rows so the caller receives DB-populated timestamps.
	tenant, err := r.GetByID(ctx, uint64(tid))
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}
	user, err := NewUserRepo(r.DB).GetByID(ctx, uint64(uid))
	if err != nil {
		return model.Tenant{}, model.User{}, err
	}
	return tenant, user, nil
}

// GetByID fetches a tenant by its ID.  It returns ErrTenantNotFound if no
// row is found.
func (r *TenantRepo) GetByID(ctx context.Context, id uint64) (model.Tenant, error) {
	var t model.Tenant
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, subdomain, is_active, created_at, updated_at FROM tenants WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Name, &t.Subdomain, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tenant{}, ErrTenantNotFound
	}
	return t, err
}

// Update writes the mutable tenant columns (name, subdomain, is_active).
func (r *TenantRepo) Update(ctx context.Context, t model.Tenant) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tenants SET name=?, subdomain=?, is_active=? WHERE id=?",
		strings.TrimSpace(t.Name), strings.ToLower(strings.TrimSpace(t.Subdomain)), t.IsActive, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSubdomainExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a tenant.  Foreign keys stop the delete while users or menu
// data still reference it; that surfaces as ErrConflict.
func (r *TenantRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tenants WHERE id=?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") { // row is referenced
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTenantNotFound
	}
	return nil
}
