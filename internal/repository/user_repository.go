package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/utils"
)

// ErrEmailExists is returned when a user insert violates the unique email
// constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

const userColumns = "id, tenant_id, first_name, last_name, email, password_hash, role, is_active, created_at, updated_at"

// UserRepo persists staff accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a staff user and returns its ID.  The password is hashed
// here so handlers never touch bcrypt directly.
func (r *UserRepo) Create(ctx context.Context, tenantID uint64, firstName, lastName, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (tenant_id, first_name, last_name, email, password_hash, role) VALUES (?,?,?,?,?,?)",
		tenantID, firstName, lastName, email, hash, string(role))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.  Emails are unique across
// tenants so login does not need a tenant selector.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id regardless of tenant.  Used by the auth
// endpoints where the id comes from a verified token.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByIDAndTenant fetches a user only when it belongs to the given tenant.
func (r *UserRepo) GetByIDAndTenant(ctx context.Context, id, tenantID uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? AND tenant_id=? LIMIT 1", id, tenantID)
}

// ListByTenant returns every staff account of a tenant, newest last.
func (r *UserRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE tenant_id=? ORDER BY id", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByTenant returns the number of staff accounts a tenant has.
func (r *UserRepo) CountByTenant(ctx context.Context, tenantID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE tenant_id=?", tenantID).Scan(&n)
	return n, err
}

// Update writes all mutable columns of a user.  Handlers load the row first
// and apply only the provided fields, so a full-column update is safe.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, email=?, password_hash=?, role=?, is_active=? WHERE id=? AND tenant_id=?",
		u.FirstName, u.LastName, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, string(u.Role), u.IsActive, u.ID, u.TenantID)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the row does not exist or nothing changed; re-check existence
		// so callers get a precise error.
		if _, err := r.GetByIDAndTenant(ctx, u.ID, u.TenantID); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate soft-deletes a staff account by clearing is_active.
func (r *UserRepo) Deactivate(ctx context.Context, id, tenantID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=0 WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByIDAndTenant(ctx, id, tenantID); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	var role string
	err := s.Scan(&u.ID, &u.TenantID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	u.Role = model.Role(role)
	return u, err
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
