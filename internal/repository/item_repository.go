package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/openpos/pos-admin/internal/model"
)

// ErrItemNotFound is returned when a menu item lookup matches no row in the
// caller's tenant.
var ErrItemNotFound = errors.New("menu item not found")

const itemColumns = "id, tenant_id, category_id, name, description, price_cents, image_url, preparation_time, is_available, created_at, updated_at"

// ItemFilter narrows List results.  Zero values mean "no filter", mirroring
// the dashboard's filter bar where each control is optional.
type ItemFilter struct {
	CategoryID uint64
	Available  *bool
	Search     string // case-insensitive substring match on name
}

// ItemRepo encapsulates all database queries for menu items.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

// Create inserts a new menu item.  The referenced category must belong to
// the same tenant; a dangling category id surfaces as ErrCategoryNotFound.
func (r *ItemRepo) Create(ctx context.Context, it *model.MenuItem) error {
	var catTenant uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT tenant_id FROM menu_categories WHERE id=? LIMIT 1", it.CategoryID).Scan(&catTenant)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && catTenant != it.TenantID) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_items (tenant_id, category_id, name, description, price_cents, image_url, preparation_time) VALUES (?,?,?,?,?,?,?)",
		it.TenantID, it.CategoryID, it.Name, it.Description, it.PriceCents, it.ImageURL, it.PreparationTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id), it.TenantID)
	if err != nil {
		return err
	}
	*it = got
	return nil
}

// GetByID fetches one menu item together with its assigned modifiers.
func (r *ItemRepo) GetByID(ctx context.Context, id, tenantID uint64) (model.MenuItem, error) {
	var it model.MenuItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM menu_items WHERE id=? AND tenant_id=? LIMIT 1", id, tenantID).Scan(
		&it.ID, &it.TenantID, &it.CategoryID, &it.Name, &it.Description, &it.PriceCents,
		&it.ImageURL, &it.PreparationTime, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuItem{}, ErrItemNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	mods, err := NewModifierRepo(r.DB).ListForItem(ctx, it.ID, tenantID)
	if err != nil {
		return model.MenuItem{}, err
	}
	it.Modifiers = mods
	return it, nil
}

// List returns the tenant's menu items honoring the optional filter.
func (r *ItemRepo) List(ctx context.Context, tenantID uint64, f ItemFilter) ([]model.MenuItem, error) {
	q := "SELECT " + itemColumns + " FROM menu_items WHERE tenant_id=?"
	args := []any{tenantID}
	if f.CategoryID != 0 {
		q += " AND category_id=?"
		args = append(args, f.CategoryID)
	}
	if f.Available != nil {
		q += " AND is_available=?"
		args = append(args, *f.Available)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	q += " ORDER BY name"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.CategoryID, &it.Name, &it.Description,
			&it.PriceCents, &it.ImageURL, &it.PreparationTime, &it.IsAvailable,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update writes all mutable columns of a menu item.  When the category
// changes the new category must belong to the same tenant.
func (r *ItemRepo) Update(ctx context.Context, it model.MenuItem) error {
	var catTenant uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT tenant_id FROM menu_categories WHERE id=? LIMIT 1", it.CategoryID).Scan(&catTenant)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && catTenant != it.TenantID) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET category_id=?, name=?, description=?, price_cents=?, image_url=?, preparation_time=?, is_available=? WHERE id=? AND tenant_id=?",
		it.CategoryID, it.Name, it.Description, it.PriceCents, it.ImageURL, it.PreparationTime, it.IsAvailable, it.ID, it.TenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, it.ID, it.TenantID); err != nil {
			return err
		}
	}
	return nil
}

// ToggleAvailability flips is_available and returns the updated item.
func (r *ItemRepo) ToggleAvailability(ctx context.Context, id, tenantID uint64) (model.MenuItem, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET is_available = NOT is_available WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return model.MenuItem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.MenuItem{}, ErrItemNotFound
	}
	return r.GetByID(ctx, id, tenantID)
}

// Delete removes a menu item.  Modifier assignments go with it via the join
// table's ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, id, tenantID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM menu_items WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}
