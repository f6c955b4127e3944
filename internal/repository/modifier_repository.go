package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openpos/pos-admin/internal/model"
)

// ErrModifierNotFound is returned when a modifier lookup matches no row in
// the caller's tenant.
var ErrModifierNotFound = errors.New("modifier not found")

const modifierColumns = "id, tenant_id, name, description, price_cents, is_available, created_at, updated_at"

// ModifierRepo encapsulates all database queries for menu modifiers and
// their assignments to menu items.
type ModifierRepo struct{ DB *sql.DB }

func NewModifierRepo(db *sql.DB) *ModifierRepo { return &ModifierRepo{DB: db} }

// Create inserts a new modifier and populates the struct from the database.
func (r *ModifierRepo) Create(ctx context.Context, m *model.Modifier) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_modifiers (tenant_id, name, description, price_cents, is_available) VALUES (?,?,?,?,?)",
		m.TenantID, m.Name, m.Description, m.PriceCents, m.IsAvailable)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id), m.TenantID)
	if err != nil {
		return err
	}
	*m = got
	return nil
}

// GetByID fetches one modifier.
func (r *ModifierRepo) GetByID(ctx context.Context, id, tenantID uint64) (model.Modifier, error) {
	var m model.Modifier
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+modifierColumns+" FROM menu_modifiers WHERE id=? AND tenant_id=? LIMIT 1",
		id, tenantID).Scan(&m.ID, &m.TenantID, &m.Name, &m.Description, &m.PriceCents,
		&m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Modifier{}, ErrModifierNotFound
	}
	return m, err
}

// ListByTenant returns every modifier of a tenant.
func (r *ModifierRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.Modifier, error) {
	return r.list(ctx,
		"SELECT "+modifierColumns+" FROM menu_modifiers WHERE tenant_id=? ORDER BY name", tenantID)
}

// ListForItem returns the modifiers assigned to one menu item.
func (r *ModifierRepo) ListForItem(ctx context.Context, itemID, tenantID uint64) ([]model.Modifier, error) {
	const q = `SELECT m.id, m.tenant_id, m.name, m.description, m.price_cents, m.is_available, m.created_at, m.updated_at
		FROM menu_modifiers m
		JOIN menu_item_modifiers mim ON mim.modifier_id = m.id
		WHERE mim.menu_item_id=? AND m.tenant_id=?
		ORDER BY m.name`
	return r.list(ctx, q, itemID, tenantID)
}

// Update writes the mutable columns of a modifier.
func (r *ModifierRepo) Update(ctx context.Context, m model.Modifier) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_modifiers SET name=?, description=?, price_cents=?, is_available=? WHERE id=? AND tenant_id=?",
		m.Name, m.Description, m.PriceCents, m.IsAvailable, m.ID, m.TenantID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID, m.TenantID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a modifier; assignments cascade away with it.
func (r *ModifierRepo) Delete(ctx context.Context, id, tenantID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM menu_modifiers WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrModifierNotFound
	}
	return nil
}

// Assign links a modifier to a menu item.  Both rows must belong to the
// tenant; re-assigning an existing pair is a no-op.
func (r *ModifierRepo) Assign(ctx context.Context, modifierID, itemID, tenantID uint64) error {
	if err := r.checkPair(ctx, modifierID, itemID, tenantID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO menu_item_modifiers (menu_item_id, modifier_id) VALUES (?,?)",
		itemID, modifierID)
	return err
}

// Unassign removes the link between a modifier and a menu item.
func (r *ModifierRepo) Unassign(ctx context.Context, modifierID, itemID, tenantID uint64) error {
	if err := r.checkPair(ctx, modifierID, itemID, tenantID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM menu_item_modifiers WHERE menu_item_id=? AND modifier_id=?",
		itemID, modifierID)
	return err
}

// checkPair verifies both sides of an assignment exist inside the tenant.
func (r *ModifierRepo) checkPair(ctx context.Context, modifierID, itemID, tenantID uint64) error {
	if _, err := r.GetByID(ctx, modifierID, tenantID); err != nil {
		return err
	}
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM menu_items WHERE id=? AND tenant_id=?", itemID, tenantID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ModifierRepo) list(ctx context.Context, query string, args ...any) ([]model.Modifier, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mods := []model.Modifier{}
	for rows.Next() {
		var m model.Modifier
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Name, &m.Description, &m.PriceCents,
			&m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}
