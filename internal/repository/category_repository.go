package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openpos/pos-admin/internal/model"
)

// ErrCategoryNotFound is returned when a category lookup matches no row in
// the caller's tenant.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries for menu categories.  Every
// method is tenant-scoped: a category id from another tenant behaves exactly
// like a missing one.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// Create inserts a new category.  On success the struct's ID and timestamp
// fields are populated from the database.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_categories (tenant_id, name, description, color) VALUES (?,?,?,?)",
		c.TenantID, c.Name, c.Description, c.Color)
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
	got, err := r.GetByID(ctx, uint64(id), c.TenantID)
	if err != nil {
		return err
	}
	*c = got
	return nil
}

// GetByID fetches one category, including its current item count.
func (r *CategoryRepo) GetByID(ctx context.Context, id, tenantID uint64) (model.Category, error) {
	const q = `SELECT c.id, c.tenant_id, c.name, c.description, c.color, c.is_active,
		(SELECT COUNT(*) FROM menu_items i WHERE i.category_id = c.id) AS item_count,
		c.created_at, c.updated_at
		FROM menu_categories c WHERE c.id=? AND c.tenant_id=? LIMIT 1`
	var c model.Category
	err := r.DB.QueryRowContext(ctx, q, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Description, &c.Color, &c.IsActive,
		&c.ItemCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrCategoryNotFound
	}
	return c, err
}

// ListByTenant returns all categories of a tenant with item counts.
func (r *CategoryRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.Category, error) {
	const q = `SELECT c.id, c.tenant_id, c.name, c.description, c.color, c.is_active,
		COUNT(i.id) AS item_count, c.created_at, c.updated_at
		FROM menu_categories c
		LEFT JOIN menu_items i ON i.category_id = c.id
		WHERE c.tenant_id=?
		GROUP BY c.id
		ORDER BY c.name`
	rows, err := r.DB.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.Color,
			&c.IsActive, &c.ItemCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Update writes the mutable columns of a category.
func (r *CategoryRepo) Update(ctx context.Context, c model.Category) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_categories SET name=?, description=?, color=?, is_active=? WHERE id=? AND tenant_id=?",
		c.Name, c.Description, c.Color, c.IsActive, c.ID, c.TenantID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, c.ID, c.TenantID); err != nil {
			return err
		}
	}
	return nil
}

// ToggleStatus flips is_active and returns the updated category.
func (r *CategoryRepo) ToggleStatus(ctx context.Context, id, tenantID uint64) (model.Category, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_categories SET is_active = NOT is_active WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return model.Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Category{}, ErrCategoryNotFound
	}
	return r.GetByID(ctx, id, tenantID)
}

// Delete removes a category that has no menu items.  A category still
// referenced by items yields ErrConflict so the dashboard can explain why.
func (r *CategoryRepo) Delete(ctx context.Context, id, tenantID uint64) error {
	var count int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM menu_items WHERE category_id=? AND tenant_id=?", id, tenantID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM menu_categories WHERE id=? AND tenant_id=?", id, tenantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
