package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/openpos/pos-admin/internal/model"
)

// ListCategories returns the tenant's menu categories with item counts.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := c.get(ctx, "/v1/menu-categories", &out)
	return out, err
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, in model.Category) (model.Category, error) {
	var out model.Category
	err := c.post(ctx, "/v1/menu-categories", in, &out)
	return out, err
}

// ToggleCategory flips a category's active flag.
func (c *Client) ToggleCategory(ctx context.Context, id uint64) (model.Category, error) {
	var out model.Category
	err := c.patch(ctx, idPath("/v1/menu-categories", id)+"/toggle-status", nil, &out)
	return out, err
}

// DeleteCategory removes an empty category.
func (c *Client) DeleteCategory(ctx context.Context, id uint64) error {
	return c.delete(ctx, idPath("/v1/menu-categories", id))
}

// ItemQuery narrows ListItems. Zero values mean no filter.
type ItemQuery struct {
	CategoryID uint64
	Available  *bool
	Search     string
}

// ListItems returns menu items, optionally filtered.
func (c *Client) ListItems(ctx context.Context, q ItemQuery) ([]model.MenuItem, error) {
	vals := url.Values{}
	if q.CategoryID != 0 {
		vals.Set("category", strconv.FormatUint(q.CategoryID, 10))
	}
	if q.Available != nil {
		vals.Set("available", strconv.FormatBool(*q.Available))
	}
	if q.Search != "" {
		vals.Set("q", q.Search)
	}
	path := "/v1/menu-items"
	if enc := vals.Encode(); enc != "" {
		path += "?" + enc
	}
	var out []model.MenuItem
	err := c.get(ctx, path, &out)
	return out, err
}

// GetItem returns one menu item with its assigned modifiers.
func (c *Client) GetItem(ctx context.Context, id uint64) (model.MenuItem, error) {
	var out model.MenuItem
	err := c.get(ctx, idPath("/v1/menu-items", id), &out)
	return out, err
}

// CreateItem adds a menu item.
func (c *Client) CreateItem(ctx context.Context, in model.MenuItem) (model.MenuItem, error) {
	var out model.MenuItem
	err := c.post(ctx, "/v1/menu-items", in, &out)
	return out, err
}

// ToggleItem flips an item's availability.
func (c *Client) ToggleItem(ctx context.Context, id uint64) (model.MenuItem, error) {
	var out model.MenuItem
	err := c.patch(ctx, idPath("/v1/menu-items", id)+"/toggle-availability", nil, &out)
	return out, err
}

// DeleteItem removes a menu item.
func (c *Client) DeleteItem(ctx context.Context, id uint64) error {
	return c.delete(ctx, idPath("/v1/menu-items", id))
}

// ListModifiers returns the tenant's modifiers.
func (c *Client) ListModifiers(ctx context.Context) ([]model.Modifier, error) {
	var out []model.Modifier
	err := c.get(ctx, "/v1/menu-modifiers", &out)
	return out, err
}

// CreateModifier adds a modifier.
func (c *Client) CreateModifier(ctx context.Context, in model.Modifier) (model.Modifier, error) {
	var out model.Modifier
	err := c.post(ctx, "/v1/menu-modifiers", in, &out)
	return out, err
}

// AssignModifier links a modifier to a menu item.
func (c *Client) AssignModifier(ctx context.Context, modifierID, itemID uint64) error {
	return c.post(ctx, fmt.Sprintf("/v1/menu-modifiers/%d/assign/%d", modifierID, itemID), nil, nil)
}

// UnassignModifier unlinks a modifier from a menu item.
func (c *Client) UnassignModifier(ctx context.Context, modifierID, itemID uint64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/menu-modifiers/%d/assign/%d", modifierID, itemID))
}
