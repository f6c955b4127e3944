package apiclient

import (
	"context"

	"github.com/openpos/pos-admin/internal/model"
)

// TenantUpdate carries partial tenant settings; nil fields stay unchanged.
type TenantUpdate struct {
	Name      *string `json:"name,omitempty"`
	Subdomain *string `json:"subdomain,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// CurrentTenant fetches the caller's restaurant profile.
func (c *Client) CurrentTenant(ctx context.Context) (model.Tenant, error) {
	var t model.Tenant
	err := c.get(ctx, "/v1/tenants/current", &t)
	return t, err
}

// UpdateTenant patches the tenant's settings (admin only).
func (c *Client) UpdateTenant(ctx context.Context, id uint64, upd TenantUpdate) (model.Tenant, error) {
	var t model.Tenant
	err := c.patch(ctx, idPath("/v1/tenants", id), upd, &t)
	return t, err
}
