package apiclient

import (
	"context"

	"github.com/openpos/pos-admin/internal/model"
)

// NewStaff is the payload for adding a staff account.
type NewStaff struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// StaffUpdate carries partial staff edits; nil fields stay unchanged.
type StaffUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// StaffCount reports usage against the tenant's staff cap.
type StaffCount struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

// ListStaff returns every staff account of the tenant.
func (c *Client) ListStaff(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.get(ctx, "/v1/users", &out)
	return out, err
}

// CountStaff returns the tenant's staff usage and cap.
func (c *Client) CountStaff(ctx context.Context) (StaffCount, error) {
	var out StaffCount
	err := c.get(ctx, "/v1/users/count", &out)
	return out, err
}

// Me fetches the signed-in user's own profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.get(ctx, "/v1/users/profile/me", &out)
	return out, err
}

// CreateStaff adds a staff account.
func (c *Client) CreateStaff(ctx context.Context, in NewStaff) (model.User, error) {
	var out model.User
	err := c.post(ctx, "/v1/users", in, &out)
	return out, err
}

// UpdateStaff patches a staff account.
func (c *Client) UpdateStaff(ctx context.Context, id uint64, upd StaffUpdate) (model.User, error) {
	var out model.User
	err := c.patch(ctx, idPath("/v1/users", id), upd, &out)
	return out, err
}

// DeactivateStaff soft-deletes a staff account.
func (c *Client) DeactivateStaff(ctx context.Context, id uint64) error {
	return c.delete(ctx, idPath("/v1/users", id))
}
