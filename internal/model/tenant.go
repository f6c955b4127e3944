package model

import "time"

// Tenant represents one restaurant in the multi-tenant deployment.  A tenant
// corresponds to a row in the `tenants` table and is created together with its
// first admin user during registration.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – restaurant display name.
//  Subdomain – unique subdomain identifying the tenant.
//  IsActive  – whether the tenant is enabled.
//  CreatedAt – timestamp when the tenant was created.
//  UpdatedAt – timestamp of last update.
type Tenant struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
