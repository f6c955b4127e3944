package model

import "time"

// User represents a staff account as stored in the `users` table.  Each user
// belongs to exactly one tenant.  The PasswordHash field is never serialized;
// handlers and the api client exchange the JSON shape below.
//
// Fields:
//  ID           – primary key identifier of the user.
//  TenantID     – owning tenant (users.tenant_id).
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address (unique per tenant).
//  PasswordHash – bcrypt hashed password (server side only).
//  Role         – one of the closed role set (admin/manager/waiter/kitchen).
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	TenantID     uint64    `json:"tenantId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display purposes.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     `json:"-"`
	UserID    uint64     `json:"-"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"-"`
	RevokedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"-"`
}
