package model

import "time"

// Category represents a menu category row in `menu_categories`.  Categories
// group menu items and carry a display color for the dashboard.  ItemCount is
// not a column; list queries populate it with the number of items referencing
// the category.
type Category struct {
	ID          uint64    `json:"id"`
	TenantID    uint64    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItem represents a sellable dish in `menu_items`.  Prices are stored in
// cents to avoid floating point drift.  Modifiers is populated only when a
// single item is fetched; list endpoints leave it nil.
type MenuItem struct {
	ID              uint64     `json:"id"`
	TenantID        uint64     `json:"tenantId"`
	CategoryID      uint64     `json:"categoryId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	PriceCents      uint32     `json:"priceCents"`
	ImageURL        string     `json:"imageUrl"`
	PreparationTime int        `json:"preparationTime"` // minutes
	IsAvailable     bool       `json:"isAvailable"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Modifiers       []Modifier `json:"modifiers,omitempty"`
}

// Modifier represents an optional add-on in `menu_modifiers` (e.g. "extra
// cheese").  A modifier can be assigned to any number of menu items through
// the `menu_item_modifiers` join table.
type Modifier struct {
	ID          uint64    `json:"id"`
	TenantID    uint64    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  uint32    `json:"priceCents"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
