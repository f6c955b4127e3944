// Package queue defines message payloads exchanged over the message broker.
package queue

// CatalogChangedEvent is published whenever a tenant's menu catalog is
// mutated (categories, items or modifiers). It carries enough context for
// downstream consumers to log or invalidate caches without querying the
// primary database.
type CatalogChangedEvent struct {
	TenantID   uint64 `json:"tenant_id"`
	ActorID    uint64 `json:"actor_id"`
	Entity     string `json:"entity"` // "category", "item" or "modifier"
	EntityID   uint64 `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Action     string `json:"action"` // "created", "updated", "toggled", "deleted", "assigned", "unassigned"
	OccurredAt string `json:"occurred_at"`
}
