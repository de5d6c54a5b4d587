package inventory

import (
	"context"

	"bherp/internal/core/id"
	"bherp/internal/domain"
)

// Repository defines the interface for inventory persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetByIDs retrieves multiple items in one query.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Item, error)

	// GetForUpdate retrieves items with row locks, for stock adjustment
	// inside a transaction.
	GetForUpdate(ctx context.Context, ids []id.ID) ([]*Item, error)

	// UpdateQuantities writes back adjusted stock levels.
	UpdateQuantities(ctx context.Context, items []*Item) error
}
