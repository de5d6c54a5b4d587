package client

import (
	"context"

	"bherp/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// FindByJIB retrieves a client by JIB (unique within tenant).
	FindByJIB(ctx context.Context, jib string) (*Client, error)
}
