// Package tenants manages business accounts: registration, approval
// by the platform administrator, and company requisites.
package tenants

import (
	"context"

	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
)

// Repository defines tenant storage operations. Tenants are platform
// level rows, not scoped by a tenant id themselves.
type Repository interface {
	// Create inserts a new tenant.
	Create(ctx context.Context, t *tenant.Tenant) error

	// GetByID retrieves a tenant.
	GetByID(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error)

	// GetByJIB retrieves a tenant by its JIB.
	GetByJIB(ctx context.Context, jib string) (*tenant.Tenant, error)

	// Update modifies tenant requisites.
	Update(ctx context.Context, t *tenant.Tenant) error

	// UpdateStatus moves a tenant through the approval workflow.
	UpdateStatus(ctx context.Context, tenantID id.ID, status string) error

	// List retrieves all tenants, optionally filtered by status.
	List(ctx context.Context, status string) ([]tenant.Tenant, error)
}
