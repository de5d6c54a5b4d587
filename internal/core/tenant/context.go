// Package tenant carries the active tenant through request context.
// Tenancy is a shared database: every business table has a tenant_id
// column and repositories filter on the value stored here.
package tenant

import (
	"context"
	"errors"

	"bherp/internal/core/id"
)

// ErrNoTenant is returned when an operation requires a tenant but the
// context carries none.
var ErrNoTenant = errors.New("no tenant in context")

// Status of a tenant account. New tenants start PENDING and must be
// approved before their users can work with documents.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Tenant is an isolated business account. Company requisites are what
// documents print in their header (name, JIB, PDV number, bank accounts).
type Tenant struct {
	ID        id.ID  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Address   string `db:"address" json:"address"`
	City      string `db:"city" json:"city"`
	Zip       string `db:"zip" json:"zip"`
	JIB       string `db:"jib" json:"jib"`
	PDVNumber string `db:"pdv_number" json:"pdvNumber,omitempty"`
	Email     string `db:"email" json:"email,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Status    string `db:"status" json:"status"`

	// DefaultPlaceOfIssue is copied onto new documents.
	DefaultPlaceOfIssue string `db:"default_place_of_issue" json:"defaultPlaceOfIssue,omitempty"`
}

// IsApproved reports whether the tenant may use the system.
func (t *Tenant) IsApproved() bool {
	return t.Status == StatusApproved
}

type tenantIDKey struct{}

// WithTenantID stores the active tenant id in context.
func WithTenantID(ctx context.Context, tenantID id.ID) context.Context {
	return context.WithValue(ctx, tenantIDKey{}, tenantID)
}

// GetTenantID returns the active tenant id, or the nil id when the
// context carries none.
func GetTenantID(ctx context.Context) id.ID {
	if v, ok := ctx.Value(tenantIDKey{}).(id.ID); ok {
		return v
	}
	return id.Nil()
}

// RequireTenantID returns the active tenant id or ErrNoTenant.
func RequireTenantID(ctx context.Context) (id.ID, error) {
	if tid := GetTenantID(ctx); !id.IsNil(tid) {
		return tid, nil
	}
	return id.Nil(), ErrNoTenant
}
