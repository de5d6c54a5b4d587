package documents

import (
	"context"
	"time"

	"bherp/internal/core/id"
	"bherp/internal/domain"
)

// ListFilter narrows document list queries.
type ListFilter struct {
	// Types filters by document type (empty means all)
	Types []DocType

	// TaxPeriod filters by statutory period ("2024-05")
	TaxPeriod string

	// DateFrom / DateTo bound the document date
	DateFrom *time.Time
	DateTo   *time.Time

	// Search matches number and client name
	Search string

	// PaymentStatus filters invoices by payment state
	PaymentStatus string

	IncludeDeleted bool

	// OrderBy specifies sorting (e.g., "date_created", "-date_created")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults: newest first.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date_created",
	}
}

// Repository defines the interface for document persistence.
// Implementations scope every query to the tenant in context.
type Repository interface {
	// Create inserts a new document with its items
	Create(ctx context.Context, doc *Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, docID id.ID) (*Document, error)

	// Update modifies an existing document (with optimistic locking)
	Update(ctx context.Context, doc *Document) error

	// SetDeletionMark sets or clears the soft-delete mark
	SetDeletionMark(ctx context.Context, docID id.ID, marked bool) error

	// List retrieves documents with filtering and pagination
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)

	// ListByPeriodAndType returns all live documents of one type in a
	// tax period, in creation order. Feeds the tax book builder.
	ListByPeriodAndType(ctx context.Context, period string, docType DocType) ([]Document, error)

	// Exists checks if a document with given ID exists
	Exists(ctx context.Context, docID id.ID) (bool, error)
}
