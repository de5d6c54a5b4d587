// Package inventory provides the inventory item catalog and the stock
// depletion applied when invoices are finalized.
package inventory

import (
	"context"

	"bherp/internal/core/apperror"
	"bherp/internal/core/entity"
	"bherp/internal/core/id"
	"bherp/internal/core/types"
)

// Item is one stocked article.
type Item struct {
	entity.BaseCatalog

	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category,omitempty"`
	Unit     string `db:"unit" json:"unit"`

	CostPrice types.Money   `db:"cost_price" json:"costPrice"`
	SalePrice types.Money   `db:"sale_price" json:"salePrice"`
	VATRate   types.Percent `db:"vat_rate" json:"vatRate"`

	// Quantity is the on-hand stock level. It may go negative: invoices
	// are not blocked on overselling, the shortfall just shows up here.
	Quantity types.Money `db:"quantity" json:"quantity"`
}

// New creates a new inventory item.
func New(tenantID id.ID, code, name, unit string) *Item {
	return &Item{
		BaseCatalog: entity.NewBaseCatalog(tenantID),
		Code:        code,
		Name:        name,
		Unit:        unit,
		CostPrice:   types.Zero(),
		SalePrice:   types.Zero(),
		VATRate:     types.Zero(),
		Quantity:    types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if i.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if i.CostPrice.IsNegative() || i.SalePrice.IsNegative() {
		return apperror.NewValidation("prices cannot be negative")
	}

	if i.VATRate.IsNegative() {
		return apperror.NewValidation("vat rate cannot be negative").
			WithDetail("field", "vatRate")
	}

	return nil
}
