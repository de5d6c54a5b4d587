// Package documents provides the priced business documents of the
// platform: invoices, offers, purchase orders and retail-price
// calculations (supplier goods receipts).
package documents

import (
	"context"
	"time"

	"bherp/internal/core/apperror"
	"bherp/internal/core/entity"
	"bherp/internal/core/id"
	"bherp/internal/core/types"
	"bherp/internal/domain/valuation"
)

// DocType identifies the kind of a priced document.
type DocType string

const (
	TypeInvoice       DocType = "INVOICE"
	TypeOffer         DocType = "OFFER"
	TypeCalculation   DocType = "CALCULATION"
	TypePurchaseOrder DocType = "PURCHASE_ORDER"
)

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	switch t {
	case TypeInvoice, TypeOffer, TypeCalculation, TypePurchaseOrder:
		return true
	}
	return false
}

// NumberPrefix returns the per-type prefix used in document numbering.
func (t DocType) NumberPrefix() string {
	switch t {
	case TypeInvoice:
		return "FA"
	case TypeOffer:
		return "PO"
	case TypeCalculation:
		return "KA"
	case TypePurchaseOrder:
		return "NA"
	}
	return "DOK"
}

// Payment methods used on Bosnian invoices.
const (
	PaymentVirman   = "Virman"   // bank transfer
	PaymentGotovina = "Gotovina" // cash
	PaymentKartica  = "Kartica"  // card
)

// Payment statuses.
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPaid    = "PAID"
	PaymentStatusOverdue = "OVERDUE"
)

// ClientSnapshot is a frozen copy of the client taken from the registry
// at creation/edit time. Later edits to the registry never change
// issued documents.
type ClientSnapshot struct {
	ID           id.ID  `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Canton       string `json:"canton,omitempty"`
	JIB          string `json:"jib,omitempty"`
	PDVNumber    string `json:"pdvNumber,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// DocItem is one priced line of a document. Owned exclusively by its
// parent document; stored inline as part of the document row.
type DocItem struct {
	ID              id.ID         `json:"id"`
	InventoryItemID *id.ID        `json:"inventoryItemId,omitempty"`
	Code            string        `json:"code,omitempty"`
	Description     string        `json:"description"`
	Quantity        types.Money   `json:"quantity"`
	Unit            string        `json:"unit"`
	PricePerUnit    types.Money   `json:"pricePerUnit"`
	Discount        types.Percent `json:"discount"`
	VATRate         types.Percent `json:"vatRate"`

	// MarginPercent overrides the policy default markup in retail-price
	// calculations. Nil means the policy default applies.
	MarginPercent *types.Percent `json:"marginPercent,omitempty"`
}

// ValuationLine converts the item into the calculation engine's input.
func (i DocItem) ValuationLine() valuation.Line {
	return valuation.Line{
		Quantity:        i.Quantity,
		PricePerUnit:    i.PricePerUnit,
		DiscountPercent: i.Discount,
		VATRate:         i.VATRate,
	}
}

// CostLine converts the item into a cost-distribution input.
func (i DocItem) CostLine() valuation.CostLine {
	return valuation.CostLine{
		Quantity:      i.Quantity,
		PricePerUnit:  i.PricePerUnit,
		VATRate:       i.VATRate,
		MarginPercent: i.MarginPercent,
	}
}

// Document is a priced transaction: invoice, offer, purchase order or
// calculation. Monetary totals are always derived from Items, never
// stored.
type Document struct {
	entity.BaseDocument

	Type   DocType `db:"type" json:"type"`
	Number string  `db:"number" json:"number"`

	DateCreated  time.Time  `db:"date_created" json:"dateCreated"`
	DateDue      *time.Time `db:"date_due" json:"dateDue,omitempty"`
	DateDelivery *time.Time `db:"date_delivery" json:"dateDelivery,omitempty"`

	// TaxPeriod is the statutory reporting period, "YYYY-MM".
	TaxPeriod string `db:"tax_period" json:"taxPeriod,omitempty"`

	PlaceOfIssue  string `db:"place_of_issue" json:"placeOfIssue,omitempty"`
	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`
	PaymentStatus string `db:"payment_status" json:"paymentStatus,omitempty"`

	Client ClientSnapshot `db:"client" json:"client"`
	Items  []DocItem      `db:"items" json:"items"`

	Language string `db:"language" json:"language,omitempty"`
	Currency string `db:"currency" json:"currency"`

	// Calculation-only fields (goods receipt from a supplier).
	SupplierInvoiceNumber string      `db:"supplier_invoice_number" json:"supplierInvoiceNumber,omitempty"`
	TransportCosts        types.Money `db:"transport_costs" json:"transportCosts"`
	CustomsCosts          types.Money `db:"customs_costs" json:"customsCosts"`
	OtherCosts            types.Money `db:"other_costs" json:"otherCosts"`
}

// New creates a document of the given type with generated ID and
// defaults matching a Bosnian small-business invoice.
func New(tenantID id.ID, docType DocType) *Document {
	return &Document{
		BaseDocument:   entity.NewBaseDocument(tenantID),
		Type:           docType,
		DateCreated:    time.Now().UTC(),
		PaymentMethod:  PaymentVirman,
		PaymentStatus:  PaymentStatusUnpaid,
		Language:       "bs",
		Currency:       "BAM",
		Items:          make([]DocItem, 0),
		TransportCosts: types.Zero(),
		CustomsCosts:   types.Zero(),
		OtherCosts:     types.Zero(),
	}
}

// IsCalculation reports whether the document carries overhead cost fields.
func (d *Document) IsCalculation() bool {
	return d.Type == TypeCalculation
}

// ValuationLines converts all items into calculation engine inputs,
// preserving item order.
func (d *Document) ValuationLines() []valuation.Line {
	lines := make([]valuation.Line, len(d.Items))
	for i, item := range d.Items {
		lines[i] = item.ValuationLine()
	}
	return lines
}

// CostLines converts all items into cost-distribution inputs.
func (d *Document) CostLines() []valuation.CostLine {
	lines := make([]valuation.CostLine, len(d.Items))
	for i, item := range d.Items {
		lines[i] = item.CostLine()
	}
	return lines
}

// OverheadCosts collects the shared cost fields of a calculation.
func (d *Document) OverheadCosts() valuation.OverheadCosts {
	return valuation.OverheadCosts{
		Transport: d.TransportCosts,
		Customs:   d.CustomsCosts,
		Other:     d.OtherCosts,
	}
}

// Totals recomputes the document totals from its items.
func (d *Document) Totals() valuation.Totals {
	return valuation.AggregateTotals(d.ValuationLines())
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if !d.Type.Valid() {
		return apperror.NewValidation("unknown document type").
			WithDetail("field", "type").
			WithDetail("value", string(d.Type))
	}

	if d.DateCreated.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "dateCreated")
	}

	if d.Client.Name == "" {
		return apperror.NewValidation("client is required").
			WithDetail("field", "client")
	}

	if d.TaxPeriod != "" {
		if _, err := time.Parse("2006-01", d.TaxPeriod); err != nil {
			return apperror.NewValidation("tax period must be YYYY-MM").
				WithDetail("field", "taxPeriod").
				WithDetail("value", d.TaxPeriod)
		}
	}

	for idx, item := range d.Items {
		if item.Quantity.IsNegative() {
			return apperror.NewValidation("item quantity cannot be negative").
				WithDetail("line", idx+1)
		}
		if item.PricePerUnit.IsNegative() {
			return apperror.NewValidation("item price cannot be negative").
				WithDetail("line", idx+1)
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThan(types.Hundred) {
			return apperror.NewValidation("item discount must be between 0 and 100").
				WithDetail("line", idx+1)
		}
		if item.VATRate.IsNegative() {
			return apperror.NewValidation("item vat rate cannot be negative").
				WithDetail("line", idx+1)
		}
	}

	if d.IsCalculation() {
		if d.TransportCosts.IsNegative() || d.CustomsCosts.IsNegative() || d.OtherCosts.IsNegative() {
			return apperror.NewValidation("overhead costs cannot be negative")
		}
	}

	return nil
}

// SoldQuantities sums sold quantity per referenced inventory item.
// Lines without an inventory link are skipped.
func (d *Document) SoldQuantities() map[id.ID]types.Money {
	sold := make(map[id.ID]types.Money)
	for _, item := range d.Items {
		if item.InventoryItemID == nil {
			continue
		}
		key := *item.InventoryItemID
		if prev, ok := sold[key]; ok {
			sold[key] = prev.Add(item.Quantity)
		} else {
			sold[key] = item.Quantity
		}
	}
	return sold
}
