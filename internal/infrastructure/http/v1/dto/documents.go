package dto

import (
	"time"

	"bherp/internal/core/types"
)

// DocumentItemRequest is one priced line in a document payload.
type DocumentItemRequest struct {
	// InventoryItemID links the line to a stocked article. Free-text
	// lines leave it empty.
	InventoryItemID string `json:"inventoryItemId"`

	Code         string         `json:"code"`
	Description  string         `json:"description" binding:"required"`
	Quantity     types.Money    `json:"quantity"`
	Unit         string         `json:"unit"`
	PricePerUnit types.Money    `json:"pricePerUnit"`
	Discount     types.Percent  `json:"discount"`
	VATRate      types.Percent  `json:"vatRate"`
	MarginPct    *types.Percent `json:"marginPercent"`
}

// CreateDocumentRequest creates an invoice, offer, purchase order or
// calculation. The client snapshot is resolved from the registry.
type CreateDocumentRequest struct {
	Type     string `json:"type" binding:"required"`
	ClientID string `json:"clientId" binding:"required"`

	DateCreated  *time.Time `json:"dateCreated"`
	DateDue      *time.Time `json:"dateDue"`
	DateDelivery *time.Time `json:"dateDelivery"`
	TaxPeriod    string     `json:"taxPeriod"`

	PlaceOfIssue  string `json:"placeOfIssue"`
	PaymentMethod string `json:"paymentMethod"`

	Language string `json:"language"`
	Currency string `json:"currency"`

	Items []DocumentItemRequest `json:"items"`

	// Calculation-only fields.
	SupplierInvoiceNumber string      `json:"supplierInvoiceNumber"`
	TransportCosts        types.Money `json:"transportCosts"`
	CustomsCosts          types.Money `json:"customsCosts"`
	OtherCosts            types.Money `json:"otherCosts"`
}

// UpdateDocumentRequest rewrites a document. Version is required for
// optimistic locking.
type UpdateDocumentRequest struct {
	CreateDocumentRequest
	PaymentStatus string `json:"paymentStatus"`
	Version       int    `json:"version" binding:"required,min=1"`
}
