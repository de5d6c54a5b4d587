package dto

import "bherp/internal/core/types"

// CreateInventoryItemRequest creates a stocked article.
type CreateInventoryItemRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Unit     string `json:"unit" binding:"required"`

	CostPrice types.Money   `json:"costPrice"`
	SalePrice types.Money   `json:"salePrice"`
	VATRate   types.Percent `json:"vatRate"`
	Quantity  types.Money   `json:"quantity"`
}

// UpdateInventoryItemRequest rewrites an article. Version is required
// for optimistic locking.
type UpdateInventoryItemRequest struct {
	CreateInventoryItemRequest
	Version int `json:"version" binding:"required,min=1"`
}
