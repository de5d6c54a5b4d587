package handlers

import (
	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/audit"
	"bherp/internal/domain/catalogs/inventory"
	"bherp/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles inventory catalog endpoints.
type InventoryHandler struct {
	*CatalogHandler[*inventory.Item, dto.CreateInventoryItemRequest, dto.UpdateInventoryItemRequest]
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service, recorder audit.Recorder) *InventoryHandler {
	return &InventoryHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*inventory.Item, dto.CreateInventoryItemRequest, dto.UpdateInventoryItemRequest]{
			Service:      service.CatalogService,
			EntityName:   "inventory_item",
			Recorder:     recorder,
			MapCreateDTO: mapCreateItem,
			MapUpdateDTO: mapUpdateItem,
		}),
		service: service,
	}
}

func mapCreateItem(c *gin.Context, req dto.CreateInventoryItemRequest) (*inventory.Item, error) {
	tenantID, err := tenant.RequireTenantID(c.Request.Context())
	if err != nil {
		return nil, apperror.NewUnauthorized("no active tenant")
	}

	item := inventory.New(tenantID, req.Code, req.Name, req.Unit)
	item.Category = req.Category
	item.CostPrice = req.CostPrice
	item.SalePrice = req.SalePrice
	item.VATRate = req.VATRate
	item.Quantity = req.Quantity
	return item, nil
}

func mapUpdateItem(req dto.UpdateInventoryItemRequest, existing *inventory.Item) *inventory.Item {
	existing.Code = req.Code
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Unit = req.Unit
	existing.CostPrice = req.CostPrice
	existing.SalePrice = req.SalePrice
	existing.VATRate = req.VATRate
	existing.Quantity = req.Quantity
	existing.Version = req.Version
	return existing
}

// GetByCode handles GET /inventory/by-code/:code
func (h *InventoryHandler) GetByCode(c *gin.Context) {
	item, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}
