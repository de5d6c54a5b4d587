package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/audit"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/domain/documents"
	"bherp/internal/infrastructure/http/v1/dto"
)

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	*BaseHandler
	service  *documents.Service
	clients  *client.Service
	recorder audit.Recorder
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(base *BaseHandler, service *documents.Service, clients *client.Service, recorder audit.Recorder) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler: base,
		service:     service,
		clients:     clients,
		recorder:    recorder,
	}
}

// recordAudit writes an audit entry. Best effort: the recorder logs its
// own failures and the request outcome is never affected.
func (h *DocumentHandler) recordAudit(c *gin.Context, entityID id.ID, action audit.Action, details any) {
	if h.recorder == nil {
		return
	}
	entry, err := audit.NewEntry("document", entityID, action, details)
	if err != nil {
		return
	}
	_ = h.recorder.Record(c.Request.Context(), entry)
}

// List handles GET /documents
func (h *DocumentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := documents.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.TaxPeriod = c.Query("taxPeriod")
	filter.PaymentStatus = c.Query("paymentStatus")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date_created")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if t := c.Query("type"); t != "" {
		filter.Types = []documents.DocType{documents.DocType(t)}
	}
	if from := c.Query("dateFrom"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			h.Error(c, apperror.NewValidation("dateFrom must be YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			h.Error(c, apperror.NewValidation("dateTo must be YYYY-MM-DD"))
			return
		}
		filter.DateTo = &parsed
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Create handles POST /documents
func (h *DocumentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.buildDocument(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(ctx, doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.recordAudit(c, created.ID, audit.ActionCreate, created)
	h.Created(c, created)
}

// Update handles PUT /documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.buildDocument(c, req.CreateDocumentRequest)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Carry identity and numbering from the stored document.
	doc.BaseDocument = existing.BaseDocument
	doc.Number = existing.Number
	doc.Version = req.Version
	if req.PaymentStatus != "" {
		doc.PaymentStatus = req.PaymentStatus
	} else {
		doc.PaymentStatus = existing.PaymentStatus
	}

	updated, err := h.service.Update(ctx, doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.recordAudit(c, updated.ID, audit.ActionUpdate, updated)
	h.OK(c, updated)
}

// Delete handles DELETE /documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.recordAudit(c, docID, audit.ActionDelete, nil)
	h.NoContent(c)
}

// Copy handles POST /documents/:id/copy
// Returns an unsaved duplicate; the client edits and saves it via Create.
func (h *DocumentHandler) Copy(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	dup, err := h.service.Copy(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dup)
}

// Totals handles GET /documents/:id/totals
func (h *DocumentHandler) Totals(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	totals, err := h.service.Totals(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, totals)
}

// CostDistribution handles GET /documents/:id/cost-distribution
func (h *DocumentHandler) CostDistribution(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	dist, err := h.service.CostDistribution(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dist)
}

// buildDocument maps a request payload to a domain document, resolving
// the client snapshot from the registry.
func (h *DocumentHandler) buildDocument(c *gin.Context, req dto.CreateDocumentRequest) (*documents.Document, error) {
	ctx := c.Request.Context()

	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return nil, apperror.NewUnauthorized("no active tenant")
	}

	docType := documents.DocType(req.Type)
	if !docType.Valid() {
		return nil, apperror.NewValidation("unknown document type").WithDetail("type", req.Type)
	}

	clientID, err := id.Parse(req.ClientID)
	if err != nil {
		return nil, apperror.NewValidation("invalid clientId format")
	}

	cl, err := h.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	doc := documents.New(tenantID, docType)
	doc.Client = cl.Snapshot()

	if req.DateCreated != nil {
		doc.DateCreated = *req.DateCreated
	}
	doc.DateDue = req.DateDue
	doc.DateDelivery = req.DateDelivery
	doc.TaxPeriod = req.TaxPeriod
	doc.PlaceOfIssue = req.PlaceOfIssue
	if req.PaymentMethod != "" {
		doc.PaymentMethod = req.PaymentMethod
	}
	if req.Language != "" {
		doc.Language = req.Language
	}
	if req.Currency != "" {
		doc.Currency = req.Currency
	}

	doc.SupplierInvoiceNumber = req.SupplierInvoiceNumber
	if docType == documents.TypeCalculation {
		doc.TransportCosts = req.TransportCosts
		doc.CustomsCosts = req.CustomsCosts
		doc.OtherCosts = req.OtherCosts
	}

	doc.Items = make([]documents.DocItem, 0, len(req.Items))
	for _, item := range req.Items {
		docItem := documents.DocItem{
			ID:           id.New(),
			Code:         item.Code,
			Description:  item.Description,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			PricePerUnit: item.PricePerUnit,
			Discount:     item.Discount,
			VATRate:      item.VATRate,
		}
		if item.MarginPct != nil {
			margin := *item.MarginPct
			docItem.MarginPercent = &margin
		}
		if item.InventoryItemID != "" {
			itemID, err := id.Parse(item.InventoryItemID)
			if err != nil {
				return nil, apperror.NewValidation("invalid inventoryItemId format")
			}
			docItem.InventoryItemID = &itemID
		}
		doc.Items = append(doc.Items, docItem)
	}

	return doc, nil
}
