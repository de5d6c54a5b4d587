package handlers

import (
	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/domain/audit"
	"bherp/internal/domain/tenants"
	"bherp/internal/infrastructure/http/v1/dto"
)

// TenantHandler handles tenant administration endpoints.
type TenantHandler struct {
	*BaseHandler
	service  *tenants.Service
	recorder audit.Recorder
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(base *BaseHandler, service *tenants.Service, recorder audit.Recorder) *TenantHandler {
	return &TenantHandler{
		BaseHandler: base,
		service:     service,
		recorder:    recorder,
	}
}

func (h *TenantHandler) recordAudit(c *gin.Context, tenantID id.ID, action audit.Action) {
	if h.recorder == nil {
		return
	}
	entry, err := audit.NewEntry("tenant", tenantID, action, nil)
	if err != nil {
		return
	}
	_ = h.recorder.Record(c.Request.Context(), entry)
}

// List handles GET /admin/tenants?status=PENDING
func (h *TenantHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      list,
		TotalCount: int64(len(list)),
		Limit:      len(list),
		Offset:     0,
	})
}

// Get handles GET /admin/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, t)
}

// Approve handles POST /admin/tenants/:id/approve
func (h *TenantHandler) Approve(c *gin.Context) {
	tenantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Approve(c.Request.Context(), tenantID); err != nil {
		h.Error(c, err)
		return
	}

	h.recordAudit(c, tenantID, audit.ActionApprove)
	h.Success(c, "tenant approved")
}

// Reject handles POST /admin/tenants/:id/reject
func (h *TenantHandler) Reject(c *gin.Context) {
	tenantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Reject(c.Request.Context(), tenantID); err != nil {
		h.Error(c, err)
		return
	}

	h.recordAudit(c, tenantID, audit.ActionReject)
	h.Success(c, "tenant rejected")
}

// UpdateRequisites handles PUT /tenants/:id/requisites
// A tenant's own users update their company data here.
func (h *TenantHandler) UpdateRequisites(c *gin.Context) {
	tenantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateTenantRequisitesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	t.Name = req.Name
	t.Address = req.Address
	t.City = req.City
	t.Zip = req.Zip
	t.JIB = req.JIB
	t.PDVNumber = req.PDVNumber
	t.Email = req.Email
	t.Phone = req.Phone
	t.DefaultPlaceOfIssue = req.DefaultPlaceOfIssue

	if err := h.service.UpdateRequisites(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, t)
}
