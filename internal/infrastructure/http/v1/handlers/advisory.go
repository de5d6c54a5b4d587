package handlers

import (
	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/domain/advisory"
	"bherp/internal/domain/documents"
	"bherp/internal/infrastructure/http/v1/dto"
)

// AdvisoryHandler handles AI advisory endpoints.
type AdvisoryHandler struct {
	*BaseHandler
	service *advisory.Service
	docs    *documents.Service
}

// NewAdvisoryHandler creates a new advisory handler.
func NewAdvisoryHandler(base *BaseHandler, service *advisory.Service, docs *documents.Service) *AdvisoryHandler {
	return &AdvisoryHandler{
		BaseHandler: base,
		service:     service,
		docs:        docs,
	}
}

// AnalyzeDocument handles POST /advisory/documents/:id/analyze
func (h *AdvisoryHandler) AnalyzeDocument(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.docs.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	text := h.service.AnalyzeDocument(c.Request.Context(), doc)
	h.OK(c, dto.AdvisoryResponse{Text: text})
}

// GenerateDescription handles POST /advisory/descriptions
func (h *AdvisoryHandler) GenerateDescription(c *gin.Context) {
	var req dto.GenerateDescriptionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	text := h.service.GenerateDescription(c.Request.Context(), req.ProductName, req.Language)
	h.OK(c, dto.AdvisoryResponse{Text: text})
}
