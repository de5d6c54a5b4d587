package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/domain/taxbook"
)

// TaxBookHandler handles tax ledger endpoints.
type TaxBookHandler struct {
	*BaseHandler
	service *taxbook.Service
}

// NewTaxBookHandler creates a new tax book handler.
func NewTaxBookHandler(base *BaseHandler, service *taxbook.Service) *TaxBookHandler {
	return &TaxBookHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /tax-books/:ledger?period=YYYY-MM
// Ledger is KIR (sales) or KUR (purchases).
func (h *TaxBookHandler) Get(c *gin.Context) {
	ledger := taxbook.LedgerType(strings.ToUpper(c.Param("ledger")))
	if !ledger.Valid() {
		h.Error(c, apperror.NewValidation("ledger must be KIR or KUR").
			WithDetail("ledger", c.Param("ledger")))
		return
	}

	period := c.Query("period")
	if period == "" {
		h.Error(c, apperror.NewValidation("period query parameter is required"))
		return
	}

	book, err := h.service.BuildBook(c.Request.Context(), period, ledger)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, book)
}
