package handlers

import (
	"github.com/gin-gonic/gin"

	"bherp/internal/core/apperror"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/audit"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles client registry endpoints.
type ClientHandler struct {
	*CatalogHandler[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest]
	service *client.Service
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *client.Service, recorder audit.Recorder) *ClientHandler {
	return &ClientHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest]{
			Service:      service.CatalogService,
			EntityName:   "client",
			Recorder:     recorder,
			MapCreateDTO: mapCreateClient,
			MapUpdateDTO: mapUpdateClient,
		}),
		service: service,
	}
}

func mapCreateClient(c *gin.Context, req dto.CreateClientRequest) (*client.Client, error) {
	tenantID, err := tenant.RequireTenantID(c.Request.Context())
	if err != nil {
		return nil, apperror.NewUnauthorized("no active tenant")
	}

	cl := client.New(tenantID, req.Name, req.Address, req.City, req.JIB)
	cl.Code = req.Code
	cl.ShortName = req.ShortName
	cl.Zip = req.Zip
	cl.Municipality = req.Municipality
	cl.Canton = req.Canton
	if req.Country != "" {
		cl.Country = req.Country
	}
	cl.PDVNumber = req.PDVNumber
	cl.Email = req.Email
	cl.Phone = req.Phone
	cl.Web = req.Web
	cl.BankAccount = req.BankAccount
	cl.ContactPerson = req.ContactPerson
	return cl, nil
}

func mapUpdateClient(req dto.UpdateClientRequest, existing *client.Client) *client.Client {
	existing.Code = req.Code
	existing.Name = req.Name
	existing.ShortName = req.ShortName
	existing.Address = req.Address
	existing.City = req.City
	existing.Zip = req.Zip
	existing.Municipality = req.Municipality
	existing.Canton = req.Canton
	existing.Country = req.Country
	existing.JIB = req.JIB
	existing.PDVNumber = req.PDVNumber
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Web = req.Web
	existing.BankAccount = req.BankAccount
	existing.ContactPerson = req.ContactPerson
	existing.Version = req.Version
	return existing
}

// FindByJIB handles GET /clients/by-jib/:jib
func (h *ClientHandler) FindByJIB(c *gin.Context) {
	cl, err := h.service.FindByJIB(c.Request.Context(), c.Param("jib"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}
