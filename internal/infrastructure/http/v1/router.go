// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bherp/internal/domain/advisory"
	"bherp/internal/domain/audit"
	"bherp/internal/domain/auth"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/domain/catalogs/inventory"
	"bherp/internal/domain/documents"
	"bherp/internal/domain/taxbook"
	"bherp/internal/domain/tenants"
	"bherp/internal/infrastructure/http/v1/handlers"
	"bherp/internal/infrastructure/http/v1/middleware"
	"bherp/internal/infrastructure/storage/postgres"
	"bherp/pkg/logger"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Logger *logger.Logger

	// Pool is used by health checks only; everything else goes through
	// the services.
	Pool *postgres.Pool

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// TenantGetter backs the approved-tenant guard.
	TenantGetter middleware.TenantGetter

	AuthService      *auth.Service
	TenantService    *tenants.Service
	ClientService    *client.Service
	InventoryService *inventory.Service
	DocumentService  *documents.Service
	TaxBookService   *taxbook.Service

	// AdvisoryService is optional; advisory routes are skipped when nil.
	AdvisoryService *advisory.Service

	// AuditRecorder persists the audit trail of mutating operations.
	AuditRecorder audit.Recorder
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware. ErrorHandler sits outside Recovery so a
	// recovered panic is still rendered as a JSON error.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	api := router.Group("/api/v1")
	{
		// Public auth endpoints
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// Everything below requires a valid token
		authed := api.Group("")
		authed.Use(middleware.Auth(cfg.JWTValidator))

		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/auth/change-password", authHandler.ChangePassword)

		registerTenantRoutes(authed, baseHandler, cfg)

		// Business routes additionally require an approved tenant
		business := authed.Group("")
		business.Use(middleware.RequireApprovedTenant(cfg.TenantGetter))

		registerCatalogRoutes(business, baseHandler, cfg)
		registerDocumentRoutes(business, baseHandler, cfg)
		registerTaxBookRoutes(business, baseHandler, cfg)
		registerAdvisoryRoutes(business, baseHandler, cfg)
		registerAuditRoutes(business, baseHandler, cfg)
	}

	return router
}

func registerTenantRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewTenantHandler(base, cfg.TenantService, cfg.AuditRecorder)

	// A tenant's own users may update their requisites.
	rg.PUT("/tenants/:id/requisites", handler.UpdateRequisites)

	// Platform administration
	admin := rg.Group("/admin/tenants")
	admin.Use(middleware.RequireSuperAdmin())
	{
		admin.GET("", handler.List)
		admin.GET("/:id", handler.Get)
		admin.POST("/:id/approve", handler.Approve)
		admin.POST("/:id/reject", handler.Reject)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	clientHandler := handlers.NewClientHandler(base, cfg.ClientService, cfg.AuditRecorder)
	clientsGroup := rg.Group("/clients")
	{
		clientsGroup.GET("", clientHandler.List)
		clientsGroup.POST("", clientHandler.Create)
		clientsGroup.GET("/by-jib/:jib", clientHandler.FindByJIB)
		clientsGroup.GET("/:id", clientHandler.Get)
		clientsGroup.PUT("/:id", clientHandler.Update)
		clientsGroup.DELETE("/:id", clientHandler.Delete)
		clientsGroup.POST("/:id/deletion-mark", clientHandler.SetDeletionMark)
	}

	itemHandler := handlers.NewInventoryHandler(base, cfg.InventoryService, cfg.AuditRecorder)
	itemsGroup := rg.Group("/inventory")
	{
		itemsGroup.GET("", itemHandler.List)
		itemsGroup.POST("", itemHandler.Create)
		itemsGroup.GET("/by-code/:code", itemHandler.GetByCode)
		itemsGroup.GET("/:id", itemHandler.Get)
		itemsGroup.PUT("/:id", itemHandler.Update)
		itemsGroup.DELETE("/:id", itemHandler.Delete)
		itemsGroup.POST("/:id/deletion-mark", itemHandler.SetDeletionMark)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewDocumentHandler(base, cfg.DocumentService, cfg.ClientService, cfg.AuditRecorder)

	docs := rg.Group("/documents")
	{
		docs.GET("", handler.List)
		docs.POST("", handler.Create)
		docs.GET("/:id", handler.Get)
		docs.PUT("/:id", handler.Update)
		docs.DELETE("/:id", handler.Delete)
		docs.POST("/:id/copy", handler.Copy)
		docs.GET("/:id/totals", handler.Totals)
		docs.GET("/:id/cost-distribution", handler.CostDistribution)
	}
}

func registerTaxBookRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewTaxBookHandler(base, cfg.TaxBookService)
	rg.GET("/tax-books/:ledger", handler.Get)
}

func registerAuditRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.AuditRecorder == nil {
		return
	}

	handler := handlers.NewAuditHandler(base, cfg.AuditRecorder)
	rg.GET("/audit/:entityType/:id", handler.History)
}

func registerAdvisoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.AdvisoryService == nil {
		return
	}

	handler := handlers.NewAdvisoryHandler(base, cfg.AdvisoryService, cfg.DocumentService)
	adv := rg.Group("/advisory")
	{
		adv.POST("/documents/:id/analyze", handler.AnalyzeDocument)
		adv.POST("/descriptions", handler.GenerateDescription)
	}
}
