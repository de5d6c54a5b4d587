// Package main is the entry point for the bherp API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"

	"bherp/internal/core/tax"
	"bherp/internal/domain/advisory"
	"bherp/internal/domain/auth"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/domain/catalogs/inventory"
	"bherp/internal/domain/documents"
	"bherp/internal/domain/taxbook"
	"bherp/internal/domain/tenants"
	v1 "bherp/internal/infrastructure/http/v1"
	"bherp/internal/infrastructure/storage/postgres"
	"bherp/internal/infrastructure/storage/postgres/auth_repo"
	"bherp/internal/infrastructure/storage/postgres/catalog_repo"
	"bherp/internal/infrastructure/storage/postgres/document_repo"
	"bherp/pkg/logger"
	"bherp/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting bherp server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	clientRepo := catalog_repo.NewClientRepo(txManager)
	inventoryRepo := catalog_repo.NewInventoryRepo(txManager)
	documentRepo := document_repo.NewDocumentRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tenantRepo := auth_repo.NewTenantRepo(txManager)

	auditRecorder, err := postgres.NewAuditRecorder(txManager)
	if err != nil {
		log.Fatalw("failed to create audit recorder", "error", err)
	}

	// --- Numbering ---
	numeratorService := numerator.New(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Services ---
	policy := tax.Bosnia()

	clientService := client.NewService(clientRepo, txManager, log)
	inventoryService := inventory.NewService(inventoryRepo, txManager, log)
	documentService := documents.NewService(documentRepo, inventoryService, txManager, numeratorService, policy, log)
	taxBookService := taxbook.NewService(documentRepo, policy, log)
	tenantService := tenants.NewService(tenantRepo, txManager, log)
	authService := auth.NewService(userRepo, tenantRepo, txManager, jwtService, auth.DefaultServiceConfig(), log)

	var advisoryService *advisory.Service
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		advisoryService = advisory.NewService(openai.NewClient(apiKey), log)
		log.Info("advisory service enabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		Pool:             pool,
		JWTValidator:     jwtService,
		TenantGetter:     tenantRepo,
		AuthService:      authService,
		TenantService:    tenantService,
		ClientService:    clientService,
		InventoryService: inventoryService,
		DocumentService:  documentService,
		TaxBookService:   taxBookService,
		AdvisoryService:  advisoryService,
		AuditRecorder:    auditRecorder,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
