// Package main provides a CLI tool for seeding the database with
// initial data: the platform admin and, optionally, a demo firm.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	appctx "bherp/internal/core/context"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/auth"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/domain/catalogs/inventory"
	"bherp/internal/infrastructure/storage/postgres"
	"bherp/internal/infrastructure/storage/postgres/auth_repo"
	"bherp/internal/infrastructure/storage/postgres/catalog_repo"
	"bherp/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedSuperAdmin(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed super admin", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoTenant(ctx, pool, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedSuperAdmin(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@bherp.local"
	}

	userRepo := auth_repo.NewUserRepo(txManager)

	exists, err := userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		log.Infow("super admin already exists", "username", username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(username, email, string(hash), auth.RoleSuperAdmin, nil)
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("super admin created", "username", username, "user_id", admin.ID)
	return nil
}

func seedDemoTenant(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) error {
	log.Info("seeding demo data...")

	demoJIB := "4200000000001"

	var tenantID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM sys_tenants WHERE jib = $1`, demoJIB,
	).Scan(&tenantID)
	if err == nil {
		log.Infow("demo tenant already exists", "tenant_id", tenantID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check demo tenant: %w", err)
	}

	tenantRepo := auth_repo.NewTenantRepo(txManager)

	demo := &tenant.Tenant{
		ID:                  id.New(),
		Name:                "Demo d.o.o.",
		Address:             "Zmaja od Bosne 1",
		City:                "Sarajevo",
		Zip:                 "71000",
		JIB:                 demoJIB,
		PDVNumber:           "420000000000",
		Email:               "info@demo.ba",
		Status:              tenant.StatusApproved,
		DefaultPlaceOfIssue: "Sarajevo",
	}
	if err := tenantRepo.Create(ctx, demo); err != nil {
		return fmt.Errorf("create demo tenant: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Demo123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userRepo := auth_repo.NewUserRepo(txManager)
	demoUser := auth.NewUser("demo", "demo@demo.ba", string(hash), auth.RoleUser, &demo.ID)
	if err := userRepo.Create(ctx, demoUser); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	// Catalog repos stamp tenant_id from context.
	seedCtx := tenant.WithTenantID(ctx, demo.ID)
	seedCtx = appctx.WithUser(seedCtx, &appctx.UserContext{
		UserID:   demoUser.ID.String(),
		TenantID: demo.ID.String(),
		Username: demoUser.Username,
		Role:     demoUser.Role,
	})

	if err := seedDemoClients(seedCtx, txManager); err != nil {
		return err
	}
	if err := seedDemoInventory(seedCtx, txManager); err != nil {
		return err
	}

	log.Infow("demo tenant seeded",
		"tenant_id", demo.ID,
		"username", demoUser.Username,
	)
	return nil
}

func seedDemoClients(ctx context.Context, txManager *postgres.TxManager) error {
	repo := catalog_repo.NewClientRepo(txManager)

	clients := []struct {
		code string
		name string
		city string
		jib  string
		pdv  string
	}{
		{"K-001", "Merkur trgovina d.o.o.", "Sarajevo", "4200000000100", "420000000010"},
		{"K-002", "Bosna promet d.o.o.", "Zenica", "4200000000200", "420000000020"},
		{"K-003", "Una commerce d.o.o.", "Bihać", "4200000000300", ""},
	}

	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return err
	}

	for i, c := range clients {
		cl := client.New(tenantID, c.name, "Glavna bb", c.city, c.jib)
		cl.Code = c.code
		cl.PDVNumber = c.pdv
		if err := repo.Create(ctx, cl); err != nil {
			return fmt.Errorf("seed client %d: %w", i+1, err)
		}
	}

	return nil
}

func seedDemoInventory(ctx context.Context, txManager *postgres.TxManager) error {
	repo := catalog_repo.NewInventoryRepo(txManager)

	items := []struct {
		code      string
		name      string
		unit      string
		costPrice string
		salePrice string
		quantity  string
	}{
		{"ART-001", "Kancelarijski papir A4", "pak", "8.50", "12.90", "250"},
		{"ART-002", "Toner HP 85A", "kom", "45.00", "69.90", "40"},
		{"ART-003", "Hemijska olovka plava", "kom", "0.40", "0.90", "1000"},
		{"ART-004", "Registrator A4 široki", "kom", "3.20", "5.50", "120"},
	}

	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return err
	}

	for i, it := range items {
		item := inventory.New(tenantID, it.code, it.name, it.unit)
		item.CostPrice = decimal.RequireFromString(it.costPrice)
		item.SalePrice = decimal.RequireFromString(it.salePrice)
		item.VATRate = decimal.NewFromInt(17)
		item.Quantity = decimal.RequireFromString(it.quantity)
		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("seed item %d: %w", i+1, err)
		}
	}

	return nil
}
