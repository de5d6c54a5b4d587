package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/tenants"
	"bherp/internal/infrastructure/storage/postgres"
)

const tenantCols = `id, name, address, city, zip, jib, pdv_number,
	   email, phone, status, default_place_of_issue`

// Compile-time check.
var _ tenants.Repository = (*TenantRepo)(nil)

// TenantRepo implements tenants.Repository.
// Tenant rows are platform-level; only super admins list them all.
type TenantRepo struct {
	txManager *postgres.TxManager
}

// NewTenantRepo creates a new tenant repository.
func NewTenantRepo(txManager *postgres.TxManager) *TenantRepo {
	return &TenantRepo{txManager: txManager}
}

// Create inserts a new tenant.
func (r *TenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO sys_tenants (
			id, name, address, city, zip, jib, pdv_number,
			email, phone, status, default_place_of_issue
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		t.ID, t.Name, t.Address, t.City, t.Zip, t.JIB, t.PDVNumber,
		t.Email, t.Phone, t.Status, t.DefaultPlaceOfIssue,
	)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}

	return nil
}

func (r *TenantRepo) scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Address, &t.City, &t.Zip, &t.JIB, &t.PDVNumber,
		&t.Email, &t.Phone, &t.Status, &t.DefaultPlaceOfIssue,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantRepo) GetByID(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error) {
	q := r.txManager.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM sys_tenants WHERE id = $1`, tenantCols)

	t, err := r.scanTenant(q.QueryRow(ctx, query, tenantID))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("tenant", tenantID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query tenant: %w", err)
	}

	return t, nil
}

// GetByJIB retrieves a tenant by JIB.
func (r *TenantRepo) GetByJIB(ctx context.Context, jib string) (*tenant.Tenant, error) {
	q := r.txManager.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM sys_tenants WHERE jib = $1`, tenantCols)

	t, err := r.scanTenant(q.QueryRow(ctx, query, jib))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("tenant", jib)
	}
	if err != nil {
		return nil, fmt.Errorf("query tenant: %w", err)
	}

	return t, nil
}

// Update rewrites tenant requisites.
func (r *TenantRepo) Update(ctx context.Context, t *tenant.Tenant) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		UPDATE sys_tenants SET
			name = $2,
			address = $3,
			city = $4,
			zip = $5,
			jib = $6,
			pdv_number = $7,
			email = $8,
			phone = $9,
			default_place_of_issue = $10
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		t.ID, t.Name, t.Address, t.City, t.Zip, t.JIB, t.PDVNumber,
		t.Email, t.Phone, t.DefaultPlaceOfIssue,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("tenant", t.ID.String())
	}

	return nil
}

// UpdateStatus changes the approval status.
func (r *TenantRepo) UpdateStatus(ctx context.Context, tenantID id.ID, status string) error {
	q := r.txManager.GetQuerier(ctx)

	query := `UPDATE sys_tenants SET status = $2 WHERE id = $1`

	result, err := q.Exec(ctx, query, tenantID, status)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("tenant", tenantID.String())
	}

	return nil
}

// List retrieves tenants, optionally filtered by status.
func (r *TenantRepo) List(ctx context.Context, status string) ([]tenant.Tenant, error) {
	q := r.txManager.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM sys_tenants`, tenantCols)
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var out []tenant.Tenant
	for rows.Next() {
		t, err := r.scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, *t)
	}

	return out, rows.Err()
}
