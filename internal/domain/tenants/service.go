package tenants

import (
	"context"

	"bherp/internal/core/apperror"
	appctx "bherp/internal/core/context"
	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/core/tx"
	"bherp/pkg/logger"
)

// Service provides the tenant approval workflow. All mutations require
// the SUPER_ADMIN role; new tenants are created through auth.Register.
type Service struct {
	repo      Repository
	txManager tx.Manager
	logger    *logger.Logger
}

// NewService creates the tenants service.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    log.WithComponent("tenants"),
	}
}

func requireSuperAdmin(ctx context.Context) error {
	if !appctx.IsSuperAdmin(ctx) {
		return apperror.NewForbidden("platform administrator role required")
	}
	return nil
}

// GetByID retrieves a tenant.
func (s *Service) GetByID(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, tenantID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("tenant", tenantID.String())
		}
		return nil, err
	}
	return t, nil
}

// List retrieves all tenants, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]tenant.Tenant, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, status)
}

// Approve activates a pending tenant.
func (s *Service) Approve(ctx context.Context, tenantID id.ID) error {
	return s.setStatus(ctx, tenantID, tenant.StatusApproved)
}

// Reject refuses a pending tenant.
func (s *Service) Reject(ctx context.Context, tenantID id.ID) error {
	return s.setStatus(ctx, tenantID, tenant.StatusRejected)
}

func (s *Service) setStatus(ctx context.Context, tenantID id.ID, status string) error {
	if err := requireSuperAdmin(ctx); err != nil {
		return err
	}

	if _, err := s.GetByID(ctx, tenantID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, tenantID, status)
	})
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).Infow("tenant status changed",
		"tenant", tenantID,
		"status", status,
	)
	return nil
}

// UpdateRequisites updates company data printed on documents. Allowed
// for the tenant's own users.
func (s *Service) UpdateRequisites(ctx context.Context, t *tenant.Tenant) error {
	current, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return apperror.NewUnauthorized("no active tenant")
	}
	if current != t.ID && !appctx.IsSuperAdmin(ctx) {
		return apperror.NewForbidden("cannot modify another tenant")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, t)
	})
}
