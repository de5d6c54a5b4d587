package client

import (
	"context"

	"bherp/internal/core/apperror"
	"bherp/internal/core/tx"
	"bherp/internal/domain"
	"bherp/pkg/logger"
)

// Service provides business logic for the Client registry.
type Service struct {
	*domain.CatalogService[*Client]
	repo Repository
}

// NewService creates a new Client service.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txManager,
		Logger:     log,
		EntityName: "client",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkJIBUnique)
	base.Hooks().OnBeforeUpdate(svc.checkJIBUnique)

	return svc
}

// FindByJIB retrieves a client by JIB.
func (s *Service) FindByJIB(ctx context.Context, jib string) (*Client, error) {
	return s.repo.FindByJIB(ctx, jib)
}

// checkJIBUnique rejects a second client with the same JIB in one tenant.
func (s *Service) checkJIBUnique(ctx context.Context, c *Client) error {
	if c.JIB == "" {
		return nil
	}

	existing, err := s.repo.FindByJIB(ctx, c.JIB)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("client", "jib", c.JIB)
	}
	return nil
}
