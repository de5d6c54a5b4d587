package inventory

import (
	"context"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tx"
	"bherp/internal/core/types"
	"bherp/internal/domain"
	"bherp/pkg/logger"
)

// Service provides business logic for the inventory catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		Logger:     log,
		EntityName: "inventory_item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		logger:         log.WithComponent("inventory"),
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)

	return svc
}

// checkCodeUnique rejects a second item with the same code in one tenant.
func (s *Service) checkCodeUnique(ctx context.Context, item *Item) error {
	if item.Code == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, item.Code)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("inventory item", "code", item.Code)
	}
	return nil
}

// ApplyDepletion decrements stock by the sold quantities. Must run
// inside the caller's transaction; rows are locked before adjustment
// so concurrent invoices serialize on the same items.
//
// Only items whose stock changes are written back.
func (s *Service) ApplyDepletion(ctx context.Context, sold map[id.ID]types.Money) error {
	if len(sold) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(sold))
	for itemID := range sold {
		ids = append(ids, itemID)
	}

	items, err := s.repo.GetForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	changed := Deplete(items, sold)
	if len(changed) == 0 {
		return nil
	}

	if err := s.repo.UpdateQuantities(ctx, changed); err != nil {
		return err
	}

	s.logger.WithContext(ctx).Debugw("inventory depleted", "items", len(changed))
	return nil
}
