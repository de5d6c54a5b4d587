package documents

import (
	"context"
	"fmt"
	"time"

	"bherp/internal/core/apperror"
	appctx "bherp/internal/core/context"
	"bherp/internal/core/entity"
	"bherp/internal/core/id"
	"bherp/internal/core/tax"
	"bherp/internal/core/tenant"
	"bherp/internal/core/tx"
	"bherp/internal/core/types"
	"bherp/internal/domain"
	"bherp/internal/domain/valuation"
	"bherp/pkg/logger"
	"bherp/pkg/numerator"
)

// StockAdjuster decrements inventory inside the caller's transaction.
// Implemented by the inventory service.
type StockAdjuster interface {
	ApplyDepletion(ctx context.Context, sold map[id.ID]types.Money) error
}

// Service provides business logic for priced documents.
type Service struct {
	repo      Repository
	stock     StockAdjuster
	txManager tx.Manager
	numerator *numerator.Service
	policy    tax.Policy
	logger    *logger.Logger
}

// NewService creates the documents service.
func NewService(
	repo Repository,
	stock StockAdjuster,
	txManager tx.Manager,
	num *numerator.Service,
	policy tax.Policy,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		txManager: txManager,
		numerator: num,
		policy:    policy,
		logger:    log.WithComponent("documents"),
	}
}

// numberOptions picks the numbering strategy per document type.
// Invoices and calculations are tax-relevant and must not have gaps.
func numberOptions(docType DocType) *numerator.Options {
	switch docType {
	case TypeInvoice, TypeCalculation:
		return &numerator.Options{Strategy: numerator.StrategyStrict}
	default:
		return &numerator.Options{Strategy: numerator.StrategyCached}
	}
}

// Create persists a new document. The number is generated from the
// per-type sequence unless the caller set one. For invoices the
// inventory depletion runs in the same transaction as the insert, so
// a persisted invoice without adjusted stock cannot happen.
func (s *Service) Create(ctx context.Context, doc *Document) (*Document, error) {
	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return nil, apperror.NewUnauthorized("no active tenant")
	}

	if id.IsNil(doc.ID) {
		doc.BaseDocument = entity.NewBaseDocument(tenantID)
	}
	doc.TenantID = tenantID
	if doc.DateCreated.IsZero() {
		doc.DateCreated = time.Now().UTC()
	}
	if doc.TaxPeriod == "" {
		doc.TaxPeriod = doc.DateCreated.Format("2006-01")
	}
	doc.CreatedBy = appctx.GetUsername(ctx)
	doc.UpdatedBy = doc.CreatedBy

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			cfg := numerator.DefaultConfig(doc.Type.NumberPrefix())
			number, err := s.numerator.GetNextNumber(ctx, cfg, numberOptions(doc.Type), doc.DateCreated)
			if err != nil {
				return fmt.Errorf("assign number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		// Depletion applies only to newly created invoices. Edits and
		// deletes never restock.
		if doc.Type == TypeInvoice {
			if err := s.stock.ApplyDepletion(ctx, doc.SoldQuantities()); err != nil {
				return fmt.Errorf("deplete inventory: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Infow("document created",
		"id", doc.ID,
		"type", doc.Type,
		"number", doc.Number,
	)

	return doc, nil
}

// GetByID retrieves a document.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// Update modifies an existing document. Inventory is deliberately left
// alone: depletion is a one-shot adjustment on invoice creation.
func (s *Service) Update(ctx context.Context, doc *Document) (*Document, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	doc.UpdatedBy = appctx.GetUsername(ctx)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Infow("document updated", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// Delete soft-deletes a document. No inventory restock.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	if _, err := s.GetByID(ctx, docID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetDeletionMark(ctx, docID, true)
	})
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).Infow("document deleted", "id", docID)
	return nil
}

// List retrieves documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	return s.repo.List(ctx, filter)
}

// Copy creates an unsaved duplicate of an existing document: same type,
// client and items, fresh identity, today's date, no number yet.
func (s *Service) Copy(ctx context.Context, docID id.ID) (*Document, error) {
	src, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.BaseDocument = entity.NewBaseDocument(src.TenantID)
	dup.Number = ""
	dup.DateCreated = time.Now().UTC()
	dup.DateDue = nil
	dup.DateDelivery = nil
	dup.TaxPeriod = dup.DateCreated.Format("2006-01")
	dup.PaymentStatus = PaymentStatusUnpaid
	dup.CreatedBy = ""
	dup.UpdatedBy = ""

	dup.Items = make([]DocItem, len(src.Items))
	copy(dup.Items, src.Items)
	for i := range dup.Items {
		dup.Items[i].ID = id.New()
	}

	return &dup, nil
}

// Totals recomputes a stored document's totals.
func (s *Service) Totals(ctx context.Context, docID id.ID) (*valuation.Totals, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	totals := doc.Totals()
	return &totals, nil
}

// CostDistribution runs the overhead distribution for a calculation.
func (s *Service) CostDistribution(ctx context.Context, docID id.ID) (*valuation.Distribution, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !doc.IsCalculation() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"cost distribution applies to calculation documents only",
		).WithDetail("type", string(doc.Type))
	}

	dist := valuation.DistributeCosts(doc.CostLines(), doc.OverheadCosts(), s.policy)
	return &dist, nil
}
