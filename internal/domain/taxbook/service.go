package taxbook

import (
	"context"
	"time"

	"bherp/internal/core/apperror"
	"bherp/internal/core/tax"
	"bherp/internal/domain/documents"
	"bherp/pkg/logger"
)

// DocumentSource supplies the documents a ledger is built from.
// Implemented by the documents repository.
type DocumentSource interface {
	ListByPeriodAndType(ctx context.Context, period string, docType documents.DocType) ([]documents.Document, error)
}

// Service builds period tax books from persisted documents.
type Service struct {
	docs   DocumentSource
	policy tax.Policy
	logger *logger.Logger
}

// NewService creates the tax book service.
func NewService(docs DocumentSource, policy tax.Policy, log *logger.Logger) *Service {
	return &Service{
		docs:   docs,
		policy: policy,
		logger: log.WithComponent("taxbook"),
	}
}

// BuildBook builds the requested ledger for one tax period.
func (s *Service) BuildBook(ctx context.Context, period string, ledger LedgerType) (*Book, error) {
	if !ledger.Valid() {
		return nil, apperror.NewValidation("unknown ledger type").
			WithDetail("field", "ledger").
			WithDetail("value", string(ledger))
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, apperror.NewValidation("tax period must be YYYY-MM").
			WithDetail("field", "period").
			WithDetail("value", period)
	}

	docs, err := s.docs.ListByPeriodAndType(ctx, period, ledger.SourceType())
	if err != nil {
		return nil, err
	}

	book := Build(docs, period, ledger, s.policy)

	s.logger.WithContext(ctx).Debugw("tax book built",
		"ledger", ledger,
		"period", period,
		"rows", len(book.Rows),
	)

	return book, nil
}
