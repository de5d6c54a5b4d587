package taxbook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/apperror"
	"bherp/internal/core/tax"
	"bherp/internal/domain/documents"
	"bherp/pkg/logger"
)

type stubSource struct {
	docs []documents.Document
	err  error
}

func (s *stubSource) ListByPeriodAndType(_ context.Context, period string, docType documents.DocType) ([]documents.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []documents.Document
	for _, d := range s.docs {
		if d.TaxPeriod == period && d.Type == docType {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestServiceBuildBook(t *testing.T) {
	source := &stubSource{docs: []documents.Document{
		doc(documents.TypeInvoice, "2024-05", item("1", "100", "17")),
	}}
	svc := NewService(source, tax.Bosnia(), logger.Default())

	t.Run("builds kir for valid period", func(t *testing.T) {
		book, err := svc.BuildBook(context.Background(), "2024-05", LedgerKIR)
		require.NoError(t, err)
		require.Len(t, book.Rows, 1)
		assert.True(t, book.Footer.VATStandard.Equal(money("17")))
	})

	t.Run("rejects malformed period", func(t *testing.T) {
		_, err := svc.BuildBook(context.Background(), "05/2024", LedgerKIR)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("rejects unknown ledger", func(t *testing.T) {
		_, err := svc.BuildBook(context.Background(), "2024-05", LedgerType("KPR"))
		require.Error(t, err)
	})
}
