package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/apperror"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table",
		[]string{"id", "tenant_id", "code", "name", "version"},
		func() any { return nil },
	)
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
	}{
		{"empty defaults to name", "", "name ASC"},
		{"plain field", "code", "code ASC"},
		{"descending", "-name", "name DESC"},
		{"explicit ascending", "+code", "code ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo()

	for _, orderBy := range []string{"password_hash", "name; DROP TABLE test_table", "-"} {
		_, err := repo.parseOrderBy(orderBy)
		require.Error(t, err, "orderBy %q must be rejected", orderBy)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}
