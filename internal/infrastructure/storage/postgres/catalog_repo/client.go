package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bherp/internal/core/apperror"
	"bherp/internal/domain/catalogs/client"
	"bherp/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// Compile-time check.
var _ client.Repository = (*ClientRepo)(nil)

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txManager *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			clientTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// FindByJIB retrieves a client by JIB.
func (r *ClientRepo) FindByJIB(ctx context.Context, jib string) (*client.Client, error) {
	q, err := r.TenantSelect(ctx)
	if err != nil {
		return nil, err
	}

	q = q.
		Where(squirrel.Eq{"jib": jib}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("client", jib)
		}
		return nil, err
	}
	return c, nil
}
