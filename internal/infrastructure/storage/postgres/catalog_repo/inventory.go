package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
	"bherp/internal/domain/catalogs/inventory"
	"bherp/internal/infrastructure/storage/postgres"
)

const inventoryTable = "cat_inventory_items"

// Compile-time check.
var _ inventory.Repository = (*InventoryRepo)(nil)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	*BaseCatalogRepo[*inventory.Item]
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			inventoryTable,
			postgres.ExtractDBColumns[inventory.Item](),
			func() *inventory.Item { return &inventory.Item{} },
		),
	}
}

// GetByIDs retrieves multiple items in one query.
func (r *InventoryRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*inventory.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q, err := r.TenantSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get by ids: %w", err)
	}

	return items, nil
}

// GetForUpdate retrieves items with row locks in a stable order.
// Must be called inside a transaction; the id ordering prevents
// deadlocks between concurrent stock adjustments.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, ids []id.ID) ([]*inventory.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q, err := r.TenantSelect(ctx)
	if err != nil {
		return nil, err
	}
	q = q.
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get for update: %w", err)
	}

	return items, nil
}

// UpdateQuantities writes back adjusted stock levels.
func (r *InventoryRepo) UpdateQuantities(ctx context.Context, items []*inventory.Item) error {
	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return err
	}

	querier := r.Querier(ctx)
	for _, item := range items {
		q := r.Builder().
			Update(inventoryTable).
			Set("quantity", item.Quantity).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"id": item.ID}).
			Where(squirrel.Eq{"tenant_id": tenantID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build quantity update: %w", err)
		}

		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("update quantity for %s: %w", item.ID, err)
		}
	}

	return nil
}
