package documents

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/tax"
	"bherp/internal/core/tenant"
	"bherp/internal/core/types"
	"bherp/internal/domain"
	"bherp/pkg/logger"
	"bherp/pkg/numerator"
)

// --- test doubles ---

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeRepo struct {
	docs    map[id.ID]*Document
	created []*Document
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[id.ID]*Document)}
}

func (r *fakeRepo) Create(_ context.Context, doc *Document) error {
	r.docs[doc.ID] = doc
	r.created = append(r.created, doc)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Document, error) {
	doc, ok := r.docs[docID]
	if !ok || doc.DeletionMark {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	return doc, nil
}

func (r *fakeRepo) Update(_ context.Context, doc *Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeRepo) SetDeletionMark(_ context.Context, docID id.ID, marked bool) error {
	if doc, ok := r.docs[docID]; ok {
		doc.DeletionMark = marked
	}
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Document], error) {
	out := domain.ListResult[*Document]{}
	for _, d := range r.docs {
		out.Items = append(out.Items, d)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *fakeRepo) ListByPeriodAndType(_ context.Context, period string, docType DocType) ([]Document, error) {
	var out []Document
	for _, d := range r.docs {
		if d.TaxPeriod == period && d.Type == docType && !d.DeletionMark {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeRepo) Exists(_ context.Context, docID id.ID) (bool, error) {
	_, ok := r.docs[docID]
	return ok, nil
}

type fakeStock struct {
	applied []map[id.ID]types.Money
}

func (s *fakeStock) ApplyDepletion(_ context.Context, sold map[id.ID]types.Money) error {
	s.applied = append(s.applied, sold)
	return nil
}

// seqRow fakes the sys_sequences UPSERT result.
type seqRow struct {
	val *int64
	inc int64
}

func (r seqRow) Scan(dest ...any) error {
	*r.val += r.inc
	if p, ok := dest[0].(*int64); ok {
		*p = *r.val
	}
	return nil
}

type seqQuerier struct {
	val int64
}

func (q *seqQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	inc := int64(1)
	if len(args) >= 3 {
		if v, ok := args[2].(int64); ok {
			inc = v
		}
	}
	return seqRow{val: &q.val, inc: inc}
}

// --- fixtures ---

type fixture struct {
	svc   *Service
	repo  *fakeRepo
	stock *fakeStock
	txm   *fakeTxManager
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	stock := &fakeStock{}
	txm := &fakeTxManager{}
	seq := &seqQuerier{}
	num := numerator.New(func(ctx context.Context) numerator.Querier { return seq })

	svc := NewService(repo, stock, txm, num, tax.Bosnia(), logger.Default())
	ctx := tenant.WithTenantID(context.Background(), id.New())

	return &fixture{svc: svc, repo: repo, stock: stock, txm: txm, ctx: ctx}
}

// --- tests ---

func TestServiceCreate(t *testing.T) {
	t.Run("assigns number and tax period", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.Create(f.ctx, validDoc(TypeInvoice))
		require.NoError(t, err)

		assert.Regexp(t, `^FA-\d{4}-00001$`, created.Number)
		assert.NotEmpty(t, created.TaxPeriod)
		assert.False(t, id.IsNil(created.TenantID))
		assert.Equal(t, 1, f.txm.calls)
	})

	t.Run("requires tenant in context", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(context.Background(), validDoc(TypeInvoice))
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("invoice depletes linked inventory in the same transaction", func(t *testing.T) {
		f := newFixture(t)
		itemID := id.New()

		doc := validDoc(TypeInvoice)
		doc.Items = []DocItem{{
			ID:              id.New(),
			InventoryItemID: &itemID,
			Description:     "cement",
			Quantity:        money("4"),
			PricePerUnit:    money("12"),
			VATRate:         money("17"),
		}}

		_, err := f.svc.Create(f.ctx, doc)
		require.NoError(t, err)

		require.Len(t, f.stock.applied, 1)
		assert.True(t, f.stock.applied[0][itemID].Equal(money("4")))
		assert.Equal(t, 1, f.txm.calls)
	})

	t.Run("offer does not touch inventory", func(t *testing.T) {
		f := newFixture(t)
		itemID := id.New()

		doc := validDoc(TypeOffer)
		doc.Items = []DocItem{{
			ID:              id.New(),
			InventoryItemID: &itemID,
			Description:     "cement",
			Quantity:        money("4"),
			PricePerUnit:    money("12"),
		}}

		_, err := f.svc.Create(f.ctx, doc)
		require.NoError(t, err)
		assert.Empty(t, f.stock.applied)
	})

	t.Run("sequential numbers per create", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.Create(f.ctx, validDoc(TypeInvoice))
		require.NoError(t, err)
		second, err := f.svc.Create(f.ctx, validDoc(TypeInvoice))
		require.NoError(t, err)

		assert.NotEqual(t, first.Number, second.Number)
	})

	t.Run("invalid document rejected before persistence", func(t *testing.T) {
		f := newFixture(t)

		doc := New(id.New(), TypeInvoice) // no client
		_, err := f.svc.Create(f.ctx, doc)
		require.Error(t, err)
		assert.Empty(t, f.repo.created)
	})
}

func TestServiceUpdateDoesNotDeplete(t *testing.T) {
	f := newFixture(t)
	itemID := id.New()

	doc := validDoc(TypeInvoice)
	doc.Items = []DocItem{{
		ID:              id.New(),
		InventoryItemID: &itemID,
		Description:     "cement",
		Quantity:        money("4"),
		PricePerUnit:    money("12"),
	}}

	created, err := f.svc.Create(f.ctx, doc)
	require.NoError(t, err)
	require.Len(t, f.stock.applied, 1)

	created.Items[0].Quantity = money("10")
	_, err = f.svc.Update(f.ctx, created)
	require.NoError(t, err)

	// Still exactly one depletion: edits never restock or re-deplete.
	assert.Len(t, f.stock.applied, 1)
}

func TestServiceDelete(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, validDoc(TypeInvoice))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, created.ID))

	_, err = f.svc.GetByID(f.ctx, created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestServiceCopy(t *testing.T) {
	f := newFixture(t)

	doc := validDoc(TypeInvoice)
	doc.Items = []DocItem{{
		ID:           id.New(),
		Description:  "cement",
		Quantity:     money("4"),
		PricePerUnit: money("12"),
		VATRate:      money("17"),
	}}

	created, err := f.svc.Create(f.ctx, doc)
	require.NoError(t, err)

	dup, err := f.svc.Copy(f.ctx, created.ID)
	require.NoError(t, err)

	assert.NotEqual(t, created.ID, dup.ID)
	assert.Empty(t, dup.Number)
	assert.Equal(t, created.Type, dup.Type)
	assert.Equal(t, created.Client, dup.Client)
	require.Len(t, dup.Items, 1)
	assert.NotEqual(t, created.Items[0].ID, dup.Items[0].ID)
	assert.True(t, dup.Items[0].Quantity.Equal(money("4")))
}

func TestServiceCostDistribution(t *testing.T) {
	f := newFixture(t)

	t.Run("distributes overhead on calculations", func(t *testing.T) {
		doc := validDoc(TypeCalculation)
		doc.TransportCosts = money("30")
		doc.Items = []DocItem{
			{ID: id.New(), Description: "a", Quantity: money("2"), PricePerUnit: money("100"), VATRate: money("17")},
			{ID: id.New(), Description: "b", Quantity: money("1"), PricePerUnit: money("50"), VATRate: money("17")},
		}

		created, err := f.svc.Create(f.ctx, doc)
		require.NoError(t, err)

		dist, err := f.svc.CostDistribution(f.ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, dist.Lines, 2)
		assert.True(t, dist.Lines[0].AttributedCost.Equal(money("24")))
		assert.True(t, dist.Lines[1].AttributedCost.Equal(money("6")))
	})

	t.Run("rejected for non-calculation documents", func(t *testing.T) {
		created, err := f.svc.Create(f.ctx, validDoc(TypeInvoice))
		require.NoError(t, err)

		_, err = f.svc.CostDistribution(f.ctx, created.ID)
		require.Error(t, err)
	})
}
