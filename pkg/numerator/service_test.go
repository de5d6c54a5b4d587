package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/id"
	"bherp/internal/core/tenant"
)

// fakeRow advances an in-memory counter like the sys_sequences UPSERT.
type fakeRow struct {
	val *int64
	inc int64
}

func (r fakeRow) Scan(dest ...any) error {
	*r.val += r.inc
	if p, ok := dest[0].(*int64); ok {
		*p = *r.val
	}
	return nil
}

type fakeQuerier struct {
	// one counter per (tenant, key)
	seqs    map[string]*int64
	queries int
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{seqs: make(map[string]*int64)}
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.queries++
	key := args[0].(string) + ":" + args[1].(string)
	if _, ok := q.seqs[key]; !ok {
		var v int64
		q.seqs[key] = &v
	}
	inc := int64(1)
	if v, ok := args[2].(int64); ok {
		inc = v
	}
	return fakeRow{val: q.seqs[key], inc: inc}
}

func testCtx() context.Context {
	return tenant.WithTenantID(context.Background(), id.New())
}

func TestGetNextNumberStrict(t *testing.T) {
	q := newFakeQuerier()
	svc := New(func(ctx context.Context) Querier { return q })
	ctx := testCtx()
	period := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.GetNextNumber(ctx, DefaultConfig("FA"), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "FA-2024-00001", first)

	second, err := svc.GetNextNumber(ctx, DefaultConfig("FA"), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "FA-2024-00002", second)
}

func TestGetNextNumberRequiresTenant(t *testing.T) {
	svc := New(func(ctx context.Context) Querier { return newFakeQuerier() })
	_, err := svc.GetNextNumber(context.Background(), DefaultConfig("FA"), nil, time.Now())
	require.Error(t, err)
}

func TestSequencesIsolatedPerTenant(t *testing.T) {
	q := newFakeQuerier()
	svc := New(func(ctx context.Context) Querier { return q })
	period := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	a, err := svc.GetNextNumber(testCtx(), DefaultConfig("FA"), nil, period)
	require.NoError(t, err)
	b, err := svc.GetNextNumber(testCtx(), DefaultConfig("FA"), nil, period)
	require.NoError(t, err)

	// Different tenants both start at 1.
	assert.Equal(t, a, b)
}

func TestGetNextNumberCached(t *testing.T) {
	q := newFakeQuerier()
	svc := New(func(ctx context.Context) Querier { return q })
	ctx := testCtx()
	period := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	for i := 1; i <= 15; i++ {
		num, err := svc.GetNextNumber(ctx, DefaultConfig("PO"), opts, period)
		require.NoError(t, err)
		assert.Contains(t, num, "PO-2024-")
	}

	// 15 numbers from ranges of 10 need exactly two reservations.
	assert.Equal(t, 2, q.queries)
}

func TestResetPeriods(t *testing.T) {
	q := newFakeQuerier()
	svc := New(func(ctx context.Context) Querier { return q })
	ctx := testCtx()

	cfg := DefaultConfig("FA")
	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	nextYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.GetNextNumber(ctx, cfg, nil, may)
	require.NoError(t, err)
	assert.Equal(t, "FA-2024-00001", first)

	// Year reset: a new year starts a new sequence.
	second, err := svc.GetNextNumber(ctx, cfg, nil, nextYear)
	require.NoError(t, err)
	assert.Equal(t, "FA-2025-00001", second)
}

func TestSetNextNumber(t *testing.T) {
	q := newFakeQuerier()
	svc := New(func(ctx context.Context) Querier { return q })
	ctx := testCtx()
	period := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SetNextNumber(ctx, DefaultConfig("FA"), period, 100))

	num, err := svc.GetNextNumber(ctx, DefaultConfig("FA"), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "FA-2024-00101", num)
}
