package taxbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/id"
	"bherp/internal/core/tax"
	"bherp/internal/core/types"
	"bherp/internal/domain/documents"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func doc(docType documents.DocType, period string, items ...documents.DocItem) documents.Document {
	d := documents.New(id.New(), docType)
	d.TaxPeriod = period
	d.Client = documents.ClientSnapshot{Name: "Test d.o.o.", JIB: "4200000000001"}
	d.Items = items
	return *d
}

func item(qty, price, rate string) documents.DocItem {
	return documents.DocItem{
		ID:           id.New(),
		Description:  "artikal",
		Quantity:     money(qty),
		Unit:         "kom",
		PricePerUnit: money(price),
		Discount:     money("0"),
		VATRate:      money(rate),
	}
}

func TestBuild(t *testing.T) {
	policy := tax.Bosnia()

	t.Run("kir footer sums included rows", func(t *testing.T) {
		docs := []documents.Document{
			doc(documents.TypeInvoice, "2024-05", item("1", "100", "17")),
			doc(documents.TypeInvoice, "2024-05", item("1", "50", "0")),
		}

		book := Build(docs, "2024-05", LedgerKIR, policy)

		require.Len(t, book.Rows, 2)
		assert.True(t, book.Footer.BaseStandard.Equal(money("100")),
			"base17 = %s", book.Footer.BaseStandard)
		assert.True(t, book.Footer.BaseZero.Equal(money("50")),
			"base0 = %s", book.Footer.BaseZero)
		assert.True(t, book.Footer.VATStandard.Equal(money("17")),
			"vat17 = %s", book.Footer.VATStandard)
		assert.True(t, book.Footer.Total.Equal(money("167")),
			"total = %s", book.Footer.Total)
	})

	t.Run("filters by period and source type", func(t *testing.T) {
		docs := []documents.Document{
			doc(documents.TypeInvoice, "2024-05", item("1", "100", "17")),
			doc(documents.TypeInvoice, "2024-06", item("1", "999", "17")),
			doc(documents.TypeCalculation, "2024-05", item("1", "200", "17")),
			doc(documents.TypeOffer, "2024-05", item("1", "300", "17")),
		}

		kir := Build(docs, "2024-05", LedgerKIR, policy)
		require.Len(t, kir.Rows, 1)
		assert.True(t, kir.Footer.BaseStandard.Equal(money("100")))

		kur := Build(docs, "2024-05", LedgerKUR, policy)
		require.Len(t, kur.Rows, 1)
		assert.True(t, kur.Footer.BaseStandard.Equal(money("200")))
	})

	t.Run("rows keep collection order", func(t *testing.T) {
		first := doc(documents.TypeInvoice, "2024-05", item("1", "10", "17"))
		first.Number = "FA-2024-00001"
		second := doc(documents.TypeInvoice, "2024-05", item("1", "20", "17"))
		second.Number = "FA-2024-00002"

		book := Build([]documents.Document{first, second}, "2024-05", LedgerKIR, policy)

		require.Len(t, book.Rows, 2)
		assert.Equal(t, "FA-2024-00001", book.Rows[0].Number)
		assert.Equal(t, "FA-2024-00002", book.Rows[1].Number)
	})

	t.Run("non-statutory rate gets its own bucket and counts in total", func(t *testing.T) {
		docs := []documents.Document{
			doc(documents.TypeInvoice, "2024-05",
				item("1", "100", "17"),
				item("1", "200", "5"),
			),
		}

		book := Build(docs, "2024-05", LedgerKIR, policy)
		require.Len(t, book.Rows, 1)
		row := book.Rows[0]

		require.Len(t, row.Bases, 2)
		assert.True(t, row.Bases[1].Rate.Equal(money("5")))
		assert.True(t, row.Bases[1].Base.Equal(money("200")))
		assert.True(t, row.Bases[1].VAT.Equal(money("10")))

		// Statutory columns only carry the policy rates.
		assert.True(t, row.BaseStandard.Equal(money("100")))
		assert.True(t, row.BaseZero.IsZero())
		assert.True(t, row.VATStandard.Equal(money("17")))

		// 100 + 17 + 200 + 10.
		assert.True(t, row.Total.Equal(money("327")), "total = %s", row.Total)
	})

	t.Run("discount reduces the reported base", func(t *testing.T) {
		docs := []documents.Document{
			doc(documents.TypeInvoice, "2024-05", documents.DocItem{
				ID:           id.New(),
				Description:  "artikal",
				Quantity:     money("10"),
				Unit:         "kom",
				PricePerUnit: money("5"),
				Discount:     money("10"),
				VATRate:      money("17"),
			}),
		}

		book := Build(docs, "2024-05", LedgerKIR, policy)
		require.Len(t, book.Rows, 1)
		assert.True(t, book.Rows[0].BaseStandard.Equal(money("45")))
		assert.True(t, book.Rows[0].VATStandard.Equal(money("7.65")))
	})

	t.Run("empty collection yields empty book", func(t *testing.T) {
		book := Build(nil, "2024-05", LedgerKIR, policy)
		assert.Empty(t, book.Rows)
		assert.True(t, book.Footer.Total.IsZero())
	})

	t.Run("footer equals column-wise re-aggregation of rows", func(t *testing.T) {
		docs := []documents.Document{
			doc(documents.TypeInvoice, "2024-05", item("3", "33.33", "17"), item("1", "5", "0")),
			doc(documents.TypeInvoice, "2024-05", item("7", "1.11", "17")),
			doc(documents.TypeInvoice, "2024-05", item("2", "250", "0")),
		}

		book := Build(docs, "2024-05", LedgerKIR, policy)

		wantStd, wantZero, wantVAT, wantTotal := types.Zero(), types.Zero(), types.Zero(), types.Zero()
		for _, row := range book.Rows {
			wantStd = wantStd.Add(row.BaseStandard)
			wantZero = wantZero.Add(row.BaseZero)
			wantVAT = wantVAT.Add(row.VATStandard)
			wantTotal = wantTotal.Add(row.Total)
		}

		assert.True(t, book.Footer.BaseStandard.Equal(wantStd))
		assert.True(t, book.Footer.BaseZero.Equal(wantZero))
		assert.True(t, book.Footer.VATStandard.Equal(wantVAT))
		assert.True(t, book.Footer.Total.Equal(wantTotal))
	})
}
