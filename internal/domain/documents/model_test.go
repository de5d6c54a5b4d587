package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/apperror"
	"bherp/internal/core/id"
	"bherp/internal/core/types"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func validDoc(docType DocType) *Document {
	d := New(id.New(), docType)
	d.Client = ClientSnapshot{Name: "Gradnja d.o.o.", JIB: "4200000000001"}
	return d
}

func TestDocumentValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid invoice passes", func(t *testing.T) {
		require.NoError(t, validDoc(TypeInvoice).Validate(ctx))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		d := validDoc(TypeInvoice)
		d.Type = DocType("RECEIPT")
		err := d.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsAppError(err))
	})

	t.Run("missing client rejected", func(t *testing.T) {
		d := New(id.New(), TypeInvoice)
		require.Error(t, d.Validate(ctx))
	})

	t.Run("malformed tax period rejected", func(t *testing.T) {
		d := validDoc(TypeInvoice)
		d.TaxPeriod = "05/2024"
		require.Error(t, d.Validate(ctx))

		d.TaxPeriod = "2024-05"
		require.NoError(t, d.Validate(ctx))
	})

	t.Run("negative line values rejected", func(t *testing.T) {
		d := validDoc(TypeInvoice)
		d.Items = []DocItem{{
			ID:           id.New(),
			Description:  "artikal",
			Quantity:     money("-1"),
			PricePerUnit: money("10"),
		}}
		require.Error(t, d.Validate(ctx))
	})

	t.Run("discount above 100 rejected", func(t *testing.T) {
		d := validDoc(TypeInvoice)
		d.Items = []DocItem{{
			ID:           id.New(),
			Description:  "artikal",
			Quantity:     money("1"),
			PricePerUnit: money("10"),
			Discount:     money("101"),
		}}
		require.Error(t, d.Validate(ctx))
	})

	t.Run("negative overhead rejected on calculations", func(t *testing.T) {
		d := validDoc(TypeCalculation)
		d.TransportCosts = money("-5")
		require.Error(t, d.Validate(ctx))
	})
}

func TestDocumentTotals(t *testing.T) {
	d := validDoc(TypeInvoice)
	d.Items = []DocItem{
		{ID: id.New(), Quantity: money("10"), PricePerUnit: money("5"), Discount: money("10"), VATRate: money("17")},
		{ID: id.New(), Quantity: money("1"), PricePerUnit: money("50"), VATRate: money("0")},
	}

	totals := d.Totals()
	assert.True(t, totals.Subtotal.Equal(money("95")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.VAT.Equal(money("7.65")))
	assert.True(t, totals.GrandTotal.Equal(money("102.65")))
}

func TestSoldQuantities(t *testing.T) {
	linked := id.New()
	other := id.New()

	d := validDoc(TypeInvoice)
	d.Items = []DocItem{
		{ID: id.New(), InventoryItemID: &linked, Quantity: money("3"), PricePerUnit: money("10")},
		{ID: id.New(), InventoryItemID: &linked, Quantity: money("2"), PricePerUnit: money("10")},
		{ID: id.New(), InventoryItemID: &other, Quantity: money("7"), PricePerUnit: money("10")},
		{ID: id.New(), Quantity: money("99"), PricePerUnit: money("10")}, // free-text line
	}

	sold := d.SoldQuantities()
	require.Len(t, sold, 2)
	assert.True(t, sold[linked].Equal(money("5")))
	assert.True(t, sold[other].Equal(money("7")))
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, "FA", TypeInvoice.NumberPrefix())
	assert.Equal(t, "PO", TypeOffer.NumberPrefix())
	assert.Equal(t, "KA", TypeCalculation.NumberPrefix())
	assert.Equal(t, "NA", TypePurchaseOrder.NumberPrefix())
}
