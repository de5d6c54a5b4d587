package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/types"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func line(qty, price, discount, rate string) Line {
	return Line{
		Quantity:        money(qty),
		PricePerUnit:    money(price),
		DiscountPercent: money(discount),
		VATRate:         money(rate),
	}
}

func TestValuate(t *testing.T) {
	tests := []struct {
		name         string
		line         Line
		wantSubtotal string
		wantVAT      string
	}{
		{
			name:         "discounted standard rate line",
			line:         line("10", "5", "10", "17"),
			wantSubtotal: "45",
			wantVAT:      "7.65",
		},
		{
			name:         "no discount",
			line:         line("2", "100", "0", "17"),
			wantSubtotal: "200",
			wantVAT:      "34",
		},
		{
			name:         "zero rate carries no vat",
			line:         line("3", "50", "0", "0"),
			wantSubtotal: "150",
			wantVAT:      "0",
		},
		{
			name:         "full discount",
			line:         line("5", "20", "100", "17"),
			wantSubtotal: "0",
			wantVAT:      "0",
		},
		{
			name:         "zero quantity",
			line:         line("0", "99.99", "5", "17"),
			wantSubtotal: "0",
			wantVAT:      "0",
		},
		{
			name:         "fractional quantity",
			line:         line("1.5", "10", "0", "17"),
			wantSubtotal: "15",
			wantVAT:      "2.55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Valuate(tt.line)
			assert.True(t, got.Subtotal.Equal(money(tt.wantSubtotal)),
				"subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			assert.True(t, got.VAT.Equal(money(tt.wantVAT)),
				"vat = %s, want %s", got.VAT, tt.wantVAT)
			assert.True(t, got.Total().Equal(got.Subtotal.Add(got.VAT)))
		})
	}
}

func TestAggregateTotals(t *testing.T) {
	t.Run("empty items yield zero totals", func(t *testing.T) {
		got := AggregateTotals(nil)
		assert.Empty(t, got.ByRate)
		assert.True(t, got.GrandTotal.IsZero())
	})

	t.Run("groups by distinct rate in first-occurrence order", func(t *testing.T) {
		got := AggregateTotals([]Line{
			line("1", "100", "0", "17"),
			line("1", "50", "0", "0"),
			line("2", "25", "0", "17"),
		})

		require.Len(t, got.ByRate, 2)
		assert.True(t, got.ByRate[0].Rate.Equal(money("17")))
		assert.True(t, got.ByRate[1].Rate.Equal(money("0")))

		std, ok := got.Bucket(money("17"))
		require.True(t, ok)
		assert.True(t, std.Subtotal.Equal(money("150")), "subtotal17 = %s", std.Subtotal)
		assert.True(t, std.VAT.Equal(money("25.5")), "vat17 = %s", std.VAT)

		zero, ok := got.Bucket(money("0"))
		require.True(t, ok)
		assert.True(t, zero.Subtotal.Equal(money("50")))
		assert.True(t, zero.VAT.IsZero())

		assert.True(t, got.Subtotal.Equal(money("200")))
		assert.True(t, got.VAT.Equal(money("25.5")))
		assert.True(t, got.GrandTotal.Equal(money("225.5")))
	})

	t.Run("grand total equals sum of per-line valuations", func(t *testing.T) {
		lines := []Line{
			line("10", "5", "10", "17"),
			line("3", "7.5", "0", "0"),
			line("1", "19.99", "25", "5"),
			line("4", "0.33", "0", "17"),
		}

		want := types.Zero()
		for _, l := range lines {
			want = want.Add(Valuate(l).Total())
		}

		got := AggregateTotals(lines)
		assert.True(t, got.GrandTotal.Equal(want),
			"grand total = %s, want %s", got.GrandTotal, want)
	})

	t.Run("equal rates with different scale share one bucket", func(t *testing.T) {
		got := AggregateTotals([]Line{
			{Quantity: decimal.NewFromInt(1), PricePerUnit: money("100"), VATRate: money("17")},
			{Quantity: decimal.NewFromInt(1), PricePerUnit: money("100"), VATRate: money("17.0")},
		})
		assert.Len(t, got.ByRate, 1)
	})
}
