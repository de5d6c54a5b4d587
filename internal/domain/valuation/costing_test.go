package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/tax"
	"bherp/internal/core/types"
)

func costLine(qty, price, rate string) CostLine {
	return CostLine{
		Quantity:     money(qty),
		PricePerUnit: money(price),
		VATRate:      money(rate),
	}
}

func TestDistributeCosts(t *testing.T) {
	policy := tax.Bosnia()

	t.Run("proportional attribution by purchase value", func(t *testing.T) {
		got := DistributeCosts(
			[]CostLine{
				costLine("2", "100", "17"),
				costLine("1", "50", "17"),
			},
			OverheadCosts{Transport: money("30")},
			policy,
		)

		require.Len(t, got.Lines, 2)
		assert.True(t, got.Totals.PurchaseValue.Equal(money("250")))

		// 200/250 and 50/250 of the 30 KM transport.
		assert.True(t, got.Lines[0].AttributedCost.Equal(money("24")),
			"line 0 attributed = %s", got.Lines[0].AttributedCost)
		assert.True(t, got.Lines[1].AttributedCost.Equal(money("6")),
			"line 1 attributed = %s", got.Lines[1].AttributedCost)
		assert.True(t, got.Totals.AttributedCost.Equal(money("30")))
	})

	t.Run("landed cost and retail price", func(t *testing.T) {
		got := DistributeCosts(
			[]CostLine{costLine("2", "100", "17")},
			OverheadCosts{Transport: money("10"), Customs: money("6"), Other: money("4")},
			policy,
		)

		require.Len(t, got.Lines, 1)
		l := got.Lines[0]

		// (200 + 20) / 2 = 110 per unit landed.
		assert.True(t, l.LandedUnitCost.Equal(money("110")), "landed = %s", l.LandedUnitCost)
		// 110 * 1.20 = 132 before VAT.
		assert.True(t, l.PriceBeforeVAT.Equal(money("132")), "preVat = %s", l.PriceBeforeVAT)
		// 132 * 0.17 = 22.44 VAT, 154.44 retail.
		assert.True(t, l.VATAmount.Equal(money("22.44")), "vat = %s", l.VATAmount)
		assert.True(t, l.RetailPrice.Equal(money("154.44")), "retail = %s", l.RetailPrice)

		assert.True(t, got.Totals.PreVATValue.Equal(money("264")))
		assert.True(t, got.Totals.RetailValue.Equal(money("308.88")))
	})

	t.Run("per-line margin overrides policy default", func(t *testing.T) {
		margin := money("50")
		got := DistributeCosts(
			[]CostLine{{
				Quantity:      money("1"),
				PricePerUnit:  money("100"),
				VATRate:       money("0"),
				MarginPercent: &margin,
			}},
			OverheadCosts{},
			policy,
		)

		require.Len(t, got.Lines, 1)
		assert.True(t, got.Lines[0].PriceBeforeVAT.Equal(money("150")))
		assert.True(t, got.Lines[0].RetailPrice.Equal(money("150")))
	})

	t.Run("attributed costs sum exactly to overhead total", func(t *testing.T) {
		// 1/3 splits do not terminate in decimal; the residue must be
		// folded back so the column still adds up.
		got := DistributeCosts(
			[]CostLine{
				costLine("1", "10", "17"),
				costLine("1", "10", "17"),
				costLine("1", "10", "17"),
			},
			OverheadCosts{Other: money("10")},
			policy,
		)

		sum := types.Zero()
		for _, l := range got.Lines {
			sum = sum.Add(l.AttributedCost)
		}
		assert.True(t, sum.Equal(money("10")), "attributed sum = %s", sum)
		assert.True(t, got.Totals.AttributedCost.Equal(money("10")))
	})

	t.Run("empty line set attributes nothing", func(t *testing.T) {
		got := DistributeCosts(nil, OverheadCosts{Transport: money("100")}, policy)
		assert.Empty(t, got.Lines)
		assert.True(t, got.Totals.AttributedCost.IsZero())
	})

	t.Run("zero purchase value attributes zero to every line", func(t *testing.T) {
		got := DistributeCosts(
			[]CostLine{
				costLine("0", "100", "17"),
				costLine("5", "0", "17"),
			},
			OverheadCosts{Transport: money("30")},
			policy,
		)

		require.Len(t, got.Lines, 2)
		for _, l := range got.Lines {
			assert.True(t, l.AttributedCost.IsZero())
		}
		assert.True(t, got.Lines[0].LandedUnitCost.IsZero(), "zero quantity yields zero landed cost")
		assert.True(t, got.Totals.AttributedCost.IsZero())
	})
}
