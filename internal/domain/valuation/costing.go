package valuation

import (
	"bherp/internal/core/tax"
	"bherp/internal/core/types"
)

// OverheadCosts are the shared costs of a goods-receipt calculation
// that must be spread across its line items.
type OverheadCosts struct {
	Transport types.Money `json:"transportCosts"`
	Customs   types.Money `json:"customsCosts"`
	Other     types.Money `json:"otherCosts"`
}

// Total returns the sum of all overhead components.
func (c OverheadCosts) Total() types.Money {
	return c.Transport.Add(c.Customs).Add(c.Other)
}

// CostLine is one purchase line entering cost distribution.
// MarginPercent overrides the policy default markup when set.
type CostLine struct {
	Quantity      types.Money
	PricePerUnit  types.Money
	VATRate       types.Percent
	MarginPercent *types.Percent
}

// CostedLine is the per-line result of cost distribution.
type CostedLine struct {
	// PurchaseValue is quantity * pricePerUnit.
	PurchaseValue types.Money `json:"purchaseValue"`

	// AttributedCost is this line's share of the total overhead,
	// proportional to its purchase value.
	AttributedCost types.Money `json:"attributedCost"`

	// LandedUnitCost is (purchaseValue + attributedCost) / quantity.
	LandedUnitCost types.Money `json:"landedUnitCost"`

	// PriceBeforeVAT is landedUnitCost marked up by the margin percent.
	PriceBeforeVAT types.Money `json:"priceBeforeVat"`

	// VATAmount is priceBeforeVAT * vatRate/100.
	VATAmount types.Money `json:"vatAmount"`

	// RetailPrice is priceBeforeVAT + vatAmount, per unit.
	RetailPrice types.Money `json:"retailPrice"`
}

// CostTotals are the document-level rollups of a distribution.
type CostTotals struct {
	PurchaseValue  types.Money `json:"purchaseValue"`
	AttributedCost types.Money `json:"attributedCost"`
	PreVATValue    types.Money `json:"preVatValue"`
	RetailValue    types.Money `json:"retailValue"`
}

// Distribution is the full result of DistributeCosts.
type Distribution struct {
	Lines  []CostedLine `json:"lines"`
	Totals CostTotals   `json:"totals"`
}

// DistributeCosts apportions the overhead total across lines proportionally
// to each line's purchase value, then derives per-unit landed cost and
// retail price using the line margin (or the policy default).
//
/// Guarantee: when total purchase value is positive, the attributed costs
// sum to exactly costs.Total(). Division residue is folded into the line
// with the largest purchase value. A zero-value line set attributes zero
// cost to every line.
func DistributeCosts(lines []CostLine, costs OverheadCosts, policy tax.Policy) Distribution {
	d := Distribution{
		Totals: CostTotals{
			PurchaseValue:  types.Zero(),
			AttributedCost: types.Zero(),
			PreVATValue:    types.Zero(),
			RetailValue:    types.Zero(),
		},
	}
	if len(lines) == 0 {
		return d
	}

	totalCosts := costs.Total()

	totalValue := types.Zero()
	values := make([]types.Money, len(lines))
	largest := 0
	for i, l := range lines {
		values[i] = l.Quantity.Mul(l.PricePerUnit)
		totalValue = totalValue.Add(values[i])
		if values[i].GreaterThan(values[largest]) {
			largest = i
		}
	}

	distributable := totalValue.IsPositive()

	d.Lines = make([]CostedLine, len(lines))
	attributedSum := types.Zero()
	for i := range lines {
		attributed := types.Zero()
		if distributable {
			attributed = values[i].Mul(totalCosts).Div(totalValue)
		}
		attributedSum = attributedSum.Add(attributed)
		d.Lines[i] = CostedLine{
			PurchaseValue:  values[i],
			AttributedCost: attributed,
		}
	}

	// Proportional weights may not sum to exactly 1 after division;
	// the residue goes to the largest line so the column adds up.
	if distributable {
		residue := totalCosts.Sub(attributedSum)
		if !residue.IsZero() {
			d.Lines[largest].AttributedCost = d.Lines[largest].AttributedCost.Add(residue)
		}
	}

	for i, l := range lines {
		cl := &d.Lines[i]

		if l.Quantity.IsPositive() {
			cl.LandedUnitCost = cl.PurchaseValue.Add(cl.AttributedCost).Div(l.Quantity)
		} else {
			cl.LandedUnitCost = types.Zero()
		}

		margin := policy.DefaultMarginPercent
		if l.MarginPercent != nil {
			margin = *l.MarginPercent
		}
		cl.PriceBeforeVAT = cl.LandedUnitCost.Add(types.FractionOf(cl.LandedUnitCost, margin))
		cl.VATAmount = types.FractionOf(cl.PriceBeforeVAT, l.VATRate)
		cl.RetailPrice = cl.PriceBeforeVAT.Add(cl.VATAmount)

		d.Totals.PurchaseValue = d.Totals.PurchaseValue.Add(cl.PurchaseValue)
		d.Totals.AttributedCost = d.Totals.AttributedCost.Add(cl.AttributedCost)
		d.Totals.PreVATValue = d.Totals.PreVATValue.Add(cl.PriceBeforeVAT.Mul(l.Quantity))
		d.Totals.RetailValue = d.Totals.RetailValue.Add(cl.RetailPrice.Mul(l.Quantity))
	}

	return d
}
