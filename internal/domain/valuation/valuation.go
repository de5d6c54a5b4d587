// Package valuation implements the document calculation engine:
// line-item valuation, per-rate totals aggregation and proportional
// overhead-cost distribution for retail price calculations.
//
// All functions are pure. Inputs are not validated beyond the documented
// zero-denominator guards; callers own non-negativity of quantities and
// prices. Amounts use decimal arithmetic throughout.
package valuation

import (
	"bherp/internal/core/types"
)

// Line is one priced document line as the engine sees it.
type Line struct {
	Quantity        types.Money
	PricePerUnit    types.Money
	DiscountPercent types.Percent
	VATRate         types.Percent
}

// LineValue is the result of valuating a single line.
type LineValue struct {
	// Subtotal is quantity * pricePerUnit * (1 - discount/100).
	Subtotal types.Money `json:"subtotal"`

	// VAT is subtotal * vatRate/100.
	VAT types.Money `json:"vat"`
}

// Total returns Subtotal + VAT.
func (v LineValue) Total() types.Money {
	return v.Subtotal.Add(v.VAT)
}

// Valuate computes the discounted subtotal and VAT contribution of one line.
func Valuate(l Line) LineValue {
	gross := l.Quantity.Mul(l.PricePerUnit)
	subtotal := gross.Sub(types.FractionOf(gross, l.DiscountPercent))
	return LineValue{
		Subtotal: subtotal,
		VAT:      types.FractionOf(subtotal, l.VATRate),
	}
}

// RateBucket accumulates subtotal and VAT for one distinct VAT rate.
type RateBucket struct {
	Rate     types.Percent `json:"rate"`
	Subtotal types.Money   `json:"subtotal"`
	VAT      types.Money   `json:"vat"`
}

// Totals is the aggregated valuation of a document's lines.
// ByRate keeps insertion order of first occurrence so display matches
// the order rates appear in the document.
type Totals struct {
	ByRate     []RateBucket `json:"byRate"`
	Subtotal   types.Money  `json:"subtotal"`
	VAT        types.Money  `json:"vat"`
	GrandTotal types.Money  `json:"grandTotal"`
}

// Bucket returns the bucket for rate, if present.
func (t Totals) Bucket(rate types.Percent) (RateBucket, bool) {
	for _, b := range t.ByRate {
		if b.Rate.Equal(rate) {
			return b, true
		}
	}
	return RateBucket{}, false
}

// AggregateTotals groups lines by distinct VAT rate and accumulates each
// group's subtotal and VAT. An empty line set yields empty buckets and
// zero totals.
func AggregateTotals(lines []Line) Totals {
	t := Totals{
		Subtotal:   types.Zero(),
		VAT:        types.Zero(),
		GrandTotal: types.Zero(),
	}

	for _, l := range lines {
		v := Valuate(l)

		// Rates compare by numeric value, not representation, so
		// 17 and 17.0 land in the same bucket.
		i := -1
		for j := range t.ByRate {
			if t.ByRate[j].Rate.Equal(l.VATRate) {
				i = j
				break
			}
		}
		if i < 0 {
			i = len(t.ByRate)
			t.ByRate = append(t.ByRate, RateBucket{
				Rate:     l.VATRate,
				Subtotal: types.Zero(),
				VAT:      types.Zero(),
			})
		}
		t.ByRate[i].Subtotal = t.ByRate[i].Subtotal.Add(v.Subtotal)
		t.ByRate[i].VAT = t.ByRate[i].VAT.Add(v.VAT)

		t.Subtotal = t.Subtotal.Add(v.Subtotal)
		t.VAT = t.VAT.Add(v.VAT)
	}

	t.GrandTotal = t.Subtotal.Add(t.VAT)
	return t
}
