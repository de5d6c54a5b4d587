// Package tax defines the jurisdiction tax policy injected into all
// calculation code. No computation should hard-code a VAT rate or a
// markup percentage; it takes a Policy instead.
package tax

import (
	"github.com/shopspring/decimal"

	"bherp/internal/core/types"
)

// Policy describes the VAT regime and pricing defaults of a jurisdiction.
type Policy struct {
	// StandardRate is the positive VAT rate (percent) used for the
	// statutory ledger columns. 17 in Bosnia-Herzegovina.
	StandardRate types.Percent

	// ZeroRate is the zero/exempt rate. Items at this rate carry no VAT
	// but their base is still reported.
	ZeroRate types.Percent

	// DefaultMarginPercent is the retail markup applied in price
	// calculations when a line does not override it.
	DefaultMarginPercent types.Percent
}

// Bosnia returns the Bosnia-Herzegovina policy: single 17% PDV rate,
// zero rate for exempt supplies, 20% default retail margin.
func Bosnia() Policy {
	return Policy{
		StandardRate:         decimal.NewFromInt(17),
		ZeroRate:             decimal.Zero,
		DefaultMarginPercent: decimal.NewFromInt(20),
	}
}

// IsStandardRate reports whether rate equals the policy standard rate.
func (p Policy) IsStandardRate(rate types.Percent) bool {
	return rate.Equal(p.StandardRate)
}

// IsZeroRate reports whether rate equals the policy zero rate.
func (p Policy) IsZeroRate(rate types.Percent) bool {
	return rate.Equal(p.ZeroRate)
}
