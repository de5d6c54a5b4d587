// Package taxbook builds the statutory VAT ledgers: KIR (knjiga
// izlaznih računa, output ledger from invoices) and KUR (knjiga
// ulaznih računa, input ledger from calculations).
package taxbook

import (
	"time"

	"bherp/internal/core/id"
	"bherp/internal/core/tax"
	"bherp/internal/core/types"
	"bherp/internal/domain/documents"
	"bherp/internal/domain/valuation"
)

// LedgerType selects which statutory book is built.
type LedgerType string

const (
	// LedgerKIR is the output/sales ledger, sourced from invoices.
	LedgerKIR LedgerType = "KIR"

	// LedgerKUR is the input/purchase ledger, sourced from calculations.
	LedgerKUR LedgerType = "KUR"
)

// Valid reports whether l is a known ledger type.
func (l LedgerType) Valid() bool {
	return l == LedgerKIR || l == LedgerKUR
}

// SourceType returns the document type feeding this ledger.
func (l LedgerType) SourceType() documents.DocType {
	if l == LedgerKUR {
		return documents.TypeCalculation
	}
	return documents.TypeInvoice
}

// RateBase is the VAT base and tax accumulated for one distinct rate.
// Every rate found on a document gets its own bucket; no rate is
// silently dropped from the book.
type RateBase struct {
	Rate types.Percent `json:"rate"`
	Base types.Money   `json:"base"`
	VAT  types.Money   `json:"vat"`
}

// Row is one ledger line, derived from a single document.
type Row struct {
	DocumentID      id.ID     `json:"documentId"`
	Number          string    `json:"number"`
	Date            time.Time `json:"date"`
	ClientName      string    `json:"clientName"`
	ClientJIB       string    `json:"clientJib,omitempty"`
	ClientPDVNumber string    `json:"clientPdvNumber,omitempty"`

	// Bases holds one bucket per distinct VAT rate on the document,
	// in first-occurrence order.
	Bases []RateBase `json:"bases"`

	// Statutory columns projected from Bases using the policy rates.
	BaseStandard types.Money `json:"baseStandard"`
	BaseZero     types.Money `json:"baseZero"`
	VATStandard  types.Money `json:"vatStandard"`

	// Total is the sum of every base and every VAT amount on the row.
	Total types.Money `json:"total"`
}

// Footer is the column-wise sum across all rows of the book.
type Footer struct {
	Bases        []RateBase  `json:"bases"`
	BaseStandard types.Money `json:"baseStandard"`
	BaseZero     types.Money `json:"baseZero"`
	VATStandard  types.Money `json:"vatStandard"`
	Total        types.Money `json:"total"`
}

// Book is a complete period ledger.
type Book struct {
	Period string     `json:"period"`
	Ledger LedgerType `json:"ledger"`
	Rows   []Row      `json:"rows"`
	Footer Footer     `json:"footer"`
}

// addToBuckets accumulates base and vat into the bucket for rate,
// creating it on first occurrence.
func addToBuckets(buckets []RateBase, rate types.Percent, base, vat types.Money) []RateBase {
	for i := range buckets {
		if buckets[i].Rate.Equal(rate) {
			buckets[i].Base = buckets[i].Base.Add(base)
			buckets[i].VAT = buckets[i].VAT.Add(vat)
			return buckets
		}
	}
	return append(buckets, RateBase{Rate: rate, Base: base, VAT: vat})
}

// Build produces the ledger for one tax period. Documents are included
// when their tax period equals period and their type matches the
// ledger's source type; rows keep the collection's order.
//
// Each document's items are grouped by distinct VAT rate; a bucket's
// VAT is its base times the rate. The statutory columns project the
// buckets at the policy standard and zero rates; other rates stay in
// Bases and still count toward the row total.
func Build(docs []documents.Document, period string, ledger LedgerType, policy tax.Policy) *Book {
	book := &Book{
		Period: period,
		Ledger: ledger,
		Rows:   make([]Row, 0),
		Footer: Footer{
			BaseStandard: types.Zero(),
			BaseZero:     types.Zero(),
			VATStandard:  types.Zero(),
			Total:        types.Zero(),
		},
	}

	sourceType := ledger.SourceType()
	for i := range docs {
		doc := &docs[i]
		if doc.Type != sourceType || doc.TaxPeriod != period {
			continue
		}
		book.Rows = append(book.Rows, buildRow(doc, policy))
	}

	for _, row := range book.Rows {
		for _, b := range row.Bases {
			book.Footer.Bases = addToBuckets(book.Footer.Bases, b.Rate, b.Base, b.VAT)
		}
		book.Footer.BaseStandard = book.Footer.BaseStandard.Add(row.BaseStandard)
		book.Footer.BaseZero = book.Footer.BaseZero.Add(row.BaseZero)
		book.Footer.VATStandard = book.Footer.VATStandard.Add(row.VATStandard)
		book.Footer.Total = book.Footer.Total.Add(row.Total)
	}

	return book
}

func buildRow(doc *documents.Document, policy tax.Policy) Row {
	row := Row{
		DocumentID:      doc.ID,
		Number:          doc.Number,
		Date:            doc.DateCreated,
		ClientName:      doc.Client.Name,
		ClientJIB:       doc.Client.JIB,
		ClientPDVNumber: doc.Client.PDVNumber,
		BaseStandard:    types.Zero(),
		BaseZero:        types.Zero(),
		VATStandard:     types.Zero(),
		Total:           types.Zero(),
	}

	// Accumulate bases first; VAT is derived from the bucket base so
	// the statutory column matches base * rate exactly.
	for _, item := range doc.Items {
		base := valuation.Valuate(item.ValuationLine()).Subtotal
		row.Bases = addToBuckets(row.Bases, item.VATRate, base, types.Zero())
	}

	for i := range row.Bases {
		b := &row.Bases[i]
		b.VAT = types.FractionOf(b.Base, b.Rate)

		switch {
		case policy.IsStandardRate(b.Rate):
			row.BaseStandard = row.BaseStandard.Add(b.Base)
			row.VATStandard = row.VATStandard.Add(b.VAT)
		case policy.IsZeroRate(b.Rate):
			row.BaseZero = row.BaseZero.Add(b.Base)
		}

		row.Total = row.Total.Add(b.Base).Add(b.VAT)
	}

	return row
}
