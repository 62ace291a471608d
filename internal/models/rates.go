package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable is an immutable snapshot of the fee reference data: a fixed base
// fee per document type and a fixed add-on fee per trade. Lookups never fail;
// an unknown key resolves to zero so an incomplete draft still prices.
type RateTable struct {
	DocumentTypes map[DocumentType]decimal.Decimal `json:"document_types"`
	// Trades is keyed by lower-cased trade name.
	Trades map[string]decimal.Decimal `json:"trades"`
}

// DocumentTypeFee returns the base fee for a document type, zero if unknown.
func (t RateTable) DocumentTypeFee(dt DocumentType) decimal.Decimal {
	if fee, ok := t.DocumentTypes[dt]; ok {
		return fee
	}
	return decimal.Zero
}

// TradeFee returns the add-on fee for a trade. The lookup is
// case-insensitive; an unknown trade costs zero.
func (t RateTable) TradeFee(trade string) decimal.Decimal {
	if fee, ok := t.Trades[strings.ToLower(trade)]; ok {
		return fee
	}
	return decimal.Zero
}

// DefaultRateTable is the seed fee schedule, used to populate the reference
// tables and as a fallback when they cannot be loaded.
func DefaultRateTable() RateTable {
	return RateTable{
		DocumentTypes: map[DocumentType]decimal.Decimal{
			DocumentTypeEstimate:          decimal.NewFromInt(150),
			DocumentTypeInvoice:           decimal.NewFromInt(100),
			DocumentTypeInsuranceEstimate: decimal.NewFromInt(250),
			DocumentTypePlumberReport:     decimal.NewFromInt(200),
		},
		Trades: map[string]decimal.Decimal{
			"plumbing":   decimal.NewFromInt(75),
			"electrical": decimal.NewFromInt(85),
			"hvac":       decimal.NewFromInt(90),
			"roofing":    decimal.NewFromInt(120),
			"carpentry":  decimal.NewFromInt(65),
			"painting":   decimal.NewFromInt(50),
			"flooring":   decimal.NewFromInt(70),
			"drywall":    decimal.NewFromInt(55),
		},
	}
}
