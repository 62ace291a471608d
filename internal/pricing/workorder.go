// Package pricing holds the billing calculations for work orders and
// invoices. Every function here is pure: it takes a full input snapshot,
// returns a freshly computed result, performs no I/O and keeps no state, so
// callers may invoke it as often as form state changes.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// DefaultCreditCap is the share of the base cost that credits may offset.
var DefaultCreditCap = decimal.NewFromFloat(0.8)

// WorkOrderCostInput is the snapshot a work order cost calculation runs over.
type WorkOrderCostInput struct {
	DocumentType models.DocumentType
	// SelectedTrades is ordered and may contain duplicates; each occurrence
	// is summed independently.
	SelectedTrades []string
	// Credits is read-only; only entries with IsActive true contribute.
	Credits             []models.Credit
	ManualOverride      bool
	ManualOverrideValue decimal.Decimal
	Rates               models.RateTable
	// CreditCap is the maximum share of the base cost credits may offset.
	// The zero value means unset and falls back to DefaultCreditCap.
	CreditCap decimal.Decimal
}

// CalculateWorkOrderCost derives a work order's cost breakdown.
//
// Unknown document types and trades contribute zero rather than erroring, so
// an incomplete draft still produces a usable partial total. The derived
// final cost is never negative. When the manual override is enabled the
// derived fields are still computed for display, but FinalCost carries the
// override value unmodified; no bounds are enforced on it here.
func CalculateWorkOrderCost(in WorkOrderCostInput) models.CostBreakdown {
	baseCost := in.Rates.DocumentTypeFee(in.DocumentType)
	for _, trade := range in.SelectedTrades {
		baseCost = baseCost.Add(in.Rates.TradeFee(trade))
	}
	baseCost = baseCost.Round(2)

	availableCredits := decimal.Zero
	for _, credit := range in.Credits {
		if credit.IsActive {
			availableCredits = availableCredits.Add(credit.Amount)
		}
	}
	availableCredits = availableCredits.Round(2)

	cap := in.CreditCap
	if cap.IsZero() {
		cap = DefaultCreditCap
	}

	// Credits offset at most cap × baseCost (80% by default).
	maxApplicable := baseCost.Mul(cap)
	creditsApplied := decimal.Min(availableCredits, maxApplicable).Round(2)

	finalCost := decimal.Max(decimal.Zero, baseCost.Sub(creditsApplied))
	if in.ManualOverride {
		finalCost = in.ManualOverrideValue
	}

	return models.CostBreakdown{
		BaseCost:         baseCost,
		AvailableCredits: availableCredits,
		CreditsApplied:   creditsApplied,
		FinalCost:        finalCost.Round(2),
	}
}
