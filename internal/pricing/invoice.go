package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// InvoiceTotalsInput is the snapshot an invoice totals calculation runs over.
type InvoiceTotalsInput struct {
	Items    []models.InvoiceItem
	Discount decimal.Decimal
	// TaxMethod selects percentage-of-taxable-subtotal or a fixed amount.
	TaxMethod models.TaxMethod
	// TaxRate is a percentage (0–100), used by TaxMethodPercentage.
	TaxRate decimal.Decimal
	// TaxAmount is the fixed tax value, used by TaxMethodSpecific.
	TaxAmount decimal.Decimal
	Payments  []models.PaymentRecord
}

var oneHundred = decimal.NewFromInt(100)

// CalculateInvoiceTotals derives an invoice's money summary.
//
// The subtotal and the discount cover all items; only the tax base is
// restricted to taxable items (an item is non-taxable only when its flag is
// explicitly false). Payments reduce the balance due but never the subtotal
// or the tax base, and the balance is not floored at zero: overpayment shows
// as a negative balance. No input validation happens here; out-of-range
// values propagate arithmetically.
func CalculateInvoiceTotals(in InvoiceTotalsInput) models.InvoiceTotals {
	subtotal := decimal.Zero
	taxableSubtotal := decimal.Zero
	for _, item := range in.Items {
		amount := item.Amount()
		subtotal = subtotal.Add(amount)
		if item.IsTaxable() {
			taxableSubtotal = taxableSubtotal.Add(amount)
		}
	}
	subtotal = subtotal.Round(2)

	var taxAmount decimal.Decimal
	switch in.TaxMethod {
	case models.TaxMethodSpecific:
		taxAmount = in.TaxAmount
	case models.TaxMethodPercentage:
		taxAmount = taxableSubtotal.Sub(in.Discount).Mul(in.TaxRate).Div(oneHundred)
	default:
		// Missing tax settings degrade to zero tax, not an error.
		taxAmount = decimal.Zero
	}
	taxAmount = taxAmount.Round(2)

	total := subtotal.Sub(in.Discount).Add(taxAmount).Round(2)

	totalPaid := decimal.Zero
	for _, payment := range in.Payments {
		totalPaid = totalPaid.Add(payment.Amount)
	}
	totalPaid = totalPaid.Round(2)

	return models.InvoiceTotals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		Total:      total,
		TotalPaid:  totalPaid,
		BalanceDue: total.Sub(totalPaid),
	}
}
