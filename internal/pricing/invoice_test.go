package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func item(qty, rate int64, taxable *bool) models.InvoiceItem {
	return models.InvoiceItem{
		Name:     "line",
		Quantity: decimal.NewFromInt(qty),
		Unit:     models.ItemUnitEach,
		Rate:     decimal.NewFromInt(rate),
		Taxable:  taxable,
	}
}

func TestCalculateInvoiceTotals_PercentageTax(t *testing.T) {
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{
			item(2, 50, boolPtr(true)),
			item(1, 30, boolPtr(false)),
		},
		Discount:  decimal.NewFromInt(10),
		TaxMethod: models.TaxMethodPercentage,
		TaxRate:   decimal.NewFromInt(10),
	})

	// Subtotal covers all items; the tax base only the taxable ones.
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(130)), "subtotal = %s", got.Subtotal)
	assert.True(t, got.TaxAmount.Equal(decimal.NewFromInt(9)), "tax = %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(129)), "total = %s", got.Total)
}

func TestCalculateInvoiceTotals_SpecificTax(t *testing.T) {
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{
			item(2, 50, boolPtr(true)),
			item(1, 30, boolPtr(false)),
		},
		Discount:  decimal.NewFromInt(10),
		TaxMethod: models.TaxMethodSpecific,
		TaxAmount: decimal.NewFromInt(15),
	})

	// A fixed tax amount ignores per-item taxability entirely.
	assert.True(t, got.TaxAmount.Equal(decimal.NewFromInt(15)), "tax = %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(135)), "total = %s", got.Total)
}

func TestCalculateInvoiceTotals_TaxableDefaultsTrue(t *testing.T) {
	// Only an explicit false excludes a line from the tax base; absent means
	// taxable.
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{
			item(1, 100, nil),
			item(1, 100, boolPtr(false)),
		},
		TaxMethod: models.TaxMethodPercentage,
		TaxRate:   decimal.NewFromInt(10),
	})

	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal = %s", got.Subtotal)
	assert.True(t, got.TaxAmount.Equal(decimal.NewFromInt(10)), "tax = %s", got.TaxAmount)
}

func TestCalculateInvoiceTotals_BalanceNotClampedOnOverpayment(t *testing.T) {
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{item(1, 100, nil)},
		Payments: []models.PaymentRecord{
			{Amount: decimal.NewFromInt(120)},
		},
	})

	assert.True(t, got.TotalPaid.Equal(decimal.NewFromInt(120)), "paid = %s", got.TotalPaid)
	assert.True(t, got.BalanceDue.Equal(decimal.NewFromInt(-20)), "balance = %s", got.BalanceDue)
}

func TestCalculateInvoiceTotals_MultiplePayments(t *testing.T) {
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{item(3, 40, nil)},
		Payments: []models.PaymentRecord{
			{Amount: decimal.NewFromInt(50), Method: models.PaymentMethodCheck},
			{Amount: decimal.NewFromInt(25), Method: models.PaymentMethodCash},
		},
	})

	assert.True(t, got.TotalPaid.Equal(decimal.NewFromInt(75)), "paid = %s", got.TotalPaid)
	assert.True(t, got.BalanceDue.Equal(decimal.NewFromInt(45)), "balance = %s", got.BalanceDue)
}

func TestCalculateInvoiceTotals_NoTaxSettings(t *testing.T) {
	// Missing tax method degrades to zero tax rather than erroring.
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{item(1, 100, nil)},
	})

	assert.True(t, got.TaxAmount.IsZero(), "tax = %s", got.TaxAmount)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(100)), "total = %s", got.Total)
}

func TestCalculateInvoiceTotals_EmptyInvoice(t *testing.T) {
	got := CalculateInvoiceTotals(InvoiceTotalsInput{})

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.BalanceDue.IsZero())
}

func TestCalculateInvoiceTotals_FractionalQuantities(t *testing.T) {
	half := decimal.NewFromFloat(2.5)
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{
			{Name: "labor", Quantity: half, Unit: models.ItemUnitHour, Rate: decimal.NewFromInt(90)},
		},
		TaxMethod: models.TaxMethodPercentage,
		TaxRate:   decimal.NewFromFloat(8.25),
	})

	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(225)), "subtotal = %s", got.Subtotal)
	// 225 × 8.25% = 18.5625, rounded to cents.
	assert.True(t, got.TaxAmount.Equal(decimal.NewFromFloat(18.56)), "tax = %s", got.TaxAmount)
}

func TestCalculateInvoiceTotals_NegativeRatePropagates(t *testing.T) {
	// The calculator performs no validation; out-of-range values flow
	// through arithmetically. Rejection is the form layer's job.
	got := CalculateInvoiceTotals(InvoiceTotalsInput{
		Items: []models.InvoiceItem{item(1, -50, nil)},
	})

	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(-50)), "subtotal = %s", got.Subtotal)
}

func TestCalculateInvoiceTotals_Idempotent(t *testing.T) {
	in := InvoiceTotalsInput{
		Items:     []models.InvoiceItem{item(2, 50, nil), item(1, 30, boolPtr(false))},
		Discount:  decimal.NewFromInt(10),
		TaxMethod: models.TaxMethodPercentage,
		TaxRate:   decimal.NewFromInt(10),
		Payments:  []models.PaymentRecord{{Amount: decimal.NewFromInt(40)}},
	}

	first := CalculateInvoiceTotals(in)
	second := CalculateInvoiceTotals(in)

	assert.Equal(t, first, second)
}
