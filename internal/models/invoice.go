package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// ItemUnit is the unit an invoice line is billed in.
type ItemUnit string

const (
	ItemUnitEach     ItemUnit = "each"
	ItemUnitHour     ItemUnit = "hour"
	ItemUnitDay      ItemUnit = "day"
	ItemUnitSqFt     ItemUnit = "sq_ft"
	ItemUnitLinearFt ItemUnit = "linear_ft"
	ItemUnitGallon   ItemUnit = "gallon"
	ItemUnitBox      ItemUnit = "box"
	ItemUnitRoll     ItemUnit = "roll"
)

// ValidItemUnit reports whether u is a known billing unit.
func ValidItemUnit(u ItemUnit) bool {
	switch u {
	case ItemUnitEach, ItemUnitHour, ItemUnitDay, ItemUnitSqFt,
		ItemUnitLinearFt, ItemUnitGallon, ItemUnitBox, ItemUnitRoll:
		return true
	}
	return false
}

// PaymentMethod is how a recorded payment was made.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodVenmo        PaymentMethod = "venmo"
	PaymentMethodZelle        PaymentMethod = "zelle"
	PaymentMethodOther        PaymentMethod = "other"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodCreditCard,
		PaymentMethodDebitCard, PaymentMethodBankTransfer, PaymentMethodPayPal,
		PaymentMethodVenmo, PaymentMethodZelle, PaymentMethodOther:
		return true
	}
	return false
}

// TaxMethod selects how an invoice's tax amount is derived.
type TaxMethod string

const (
	// TaxMethodPercentage applies a rate to the taxable subtotal minus the
	// discount.
	TaxMethodPercentage TaxMethod = "percentage"
	// TaxMethodSpecific uses a fixed tax amount supplied directly.
	TaxMethodSpecific TaxMethod = "specific"
)

// InvoiceItem is one billable line. The line amount is always
// quantity × rate, recomputed rather than stored.
type InvoiceItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        ItemUnit        `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	// Taxable is tri-state: only an explicit false excludes the line from
	// the taxable base. Absent means taxable.
	Taxable *bool `json:"taxable,omitempty"`
}

// Amount is the line total (quantity × rate).
func (i InvoiceItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.Rate)
}

// IsTaxable reports whether the line counts toward the taxable subtotal.
func (i InvoiceItem) IsTaxable() bool {
	return i.Taxable == nil || *i.Taxable
}

// PaymentRecord is one payment applied to an invoice. Payments reduce the
// balance due but never the subtotal or tax base.
type PaymentRecord struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// InvoiceTotals is the derived money summary of an invoice.
//
// BalanceDue is deliberately not floored at zero: an overpayment yields a
// negative balance, which the dashboard surfaces as credit owed to the
// customer.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Total      decimal.Decimal `json:"total"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// Invoice is a billable document for a company.
type Invoice struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Number         string          `json:"number"`
	Items          []InvoiceItem   `json:"items"`
	Discount       decimal.Decimal `json:"discount"`
	TaxMethod      TaxMethod       `json:"tax_method"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxFixedAmount decimal.Decimal `json:"tax_fixed_amount"`
	Payments       []PaymentRecord `json:"payments"`
	Totals         InvoiceTotals   `json:"totals"`
	Status         InvoiceStatus   `json:"status"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	DeletedAt      *time.Time      `json:"-"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	CompanyID      string          `json:"company_id"`
	Items          []InvoiceItem   `json:"items"`
	Discount       decimal.Decimal `json:"discount"`
	TaxMethod      TaxMethod       `json:"tax_method"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxFixedAmount decimal.Decimal `json:"tax_fixed_amount"`
	DueDate        *time.Time      `json:"due_date"`
	Notes          string          `json:"notes"`
}

// UpdateInvoiceRequest replaces an invoice's billable content. Totals are
// re-derived server-side; client-sent totals are ignored.
type UpdateInvoiceRequest struct {
	Items          []InvoiceItem   `json:"items"`
	Discount       decimal.Decimal `json:"discount"`
	TaxMethod      TaxMethod       `json:"tax_method"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxFixedAmount decimal.Decimal `json:"tax_fixed_amount"`
	DueDate        *time.Time      `json:"due_date"`
	Notes          string          `json:"notes"`
}

// RecordPaymentRequest appends a payment to an invoice.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date"`
	Method    PaymentMethod   `json:"method"`
	Reference string          `json:"reference"`
}

// PreviewInvoiceTotalsRequest is the calculate-only payload the invoice form
// posts on every relevant input change.
type PreviewInvoiceTotalsRequest struct {
	Items          []InvoiceItem   `json:"items"`
	Discount       decimal.Decimal `json:"discount"`
	TaxMethod      TaxMethod       `json:"tax_method"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxFixedAmount decimal.Decimal `json:"tax_fixed_amount"`
	Payments       []PaymentRecord `json:"payments"`
}

// InvoiceListFilter narrows an invoice listing.
type InvoiceListFilter struct {
	CompanyID string
	Status    *InvoiceStatus
	Limit     int
	Offset    int
}
