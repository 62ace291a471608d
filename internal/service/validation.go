package service

import (
	"github.com/shopspring/decimal"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// Validation guards structural correctness only. Unknown document types and
// trades are deliberately accepted: the calculator prices them at zero so a
// half-filled form still previews.

func validateCreateWorkOrderRequest(req *models.CreateWorkOrderRequest) error {
	if req.CompanyID == "" {
		return errs.NewValidationError("company_id", "company_id is required")
	}
	if req.ManualOverride && req.ManualOverrideValue.IsNegative() {
		return errs.NewValidationError("manual_override_value", "manual override value cannot be negative")
	}
	return nil
}

func validateInvoiceItems(items []models.InvoiceItem) error {
	for _, item := range items {
		if item.Name == "" {
			return errs.NewValidationError("items", "item name is required")
		}
		if !item.Quantity.IsPositive() {
			return errs.NewValidationError("items", "item quantity must be positive")
		}
		if item.Rate.IsNegative() {
			return errs.NewValidationError("items", "item rate cannot be negative")
		}
		if item.Unit != "" && !models.ValidItemUnit(item.Unit) {
			return errs.NewValidationError("items", "unknown item unit: "+string(item.Unit))
		}
	}
	return nil
}

func validateTaxSettings(method models.TaxMethod, discount decimal.Decimal) error {
	if method != "" && method != models.TaxMethodPercentage && method != models.TaxMethodSpecific {
		return errs.NewValidationError("tax_method", "unknown tax method: "+string(method))
	}
	if discount.IsNegative() {
		return errs.NewValidationError("discount", "discount cannot be negative")
	}
	return nil
}

func validateCreateInvoiceRequest(req *models.CreateInvoiceRequest) error {
	if req.CompanyID == "" {
		return errs.NewValidationError("company_id", "company_id is required")
	}
	if err := validateInvoiceItems(req.Items); err != nil {
		return err
	}
	return validateTaxSettings(req.TaxMethod, req.Discount)
}

func validateUpdateInvoiceRequest(req *models.UpdateInvoiceRequest) error {
	if err := validateInvoiceItems(req.Items); err != nil {
		return err
	}
	return validateTaxSettings(req.TaxMethod, req.Discount)
}

func validateRecordPaymentRequest(req *models.RecordPaymentRequest) error {
	if !req.Amount.IsPositive() {
		return errs.NewValidationError("amount", "payment amount must be positive")
	}
	if req.Method != "" && !models.ValidPaymentMethod(req.Method) {
		return errs.NewValidationError("method", "unknown payment method: "+string(req.Method))
	}
	return nil
}

func validateCreateCompanyRequest(req *models.CreateCompanyRequest) error {
	if req.Name == "" {
		return errs.NewValidationError("name", "name is required")
	}
	return nil
}

func validateCreateCreditRequest(req *models.CreateCreditRequest) error {
	if !req.Amount.IsPositive() {
		return errs.NewValidationError("amount", "credit amount must be positive")
	}
	return nil
}
