package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/metrics"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/pricing"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
)

// InvoiceService owns the invoice lifecycle, totals derivation and payment
// recording.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	cache       repository.DocumentCache
	publisher   EventPublisher
	notifier    NotificationSender
	config      *config.Config
	logger      *logrus.Entry
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	cache repository.DocumentCache,
	publisher EventPublisher,
	notifier NotificationSender,
	cfg *config.Config,
	logger *logrus.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		cache:       cache,
		publisher:   publisher,
		notifier:    notifier,
		config:      cfg,
		logger:      logger.WithField("component", "invoice-service"),
	}
}

// CreateInvoice creates a draft invoice with its totals derived server-side.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validateCreateInvoiceRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := &models.Invoice{
		ID:             models.NewID(models.IDPrefixInvoice),
		CompanyID:      req.CompanyID,
		Number:         generateInvoiceNumber(now),
		Items:          req.Items,
		Discount:       req.Discount,
		TaxMethod:      req.TaxMethod,
		TaxRate:        req.TaxRate,
		TaxFixedAmount: req.TaxFixedAmount,
		Payments:       []models.PaymentRecord{},
		Status:         models.InvoiceStatusDraft,
		DueDate:        req.DueDate,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	invoice.Totals = s.calculateTotals(invoice)

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.cacheInvoice(ctx, invoice)
	s.publishEvent(ctx, "invoice.created", func() error {
		return s.publisher.PublishInvoiceCreated(ctx, invoice)
	})

	s.logger.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"company_id": invoice.CompanyID,
		"total":      invoice.Totals.Total.String(),
	}).Info("Invoice created")

	return invoice, nil
}

// GetInvoice retrieves an invoice, preferring the cache.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	if s.config.Features.EnableDocumentCaching {
		if cached, err := s.cache.GetInvoice(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheInvoice(ctx, invoice)
	return invoice, nil
}

// ListInvoices lists invoices matching the filter, returning the page and the
// total match count.
func (s *InvoiceService) ListInvoices(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.invoiceRepo.List(ctx, filter)
}

// UpdateInvoice replaces a draft invoice's billable content and re-derives
// its totals. Sent invoices are immutable apart from payments.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	if err := validateUpdateInvoiceRequest(req); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot modify invoice in status %s", invoice.Status))
	}

	invoice.Items = req.Items
	invoice.Discount = req.Discount
	invoice.TaxMethod = req.TaxMethod
	invoice.TaxRate = req.TaxRate
	invoice.TaxFixedAmount = req.TaxFixedAmount
	invoice.DueDate = req.DueDate
	invoice.Notes = req.Notes
	invoice.Totals = s.calculateTotals(invoice)
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.cacheInvoice(ctx, invoice)
	return invoice, nil
}

// SendInvoice marks a draft invoice sent, stamps SentAt and emails the
// company contact.
func (s *InvoiceService) SendInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status != models.InvoiceStatusDraft {
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot send invoice in status %s", invoice.Status))
	}

	now := time.Now().UTC()
	invoice.Status = models.InvoiceStatusSent
	invoice.SentAt = &now
	invoice.UpdatedAt = now

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	s.cacheInvoice(ctx, invoice)
	s.publishEvent(ctx, "invoice.sent", func() error {
		return s.publisher.PublishInvoiceSent(ctx, invoice)
	})
	s.notifyInvoiceSent(ctx, invoice)

	s.logger.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"number":     invoice.Number,
	}).Info("Invoice sent")

	return invoice, nil
}

// RecordPayment appends a payment to a sent invoice, re-derives the totals
// and advances the status: paid once the balance reaches zero or below,
// partially paid otherwise.
func (s *InvoiceService) RecordPayment(ctx context.Context, id string, req *models.RecordPaymentRequest) (*models.Invoice, error) {
	if err := validateRecordPaymentRequest(req); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch invoice.Status {
	case models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusPaid:
	default:
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot record payment on invoice in status %s", invoice.Status))
	}

	now := time.Now().UTC()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	payment := models.PaymentRecord{
		ID:         models.NewID(models.IDPrefixPayment),
		Amount:     req.Amount,
		Date:       date,
		Method:     req.Method,
		Reference:  req.Reference,
		RecordedAt: now,
	}

	invoice.Payments = append(invoice.Payments, payment)
	invoice.Totals = s.calculateTotals(invoice)
	invoice.UpdatedAt = now

	// Overpayment leaves the invoice paid with a negative balance.
	if invoice.Totals.BalanceDue.LessThanOrEqual(decimal.Zero) {
		invoice.Status = models.InvoiceStatusPaid
	} else {
		invoice.Status = models.InvoiceStatusPartiallyPaid
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.cacheInvoice(ctx, invoice)
	s.publishEvent(ctx, "invoice.payment_recorded", func() error {
		return s.publisher.PublishPaymentRecorded(ctx, invoice, payment)
	})

	s.logger.WithFields(logrus.Fields{
		"invoice_id":  invoice.ID,
		"payment_id":  payment.ID,
		"amount":      payment.Amount.String(),
		"balance_due": invoice.Totals.BalanceDue.String(),
	}).Info("Payment recorded")

	return invoice, nil
}

// CancelInvoice cancels an unpaid invoice.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch invoice.Status {
	case models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid:
	default:
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot cancel invoice in status %s", invoice.Status))
	}

	invoice.Status = models.InvoiceStatusCancelled
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	s.cacheInvoice(ctx, invoice)
	return invoice, nil
}

// DeleteInvoice soft-deletes a draft invoice. Anything that has been sent
// stays in the books and must be cancelled instead.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != models.InvoiceStatusDraft {
		return errs.NewValidationError("status", fmt.Sprintf("cannot delete invoice in status %s", invoice.Status))
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if s.config.Features.EnableDocumentCaching {
		if err := s.cache.DeleteInvoice(ctx, id); err != nil {
			s.logger.WithField("error", err.Error()).Error("Failed to evict invoice from cache")
		}
	}
	return nil
}

// PreviewInvoiceTotals derives a totals summary without persisting anything.
// The form posts here on every relevant input change.
func (s *InvoiceService) PreviewInvoiceTotals(ctx context.Context, req *models.PreviewInvoiceTotalsRequest) (*models.InvoiceTotals, error) {
	totals := pricing.CalculateInvoiceTotals(pricing.InvoiceTotalsInput{
		Items:     req.Items,
		Discount:  req.Discount,
		TaxMethod: req.TaxMethod,
		TaxRate:   req.TaxRate,
		TaxAmount: req.TaxFixedAmount,
		Payments:  req.Payments,
	})
	metrics.CalculationsTotal.WithLabelValues(metrics.CalculatorInvoice).Inc()
	return &totals, nil
}

func (s *InvoiceService) calculateTotals(invoice *models.Invoice) models.InvoiceTotals {
	totals := pricing.CalculateInvoiceTotals(pricing.InvoiceTotalsInput{
		Items:     invoice.Items,
		Discount:  invoice.Discount,
		TaxMethod: invoice.TaxMethod,
		TaxRate:   invoice.TaxRate,
		TaxAmount: invoice.TaxFixedAmount,
		Payments:  invoice.Payments,
	})
	metrics.CalculationsTotal.WithLabelValues(metrics.CalculatorInvoice).Inc()
	return totals
}

func (s *InvoiceService) cacheInvoice(ctx context.Context, invoice *models.Invoice) {
	if !s.config.Features.EnableDocumentCaching {
		return
	}
	if err := s.cache.SetInvoice(ctx, invoice); err != nil {
		s.logger.WithFields(logrus.Fields{
			"invoice_id": invoice.ID,
			"error":      err.Error(),
		}).Error("Failed to cache invoice")
	}
}

func (s *InvoiceService) publishEvent(ctx context.Context, eventType string, publish func() error) {
	if !s.config.Features.EnableDomainEvents {
		return
	}
	if err := publish(); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		s.logger.WithFields(logrus.Fields{
			"event_type": eventType,
			"error":      err.Error(),
		}).Error("Failed to publish event")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "success").Inc()
}

func (s *InvoiceService) notifyInvoiceSent(ctx context.Context, invoice *models.Invoice) {
	if !s.config.Features.EnableNotifications {
		return
	}
	company, err := s.companyRepo.GetByID(ctx, invoice.CompanyID)
	if err != nil || company.Email == "" {
		return
	}
	subject := fmt.Sprintf("Invoice %s", invoice.Number)
	body := fmt.Sprintf("Invoice %s for $%s is ready. Balance due: $%s.",
		invoice.Number, invoice.Totals.Total.StringFixed(2), invoice.Totals.BalanceDue.StringFixed(2))
	if err := s.notifier.SendEmail(ctx, company.Email, subject, body); err != nil {
		s.logger.WithFields(logrus.Fields{
			"invoice_id": invoice.ID,
			"error":      err.Error(),
		}).Error("Failed to send invoice notification")
	}
}

// generateInvoiceNumber yields numbers like "INV-20260824-1A2B3C4D". The
// random suffix avoids a sequence table; uniqueness is enforced by the DB.
func generateInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
