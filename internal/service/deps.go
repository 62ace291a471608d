package service

import (
	"context"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// EventPublisher emits domain events for downstream consumers (reporting,
// the notification pipeline, the payments service).
type EventPublisher interface {
	PublishWorkOrderCreated(ctx context.Context, workOrder *models.WorkOrder) error
	PublishWorkOrderStatusChanged(ctx context.Context, workOrder *models.WorkOrder, previousStatus models.WorkOrderStatus) error
	PublishInvoiceCreated(ctx context.Context, invoice *models.Invoice) error
	PublishInvoiceSent(ctx context.Context, invoice *models.Invoice) error
	PublishPaymentRecorded(ctx context.Context, invoice *models.Invoice, payment models.PaymentRecord) error
}

// NotificationSender delivers customer-facing emails through the
// notification service.
type NotificationSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
