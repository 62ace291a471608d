// Package events contains the Kafka publisher for billing domain events and
// the consumer for the external payments feed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/service"
)

// Ensure KafkaPublisher implements service.EventPublisher
var _ service.EventPublisher = (*KafkaPublisher)(nil)

// EventType represents the type of billing event.
type EventType string

const (
	EventTypeWorkOrderCreated       EventType = "workorder.created"
	EventTypeWorkOrderStatusChanged EventType = "workorder.status_changed"
	EventTypeInvoiceCreated         EventType = "invoice.created"
	EventTypeInvoiceSent            EventType = "invoice.sent"
	EventTypePaymentRecorded        EventType = "invoice.payment_recorded"
)

// BillingEvent is the envelope every billing event travels in.
type BillingEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	DocumentID string          `json:"document_id"`
	CompanyID  string          `json:"company_id"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
}

// KafkaPublisher publishes billing events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *logrus.Entry
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logrus.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.BillingTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.BillingTopic,
		logger: logger.WithField("component", "kafka-publisher"),
	}
}

// PublishWorkOrderCreated publishes a work order created event.
func (p *KafkaPublisher) PublishWorkOrderCreated(ctx context.Context, workOrder *models.WorkOrder) error {
	data, err := json.Marshal(workOrder)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeWorkOrderCreated, workOrder.ID, workOrder.CompanyID, data)
	return p.publish(ctx, event)
}

// PublishWorkOrderStatusChanged publishes a work order status change event.
func (p *KafkaPublisher) PublishWorkOrderStatusChanged(ctx context.Context, workOrder *models.WorkOrder, previousStatus models.WorkOrderStatus) error {
	payload := struct {
		WorkOrder      *models.WorkOrder      `json:"work_order"`
		PreviousStatus models.WorkOrderStatus `json:"previous_status"`
		NewStatus      models.WorkOrderStatus `json:"new_status"`
	}{
		WorkOrder:      workOrder,
		PreviousStatus: previousStatus,
		NewStatus:      workOrder.Status,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeWorkOrderStatusChanged, workOrder.ID, workOrder.CompanyID, data)
	return p.publish(ctx, event)
}

// PublishInvoiceCreated publishes an invoice created event.
func (p *KafkaPublisher) PublishInvoiceCreated(ctx context.Context, invoice *models.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeInvoiceCreated, invoice.ID, invoice.CompanyID, data)
	return p.publish(ctx, event)
}

// PublishInvoiceSent publishes an invoice sent event.
func (p *KafkaPublisher) PublishInvoiceSent(ctx context.Context, invoice *models.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeInvoiceSent, invoice.ID, invoice.CompanyID, data)
	return p.publish(ctx, event)
}

// PublishPaymentRecorded publishes a payment recorded event.
func (p *KafkaPublisher) PublishPaymentRecorded(ctx context.Context, invoice *models.Invoice, payment models.PaymentRecord) error {
	payload := struct {
		Invoice *models.Invoice      `json:"invoice"`
		Payment models.PaymentRecord `json:"payment"`
	}{
		Invoice: invoice,
		Payment: payment,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := newEvent(EventTypePaymentRecorded, invoice.ID, invoice.CompanyID, data)
	return p.publish(ctx, event)
}

func newEvent(eventType EventType, documentID, companyID string, data []byte) *BillingEvent {
	return &BillingEvent{
		ID:         models.NewID(models.IDPrefixEvent),
		Type:       eventType,
		DocumentID: documentID,
		CompanyID:  companyID,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *BillingEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.DocumentID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithFields(logrus.Fields{
			"event_id":    event.ID,
			"event_type":  event.Type,
			"document_id": event.DocumentID,
			"error":       err.Error(),
		}).Error("Failed to publish event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"event_type":  event.Type,
		"document_id": event.DocumentID,
	}).Info("Event published")

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}
