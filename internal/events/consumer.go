package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/service"
)

// PaymentEventType represents the type of external payment event.
type PaymentEventType string

const (
	PaymentEventReceived PaymentEventType = "payment.received"
)

// PaymentEvent is a payment notification from the payments feed. Payments
// arriving here were collected out of band (card processor, bank import) and
// get applied to the invoice like a manually recorded payment.
type PaymentEvent struct {
	ID        string           `json:"id"`
	Type      PaymentEventType `json:"type"`
	InvoiceID string           `json:"invoice_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Method    string           `json:"method"`
	Reference string           `json:"reference"`
	Timestamp time.Time        `json:"timestamp"`
}

// KafkaConsumer consumes payment events from Kafka.
type KafkaConsumer struct {
	reader         *kafka.Reader
	invoiceService *service.InvoiceService
	logger         *logrus.Entry
	stopCh         chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based payment event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, invoiceService *service.InvoiceService, logger *logrus.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:         reader,
		invoiceService: invoiceService,
		logger:         logger.WithField("component", "kafka-consumer"),
		stopCh:         make(chan struct{}),
	}
}

// Start begins consuming events.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.WithField("error", err.Error()).Error("Failed to read message")
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WithField("error", err.Error()).Error("Failed to unmarshal event")
		return
	}

	switch event.Type {
	case PaymentEventReceived:
		c.handlePaymentReceived(ctx, &event)
	default:
		c.logger.WithField("type", event.Type).Debug("Ignoring unknown event type")
	}
}

func (c *KafkaConsumer) handlePaymentReceived(ctx context.Context, event *PaymentEvent) {
	c.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"invoice_id": event.InvoiceID,
		"amount":     event.Amount.String(),
	}).Info("Handling payment received event")

	date := event.Timestamp
	req := &models.RecordPaymentRequest{
		Amount:    event.Amount,
		Date:      &date,
		Method:    models.PaymentMethod(event.Method),
		Reference: event.Reference,
	}

	if _, err := c.invoiceService.RecordPayment(ctx, event.InvoiceID, req); err != nil {
		c.logger.WithFields(logrus.Fields{
			"invoice_id": event.InvoiceID,
			"error":      err.Error(),
		}).Error("Failed to apply payment event")
	}
}
