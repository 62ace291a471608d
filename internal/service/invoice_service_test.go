package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

func TestValidateCreateInvoiceRequest(t *testing.T) {
	item := func(name string, qty, rate int64) models.InvoiceItem {
		return models.InvoiceItem{
			Name:     name,
			Quantity: decimal.NewFromInt(qty),
			Unit:     models.ItemUnitEach,
			Rate:     decimal.NewFromInt(rate),
		}
	}

	tests := []struct {
		name    string
		request models.CreateInvoiceRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("Labor", 2, 90)},
				TaxMethod: models.TaxMethodPercentage,
				TaxRate:   decimal.NewFromFloat(8.25),
			},
			wantErr: false,
		},
		{
			name:    "missing company",
			request: models.CreateInvoiceRequest{Items: []models.InvoiceItem{item("Labor", 1, 90)}},
			wantErr: true,
		},
		{
			name: "empty items allowed for a draft",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
			},
			wantErr: false,
		},
		{
			name: "zero quantity",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("Labor", 0, 90)},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("Refund line", 1, -10)},
			},
			wantErr: true,
		},
		{
			name: "unnamed item",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("", 1, 90)},
			},
			wantErr: true,
		},
		{
			name: "unknown unit",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items: []models.InvoiceItem{{
					Name:     "Gravel",
					Quantity: decimal.NewFromInt(3),
					Unit:     "ton",
					Rate:     decimal.NewFromInt(40),
				}},
			},
			wantErr: true,
		},
		{
			name: "unknown tax method",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("Labor", 1, 90)},
				TaxMethod: "flat",
			},
			wantErr: true,
		},
		{
			name: "negative discount",
			request: models.CreateInvoiceRequest{
				CompanyID: "cmp_123",
				Items:     []models.InvoiceItem{item("Labor", 1, 90)},
				Discount:  decimal.NewFromInt(-5),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateInvoiceRequest(&tt.request)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRecordPaymentRequest(t *testing.T) {
	tests := []struct {
		name    string
		request models.RecordPaymentRequest
		wantErr bool
	}{
		{
			name: "valid payment",
			request: models.RecordPaymentRequest{
				Amount: decimal.NewFromInt(50),
				Method: models.PaymentMethodCheck,
			},
			wantErr: false,
		},
		{
			name:    "method optional",
			request: models.RecordPaymentRequest{Amount: decimal.NewFromInt(50)},
			wantErr: false,
		},
		{
			name:    "zero amount",
			request: models.RecordPaymentRequest{Amount: decimal.Zero},
			wantErr: true,
		},
		{
			name:    "negative amount",
			request: models.RecordPaymentRequest{Amount: decimal.NewFromInt(-10)},
			wantErr: true,
		},
		{
			name: "unknown method",
			request: models.RecordPaymentRequest{
				Amount: decimal.NewFromInt(10),
				Method: "barter",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecordPaymentRequest(&tt.request)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	number := generateInvoiceNumber(now)
	assert.True(t, strings.HasPrefix(number, "INV-20260824-"))
	assert.Len(t, number, len("INV-20260824-")+8)

	other := generateInvoiceNumber(now)
	assert.NotEqual(t, number, other)
}
