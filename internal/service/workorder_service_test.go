package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.WorkOrderStatus
		to      models.WorkOrderStatus
		allowed bool
	}{
		{"draft to pending", models.WorkOrderStatusDraft, models.WorkOrderStatusPending, true},
		{"draft to cancelled", models.WorkOrderStatusDraft, models.WorkOrderStatusCancelled, true},
		{"draft to approved skips pending", models.WorkOrderStatusDraft, models.WorkOrderStatusApproved, false},
		{"pending to approved", models.WorkOrderStatusPending, models.WorkOrderStatusApproved, true},
		{"pending to cancelled", models.WorkOrderStatusPending, models.WorkOrderStatusCancelled, true},
		{"pending to completed skips work", models.WorkOrderStatusPending, models.WorkOrderStatusCompleted, false},
		{"approved to in_progress", models.WorkOrderStatusApproved, models.WorkOrderStatusInProgress, true},
		{"approved to cancelled", models.WorkOrderStatusApproved, models.WorkOrderStatusCancelled, true},
		{"in_progress to completed", models.WorkOrderStatusInProgress, models.WorkOrderStatusCompleted, true},
		{"in_progress to cancelled", models.WorkOrderStatusInProgress, models.WorkOrderStatusCancelled, true},
		{"completed is terminal", models.WorkOrderStatusCompleted, models.WorkOrderStatusCancelled, false},
		{"cancelled is terminal", models.WorkOrderStatusCancelled, models.WorkOrderStatusDraft, false},
		{"no backwards moves", models.WorkOrderStatusApproved, models.WorkOrderStatusPending, false},
		{"no self transition", models.WorkOrderStatusPending, models.WorkOrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, isValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestValidateCreateWorkOrderRequest(t *testing.T) {
	tests := []struct {
		name    string
		request models.CreateWorkOrderRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: models.CreateWorkOrderRequest{
				CompanyID:      "cmp_123",
				DocumentType:   models.DocumentTypeEstimate,
				SelectedTrades: []string{"plumbing"},
			},
			wantErr: false,
		},
		{
			name:    "missing company",
			request: models.CreateWorkOrderRequest{DocumentType: models.DocumentTypeEstimate},
			wantErr: true,
		},
		{
			name: "unknown document type is accepted",
			request: models.CreateWorkOrderRequest{
				CompanyID:    "cmp_123",
				DocumentType: "appraisal",
			},
			wantErr: false,
		},
		{
			name: "unknown trades are accepted",
			request: models.CreateWorkOrderRequest{
				CompanyID:      "cmp_123",
				DocumentType:   models.DocumentTypeInvoice,
				SelectedTrades: []string{"masonry", "landscaping"},
			},
			wantErr: false,
		},
		{
			name: "negative manual override",
			request: models.CreateWorkOrderRequest{
				CompanyID:           "cmp_123",
				DocumentType:        models.DocumentTypeEstimate,
				ManualOverride:      true,
				ManualOverrideValue: decimal.NewFromInt(-5),
			},
			wantErr: true,
		},
		{
			name: "negative override value ignored without the flag",
			request: models.CreateWorkOrderRequest{
				CompanyID:           "cmp_123",
				DocumentType:        models.DocumentTypeEstimate,
				ManualOverride:      false,
				ManualOverrideValue: decimal.NewFromInt(-5),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCreateWorkOrderRequest(&tt.request)
			if tt.wantErr {
				assert.Error(t, err)
				var vErr *errs.ValidationError
				assert.ErrorAs(t, err, &vErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
