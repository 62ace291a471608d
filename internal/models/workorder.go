package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of document a work order produces. The
// base fee depends on it; an unrecognized value contributes zero to the base
// cost rather than failing.
type DocumentType string

const (
	DocumentTypeEstimate          DocumentType = "estimate"
	DocumentTypeInvoice           DocumentType = "invoice"
	DocumentTypeInsuranceEstimate DocumentType = "insurance_estimate"
	DocumentTypePlumberReport     DocumentType = "plumber_report"
)

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderStatusDraft      WorkOrderStatus = "draft"
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusApproved   WorkOrderStatus = "approved"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// CostBreakdown is the derived billing breakdown for a work order. When a
// manual override is in effect FinalCost reflects only the override value,
// but the derived fields are still populated so the caller can display both.
type CostBreakdown struct {
	BaseCost         decimal.Decimal `json:"base_cost"`
	AvailableCredits decimal.Decimal `json:"available_credits"`
	CreditsApplied   decimal.Decimal `json:"credits_applied"`
	FinalCost        decimal.Decimal `json:"final_cost"`
}

// WorkOrder is a billable job for a company.
type WorkOrder struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	DocumentType        DocumentType    `json:"document_type"`
	SelectedTrades      []string        `json:"selected_trades"`
	ManualOverride      bool            `json:"manual_override"`
	ManualOverrideValue decimal.Decimal `json:"manual_override_value"`
	Cost                CostBreakdown   `json:"cost"`
	Status              WorkOrderStatus `json:"status"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	DeletedAt           *time.Time      `json:"-"`
}

// CreateWorkOrderRequest is the payload for creating a work order.
type CreateWorkOrderRequest struct {
	CompanyID           string          `json:"company_id"`
	DocumentType        DocumentType    `json:"document_type"`
	SelectedTrades      []string        `json:"selected_trades"`
	ManualOverride      bool            `json:"manual_override"`
	ManualOverrideValue decimal.Decimal `json:"manual_override_value"`
	Notes               string          `json:"notes"`
}

// UpdateWorkOrderRequest replaces a work order's billable content. The cost
// breakdown is re-derived server-side.
type UpdateWorkOrderRequest struct {
	DocumentType        DocumentType    `json:"document_type"`
	SelectedTrades      []string        `json:"selected_trades"`
	ManualOverride      bool            `json:"manual_override"`
	ManualOverrideValue decimal.Decimal `json:"manual_override_value"`
	Notes               string          `json:"notes"`
}

// UpdateWorkOrderStatusRequest moves a work order to a new lifecycle state.
type UpdateWorkOrderStatusRequest struct {
	Status WorkOrderStatus `json:"status"`
	Notes  string          `json:"notes"`
}

// WorkOrderListFilter narrows a work order listing.
type WorkOrderListFilter struct {
	CompanyID    string
	Status       *WorkOrderStatus
	DocumentType *DocumentType
	Limit        int
	Offset       int
}

// PreviewWorkOrderCostRequest is the calculate-only payload the work order
// form posts on every relevant input change. Credits are resolved server-side
// from the company so the form cannot apply credits the company does not
// hold.
type PreviewWorkOrderCostRequest struct {
	CompanyID           string          `json:"company_id"`
	DocumentType        DocumentType    `json:"document_type"`
	SelectedTrades      []string        `json:"selected_trades"`
	ManualOverride      bool            `json:"manual_override"`
	ManualOverrideValue decimal.Decimal `json:"manual_override_value"`
}
