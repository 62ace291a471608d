package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/metrics"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/pricing"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
)

// WorkOrderService owns the work order lifecycle and cost derivation.
type WorkOrderService struct {
	workOrderRepo repository.WorkOrderRepository
	companyRepo   repository.CompanyRepository
	creditRepo    repository.CreditRepository
	rates         *RateService
	cache         repository.DocumentCache
	publisher     EventPublisher
	notifier      NotificationSender
	config        *config.Config
	logger        *logrus.Entry
}

// NewWorkOrderService creates a new work order service.
func NewWorkOrderService(
	workOrderRepo repository.WorkOrderRepository,
	companyRepo repository.CompanyRepository,
	creditRepo repository.CreditRepository,
	rates *RateService,
	cache repository.DocumentCache,
	publisher EventPublisher,
	notifier NotificationSender,
	cfg *config.Config,
	logger *logrus.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		companyRepo:   companyRepo,
		creditRepo:    creditRepo,
		rates:         rates,
		cache:         cache,
		publisher:     publisher,
		notifier:      notifier,
		config:        cfg,
		logger:        logger.WithField("component", "workorder-service"),
	}
}

// validStatusTransitions maps each work order status to the statuses it may
// move to. Cancellation is allowed from any non-terminal state.
var validStatusTransitions = map[models.WorkOrderStatus][]models.WorkOrderStatus{
	models.WorkOrderStatusDraft:      {models.WorkOrderStatusPending, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusPending:    {models.WorkOrderStatusApproved, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusApproved:   {models.WorkOrderStatusInProgress, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusInProgress: {models.WorkOrderStatusCompleted, models.WorkOrderStatusCancelled},
	models.WorkOrderStatusCompleted:  {},
	models.WorkOrderStatusCancelled:  {},
}

func isValidStatusTransition(from, to models.WorkOrderStatus) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateWorkOrder creates a work order in draft with its cost derived from
// the current rates and the company's active credits.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, req *models.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	if err := validateCreateWorkOrderRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	cost, err := s.calculateCost(ctx, req.CompanyID, req.DocumentType, req.SelectedTrades, req.ManualOverride, req.ManualOverrideValue)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workOrder := &models.WorkOrder{
		ID:                  models.NewID(models.IDPrefixWorkOrder),
		CompanyID:           req.CompanyID,
		DocumentType:        req.DocumentType,
		SelectedTrades:      req.SelectedTrades,
		ManualOverride:      req.ManualOverride,
		ManualOverrideValue: req.ManualOverrideValue,
		Cost:                cost,
		Status:              models.WorkOrderStatusDraft,
		Notes:               req.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.workOrderRepo.Create(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	s.cacheWorkOrder(ctx, workOrder)
	s.publishEvent(ctx, "workorder.created", func() error {
		return s.publisher.PublishWorkOrderCreated(ctx, workOrder)
	})

	s.logger.WithFields(logrus.Fields{
		"work_order_id": workOrder.ID,
		"company_id":    workOrder.CompanyID,
		"final_cost":    workOrder.Cost.FinalCost.String(),
	}).Info("Work order created")

	return workOrder, nil
}

// GetWorkOrder retrieves a work order, preferring the cache.
func (s *WorkOrderService) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	if s.config.Features.EnableDocumentCaching {
		if cached, err := s.cache.GetWorkOrder(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	workOrder, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheWorkOrder(ctx, workOrder)
	return workOrder, nil
}

// ListWorkOrders lists work orders matching the filter, returning the page
// and the total match count.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, filter *models.WorkOrderListFilter) ([]*models.WorkOrder, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.workOrderRepo.List(ctx, filter)
}

// UpdateWorkOrder replaces a draft or pending work order's billable content
// and re-derives its cost.
func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, id string, req *models.UpdateWorkOrderRequest) (*models.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workOrder.Status != models.WorkOrderStatusDraft && workOrder.Status != models.WorkOrderStatusPending {
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot modify work order in status %s", workOrder.Status))
	}

	if req.ManualOverride && req.ManualOverrideValue.IsNegative() {
		return nil, errs.NewValidationError("manual_override_value", "manual override value cannot be negative")
	}

	workOrder.DocumentType = req.DocumentType
	workOrder.SelectedTrades = req.SelectedTrades
	workOrder.ManualOverride = req.ManualOverride
	workOrder.ManualOverrideValue = req.ManualOverrideValue
	workOrder.Notes = req.Notes

	cost, err := s.calculateCost(ctx, workOrder.CompanyID, workOrder.DocumentType, workOrder.SelectedTrades, workOrder.ManualOverride, workOrder.ManualOverrideValue)
	if err != nil {
		return nil, err
	}
	workOrder.Cost = cost
	workOrder.UpdatedAt = time.Now().UTC()

	if err := s.workOrderRepo.Update(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}

	s.cacheWorkOrder(ctx, workOrder)
	return workOrder, nil
}

// UpdateWorkOrderStatus moves a work order through its lifecycle. Completing
// stamps CompletedAt; approval notifies the company contact.
func (s *WorkOrderService) UpdateWorkOrderStatus(ctx context.Context, id string, req *models.UpdateWorkOrderStatusRequest) (*models.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isValidStatusTransition(workOrder.Status, req.Status) {
		return nil, errs.NewValidationError("status", fmt.Sprintf("cannot transition from %s to %s", workOrder.Status, req.Status))
	}

	previousStatus := workOrder.Status
	workOrder.Status = req.Status
	if req.Notes != "" {
		workOrder.Notes = req.Notes
	}
	now := time.Now().UTC()
	workOrder.UpdatedAt = now
	if req.Status == models.WorkOrderStatusCompleted {
		workOrder.CompletedAt = &now
	}

	if err := s.workOrderRepo.Update(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to update work order status: %w", err)
	}

	s.cacheWorkOrder(ctx, workOrder)
	s.publishEvent(ctx, "workorder.status_changed", func() error {
		return s.publisher.PublishWorkOrderStatusChanged(ctx, workOrder, previousStatus)
	})

	if req.Status == models.WorkOrderStatusApproved {
		s.notifyApproval(ctx, workOrder)
	}

	s.logger.WithFields(logrus.Fields{
		"work_order_id": workOrder.ID,
		"from":          previousStatus,
		"to":            workOrder.Status,
	}).Info("Work order status changed")

	return workOrder, nil
}

// DeleteWorkOrder soft-deletes a work order.
func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, id string) error {
	if _, err := s.workOrderRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.workOrderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}
	if s.config.Features.EnableDocumentCaching {
		if err := s.cache.DeleteWorkOrder(ctx, id); err != nil {
			s.logger.WithField("error", err.Error()).Error("Failed to evict work order from cache")
		}
	}
	return nil
}

// PreviewWorkOrderCost derives a cost breakdown without persisting anything.
// The form posts here on every relevant input change.
func (s *WorkOrderService) PreviewWorkOrderCost(ctx context.Context, req *models.PreviewWorkOrderCostRequest) (*models.CostBreakdown, error) {
	if req.CompanyID == "" {
		return nil, errs.NewValidationError("company_id", "company_id is required")
	}
	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}
	cost, err := s.calculateCost(ctx, req.CompanyID, req.DocumentType, req.SelectedTrades, req.ManualOverride, req.ManualOverrideValue)
	if err != nil {
		return nil, err
	}
	return &cost, nil
}

func (s *WorkOrderService) calculateCost(
	ctx context.Context,
	companyID string,
	documentType models.DocumentType,
	selectedTrades []string,
	manualOverride bool,
	manualOverrideValue decimal.Decimal,
) (models.CostBreakdown, error) {
	credits, err := s.creditRepo.ListByCompany(ctx, companyID, true)
	if err != nil {
		return models.CostBreakdown{}, fmt.Errorf("failed to load credits: %w", err)
	}

	cost := pricing.CalculateWorkOrderCost(pricing.WorkOrderCostInput{
		DocumentType:        documentType,
		SelectedTrades:      selectedTrades,
		Credits:             credits,
		ManualOverride:      manualOverride,
		ManualOverrideValue: manualOverrideValue,
		Rates:               s.rates.GetRateTable(ctx),
		CreditCap:           decimal.NewFromFloat(s.config.Pricing.CreditCap),
	})
	metrics.CalculationsTotal.WithLabelValues(metrics.CalculatorWorkOrder).Inc()
	return cost, nil
}

func (s *WorkOrderService) cacheWorkOrder(ctx context.Context, workOrder *models.WorkOrder) {
	if !s.config.Features.EnableDocumentCaching {
		return
	}
	if err := s.cache.SetWorkOrder(ctx, workOrder); err != nil {
		s.logger.WithFields(logrus.Fields{
			"work_order_id": workOrder.ID,
			"error":         err.Error(),
		}).Error("Failed to cache work order")
	}
}

func (s *WorkOrderService) publishEvent(ctx context.Context, eventType string, publish func() error) {
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

func (s *WorkOrderService) notifyApproval(ctx context.Context, workOrder *models.WorkOrder) {
	if !s.config.Features.EnableNotifications {
		return
	}
	company, err := s.companyRepo.GetByID(ctx, workOrder.CompanyID)
	if err != nil || company.Email == "" {
		return
	}
	subject := fmt.Sprintf("Work order %s approved", workOrder.ID)
	body := fmt.Sprintf("Your work order has been approved. Total cost: $%s.", workOrder.Cost.FinalCost.StringFixed(2))
	if err := s.notifier.SendEmail(ctx, company.Email, subject, body); err != nil {
		s.logger.WithFields(logrus.Fields{
			"work_order_id": workOrder.ID,
			"error":         err.Error(),
		}).Error("Failed to send approval notification")
	}
}
