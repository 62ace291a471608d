package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// PostgresWorkOrderRepository implements WorkOrderRepository using PostgreSQL.
type PostgresWorkOrderRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresWorkOrderRepository creates a new PostgreSQL work order repository.
func NewPostgresWorkOrderRepository(db *sql.DB, logger *logrus.Logger) *PostgresWorkOrderRepository {
	return &PostgresWorkOrderRepository{
		db:     db,
		logger: logger.WithField("component", "workorder-repository"),
	}
}

const workOrderColumns = `id, company_id, document_type, selected_trades,
	manual_override, manual_override_value,
	base_cost, available_credits, credits_applied, final_cost,
	status, notes, created_at, updated_at, completed_at`

// Create inserts a new work order.
func (r *PostgresWorkOrderRepository) Create(ctx context.Context, workOrder *models.WorkOrder) error {
	tradesJSON, err := json.Marshal(workOrder.SelectedTrades)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO work_orders (
			id, company_id, document_type, selected_trades,
			manual_override, manual_override_value,
			base_cost, available_credits, credits_applied, final_cost,
			status, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		workOrder.ID,
		workOrder.CompanyID,
		workOrder.DocumentType,
		tradesJSON,
		workOrder.ManualOverride,
		workOrder.ManualOverrideValue,
		workOrder.Cost.BaseCost,
		workOrder.Cost.AvailableCredits,
		workOrder.Cost.CreditsApplied,
		workOrder.Cost.FinalCost,
		workOrder.Status,
		workOrder.Notes,
		workOrder.CreatedAt,
		workOrder.UpdatedAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"work_order_id": workOrder.ID,
			"error":         err.Error(),
		}).Error("Failed to create work order")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"work_order_id": workOrder.ID,
		"company_id":    workOrder.CompanyID,
		"final_cost":    workOrder.Cost.FinalCost,
	}).Info("Work order created")

	return nil
}

// GetByID retrieves a work order by its identifier.
func (r *PostgresWorkOrderRepository) GetByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
		FROM work_orders
		WHERE id = $1 AND deleted_at IS NULL`

	workOrder, err := scanWorkOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"work_order_id": id,
			"error":         err.Error(),
		}).Error("Failed to fetch work order")
		return nil, err
	}

	return workOrder, nil
}

// List retrieves work orders matching the filter, newest first, with the
// total count for pagination.
func (r *PostgresWorkOrderRepository) List(ctx context.Context, filter *models.WorkOrderListFilter) ([]*models.WorkOrder, int, error) {
	baseQuery := ` FROM work_orders WHERE deleted_at IS NULL`
	args := make([]interface{}, 0)

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		baseQuery += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DocumentType != nil {
		args = append(args, *filter.DocumentType)
		baseQuery += fmt.Sprintf(" AND document_type = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	selectQuery := `SELECT ` + workOrderColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workOrders := make([]*models.WorkOrder, 0)
	for rows.Next() {
		workOrder, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		workOrders = append(workOrders, workOrder)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return workOrders, total, nil
}

// Update rewrites a work order's mutable fields, including the derived cost
// breakdown.
func (r *PostgresWorkOrderRepository) Update(ctx context.Context, workOrder *models.WorkOrder) error {
	tradesJSON, err := json.Marshal(workOrder.SelectedTrades)
	if err != nil {
		return err
	}

	query := `
		UPDATE work_orders
		SET document_type = $2, selected_trades = $3,
		    manual_override = $4, manual_override_value = $5,
		    base_cost = $6, available_credits = $7, credits_applied = $8, final_cost = $9,
		    status = $10, notes = $11, updated_at = $12,
		    completed_at = COALESCE($13, completed_at)
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		workOrder.ID,
		workOrder.DocumentType,
		tradesJSON,
		workOrder.ManualOverride,
		workOrder.ManualOverrideValue,
		workOrder.Cost.BaseCost,
		workOrder.Cost.AvailableCredits,
		workOrder.Cost.CreditsApplied,
		workOrder.Cost.FinalCost,
		workOrder.Status,
		workOrder.Notes,
		workOrder.UpdatedAt,
		workOrder.CompletedAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"work_order_id": workOrder.ID,
			"error":         err.Error(),
		}).Error("Failed to update work order")
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// Delete soft-deletes a work order.
func (r *PostgresWorkOrderRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE work_orders
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.WithField("work_order_id", id).Info("Work order deleted")
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkOrder(row rowScanner) (*models.WorkOrder, error) {
	var workOrder models.WorkOrder
	var tradesJSON []byte
	var notes sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&workOrder.ID,
		&workOrder.CompanyID,
		&workOrder.DocumentType,
		&tradesJSON,
		&workOrder.ManualOverride,
		&workOrder.ManualOverrideValue,
		&workOrder.Cost.BaseCost,
		&workOrder.Cost.AvailableCredits,
		&workOrder.Cost.CreditsApplied,
		&workOrder.Cost.FinalCost,
		&workOrder.Status,
		&notes,
		&workOrder.CreatedAt,
		&workOrder.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tradesJSON, &workOrder.SelectedTrades); err != nil {
		return nil, err
	}
	if notes.Valid {
		workOrder.Notes = notes.String
	}
	if completedAt.Valid {
		workOrder.CompletedAt = &completedAt.Time
	}

	return &workOrder, nil
}
