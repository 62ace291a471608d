package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// DashboardSummary aggregates the figures the dashboard page displays.
type DashboardSummary struct {
	WorkOrdersByStatus map[models.WorkOrderStatus]int `json:"work_orders_by_status"`
	InvoicesByStatus   map[models.InvoiceStatus]int   `json:"invoices_by_status"`
	// OutstandingReceivables is the sum of positive invoice balances.
	OutstandingReceivables decimal.Decimal `json:"outstanding_receivables"`
	// CreditOwed is the absolute sum of negative balances, i.e. what
	// overpaying customers are owed back.
	CreditOwed decimal.Decimal `json:"credit_owed"`
	// RevenueThisMonth is the sum of payments recorded since the first of
	// the current month.
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	ActiveCompanies  int             `json:"active_companies"`
}

// PostgresDashboardRepository computes dashboard aggregates in SQL.
type PostgresDashboardRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresDashboardRepository creates a new dashboard repository.
func NewPostgresDashboardRepository(db *sql.DB, logger *logrus.Logger) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{
		db:     db,
		logger: logger.WithField("component", "dashboard-repository"),
	}
}

// GetSummary computes the dashboard aggregates.
func (r *PostgresDashboardRepository) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		WorkOrdersByStatus:     make(map[models.WorkOrderStatus]int),
		InvoicesByStatus:       make(map[models.InvoiceStatus]int),
		OutstandingReceivables: decimal.Zero,
		CreditOwed:             decimal.Zero,
		RevenueThisMonth:       decimal.Zero,
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM work_orders
		WHERE deleted_at IS NULL
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.WorkOrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.WorkOrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	invoiceRows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM invoices
		WHERE deleted_at IS NULL
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer invoiceRows.Close()

	for invoiceRows.Next() {
		var status models.InvoiceStatus
		var count int
		if err := invoiceRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.InvoicesByStatus[status] = count
	}
	if err := invoiceRows.Err(); err != nil {
		return nil, err
	}

	// Balances are unclamped, so split receivables from credit owed by sign.
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(balance_due) FILTER (WHERE balance_due > 0), 0),
			COALESCE(-SUM(balance_due) FILTER (WHERE balance_due < 0), 0)
		FROM invoices
		WHERE deleted_at IS NULL AND status NOT IN ('draft', 'cancelled')
	`).Scan(&summary.OutstandingReceivables, &summary.CreditOwed)
	if err != nil {
		return nil, err
	}

	monthStart := time.Now().AddDate(0, 0, 1-time.Now().Day())
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), monthStart.Day(), 0, 0, 0, 0, monthStart.Location())

	// Payments live in a JSON column; unpack them to sum this month's.
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM((payment->>'amount')::numeric), 0)
		FROM invoices, jsonb_array_elements(payments) AS payment
		WHERE deleted_at IS NULL
		  AND (payment->>'recorded_at')::timestamptz >= $1
	`, monthStart).Scan(&summary.RevenueThisMonth)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM companies
		WHERE deleted_at IS NULL AND is_active = TRUE
	`).Scan(&summary.ActiveCompanies)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Dashboard summary computed")
	return summary, nil
}
