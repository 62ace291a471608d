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

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL.
type PostgresInvoiceRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository.
func NewPostgresInvoiceRepository(db *sql.DB, logger *logrus.Logger) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db:     db,
		logger: logger.WithField("component", "invoice-repository"),
	}
}

const invoiceColumns = `id, company_id, number, items, discount,
	tax_method, tax_rate, tax_fixed_amount, payments,
	subtotal, tax_amount, total, total_paid, balance_due,
	status, due_date, notes, created_at, updated_at, sent_at`

// Create inserts a new invoice.
func (r *PostgresInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	itemsJSON, err := json.Marshal(invoice.Items)
	if err != nil {
		return err
	}
	paymentsJSON, err := json.Marshal(invoice.Payments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (
			id, company_id, number, items, discount,
			tax_method, tax_rate, tax_fixed_amount, payments,
			subtotal, tax_amount, total, total_paid, balance_due,
			status, due_date, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.CompanyID,
		invoice.Number,
		itemsJSON,
		invoice.Discount,
		invoice.TaxMethod,
		invoice.TaxRate,
		invoice.TaxFixedAmount,
		paymentsJSON,
		invoice.Totals.Subtotal,
		invoice.Totals.TaxAmount,
		invoice.Totals.Total,
		invoice.Totals.TotalPaid,
		invoice.Totals.BalanceDue,
		invoice.Status,
		invoice.DueDate,
		invoice.Notes,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"invoice_id": invoice.ID,
			"error":      err.Error(),
		}).Error("Failed to create invoice")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"number":     invoice.Number,
		"total":      invoice.Totals.Total,
	}).Info("Invoice created")

	return nil
}

// GetByID retrieves an invoice by its identifier.
func (r *PostgresInvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND deleted_at IS NULL`

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"invoice_id": id,
			"error":      err.Error(),
		}).Error("Failed to fetch invoice")
		return nil, err
	}

	return invoice, nil
}

// List retrieves invoices matching the filter, newest first, with the total
// count for pagination.
func (r *PostgresInvoiceRepository) List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error) {
	baseQuery := ` FROM invoices WHERE deleted_at IS NULL`
	args := make([]interface{}, 0)

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		baseQuery += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	selectQuery := `SELECT ` + invoiceColumns + baseQuery +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invoices := make([]*models.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// Update rewrites an invoice's mutable fields, including items, payments and
// the derived totals.
func (r *PostgresInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	itemsJSON, err := json.Marshal(invoice.Items)
	if err != nil {
		return err
	}
	paymentsJSON, err := json.Marshal(invoice.Payments)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET items = $2, discount = $3,
		    tax_method = $4, tax_rate = $5, tax_fixed_amount = $6, payments = $7,
		    subtotal = $8, tax_amount = $9, total = $10, total_paid = $11, balance_due = $12,
		    status = $13, due_date = $14, notes = $15, updated_at = $16,
		    sent_at = COALESCE($17, sent_at)
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		itemsJSON,
		invoice.Discount,
		invoice.TaxMethod,
		invoice.TaxRate,
		invoice.TaxFixedAmount,
		paymentsJSON,
		invoice.Totals.Subtotal,
		invoice.Totals.TaxAmount,
		invoice.Totals.Total,
		invoice.Totals.TotalPaid,
		invoice.Totals.BalanceDue,
		invoice.Status,
		invoice.DueDate,
		invoice.Notes,
		invoice.UpdatedAt,
		invoice.SentAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"invoice_id": invoice.ID,
			"error":      err.Error(),
		}).Error("Failed to update invoice")
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// Delete soft-deletes an invoice.
func (r *PostgresInvoiceRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE invoices
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

	r.logger.WithField("invoice_id", id).Info("Invoice deleted")
	return nil
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var invoice models.Invoice
	var itemsJSON, paymentsJSON []byte
	var notes sql.NullString
	var dueDate, sentAt sql.NullTime

	err := row.Scan(
		&invoice.ID,
		&invoice.CompanyID,
		&invoice.Number,
		&itemsJSON,
		&invoice.Discount,
		&invoice.TaxMethod,
		&invoice.TaxRate,
		&invoice.TaxFixedAmount,
		&paymentsJSON,
		&invoice.Totals.Subtotal,
		&invoice.Totals.TaxAmount,
		&invoice.Totals.Total,
		&invoice.Totals.TotalPaid,
		&invoice.Totals.BalanceDue,
		&invoice.Status,
		&dueDate,
		&notes,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &invoice.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(paymentsJSON, &invoice.Payments); err != nil {
		return nil, err
	}
	if notes.Valid {
		invoice.Notes = notes.String
	}
	if dueDate.Valid {
		invoice.DueDate = &dueDate.Time
	}
	if sentAt.Valid {
		invoice.SentAt = &sentAt.Time
	}

	return &invoice, nil
}
