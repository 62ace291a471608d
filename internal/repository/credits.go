package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// PostgresCreditRepository implements CreditRepository using PostgreSQL.
type PostgresCreditRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresCreditRepository creates a new PostgreSQL credit repository.
func NewPostgresCreditRepository(db *sql.DB, logger *logrus.Logger) *PostgresCreditRepository {
	return &PostgresCreditRepository{
		db:     db,
		logger: logger.WithField("component", "credit-repository"),
	}
}

// Create inserts a new credit.
func (r *PostgresCreditRepository) Create(ctx context.Context, credit *models.Credit) error {
	query := `
		INSERT INTO credits (
			id, company_id, amount, description, is_active, expires_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		credit.ID,
		credit.CompanyID,
		credit.Amount,
		credit.Description,
		credit.IsActive,
		credit.ExpiresAt,
		credit.CreatedAt,
		credit.UpdatedAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"credit_id":  credit.ID,
			"company_id": credit.CompanyID,
			"error":      err.Error(),
		}).Error("Failed to create credit")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"credit_id":  credit.ID,
		"company_id": credit.CompanyID,
		"amount":     credit.Amount,
	}).Info("Credit created")

	return nil
}

// GetByID retrieves a credit by its identifier.
func (r *PostgresCreditRepository) GetByID(ctx context.Context, id string) (*models.Credit, error) {
	query := `
		SELECT id, company_id, amount, description, is_active, expires_at,
		       created_at, updated_at
		FROM credits
		WHERE id = $1
	`

	credit, err := scanCredit(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return credit, nil
}

// ListByCompany retrieves a company's credits, oldest first. With activeOnly,
// inactive and expired credits are filtered out; this is the snapshot the
// cost calculator receives.
func (r *PostgresCreditRepository) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]models.Credit, error) {
	query := `
		SELECT id, company_id, amount, description, is_active, expires_at,
		       created_at, updated_at
		FROM credits
		WHERE company_id = $1
	`
	args := []interface{}{companyID}

	if activeOnly {
		query += ` AND is_active = TRUE AND (expires_at IS NULL OR expires_at > $2)`
		args = append(args, time.Now())
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	credits := make([]models.Credit, 0)
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		credits = append(credits, *credit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credits, nil
}

// Void deactivates a credit so it no longer counts toward available credits.
func (r *PostgresCreditRepository) Void(ctx context.Context, id string) error {
	query := `
		UPDATE credits
		SET is_active = FALSE, updated_at = $2
		WHERE id = $1 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.WithField("credit_id", id).Info("Credit voided")
	return nil
}

func scanCredit(row rowScanner) (*models.Credit, error) {
	var credit models.Credit
	var description sql.NullString
	var expiresAt sql.NullTime

	err := row.Scan(
		&credit.ID,
		&credit.CompanyID,
		&credit.Amount,
		&description,
		&credit.IsActive,
		&expiresAt,
		&credit.CreatedAt,
		&credit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	credit.Description = description.String
	if expiresAt.Valid {
		credit.ExpiresAt = &expiresAt.Time
	}

	return &credit, nil
}
