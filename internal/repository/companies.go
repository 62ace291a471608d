package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// PostgresCompanyRepository implements CompanyRepository using PostgreSQL.
type PostgresCompanyRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresCompanyRepository creates a new PostgreSQL company repository.
func NewPostgresCompanyRepository(db *sql.DB, logger *logrus.Logger) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{
		db:     db,
		logger: logger.WithField("component", "company-repository"),
	}
}

const companyColumns = `id, name, contact_name, email, phone, address,
	is_active, notes, created_at, updated_at`

// Create inserts a new company.
func (r *PostgresCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (
			id, name, contact_name, email, phone, address,
			is_active, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		company.ID,
		company.Name,
		company.ContactName,
		company.Email,
		company.Phone,
		company.Address,
		company.IsActive,
		company.Notes,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"company_id": company.ID,
			"error":      err.Error(),
		}).Error("Failed to create company")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"name":       company.Name,
	}).Info("Company created")

	return nil
}

// GetByID retrieves a company by its identifier.
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + `
		FROM companies
		WHERE id = $1 AND deleted_at IS NULL`

	company, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return company, nil
}

// List retrieves companies alphabetically with the total count.
func (r *PostgresCompanyRepository) List(ctx context.Context, limit, offset int) ([]*models.Company, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM companies WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + companyColumns + `
		FROM companies
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// Update rewrites a company's mutable fields.
func (r *PostgresCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $2, contact_name = $3, email = $4, phone = $5,
		    address = $6, is_active = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		company.ID,
		company.Name,
		company.ContactName,
		company.Email,
		company.Phone,
		company.Address,
		company.IsActive,
		company.Notes,
		company.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// Delete soft-deletes a company.
func (r *PostgresCompanyRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE companies
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

	r.logger.WithField("company_id", id).Info("Company deleted")
	return nil
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var company models.Company
	var contactName, email, phone, address, notes sql.NullString

	err := row.Scan(
		&company.ID,
		&company.Name,
		&contactName,
		&email,
		&phone,
		&address,
		&company.IsActive,
		&notes,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	company.ContactName = contactName.String
	company.Email = email.String
	company.Phone = phone.String
	company.Address = address.String
	company.Notes = notes.String

	return &company, nil
}
