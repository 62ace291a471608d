package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// PostgresRateRepository loads the fee reference tables from PostgreSQL.
type PostgresRateRepository struct {
	db     *sql.DB
	logger *logrus.Entry
}

// NewPostgresRateRepository creates a new PostgreSQL rate repository.
func NewPostgresRateRepository(db *sql.DB, logger *logrus.Logger) *PostgresRateRepository {
	return &PostgresRateRepository{
		db:     db,
		logger: logger.WithField("component", "rate-repository"),
	}
}

// GetRateTable loads the document-type and trade fee tables as one snapshot.
// Trade keys are lower-cased on load so lookups stay case-insensitive no
// matter how rows were entered.
func (r *PostgresRateRepository) GetRateTable(ctx context.Context) (models.RateTable, error) {
	table := models.RateTable{
		DocumentTypes: make(map[models.DocumentType]decimal.Decimal),
		Trades:        make(map[string]decimal.Decimal),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT document_type, fee FROM document_type_rates`)
	if err != nil {
		return table, err
	}
	defer rows.Close()

	for rows.Next() {
		var documentType string
		var fee decimal.Decimal
		if err := rows.Scan(&documentType, &fee); err != nil {
			return table, err
		}
		table.DocumentTypes[models.DocumentType(documentType)] = fee
	}
	if err := rows.Err(); err != nil {
		return table, err
	}

	tradeRows, err := r.db.QueryContext(ctx, `SELECT trade, fee FROM trade_rates`)
	if err != nil {
		return table, err
	}
	defer tradeRows.Close()

	for tradeRows.Next() {
		var trade string
		var fee decimal.Decimal
		if err := tradeRows.Scan(&trade, &fee); err != nil {
			return table, err
		}
		table.Trades[strings.ToLower(trade)] = fee
	}
	if err := tradeRows.Err(); err != nil {
		return table, err
	}

	r.logger.WithFields(logrus.Fields{
		"document_types": len(table.DocumentTypes),
		"trades":         len(table.Trades),
	}).Debug("Rate table loaded")

	return table, nil
}
