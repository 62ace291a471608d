package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit is pre-paid balance held by a company. Only active credits count
// toward the amount a work order can offset; the pricing package never
// mutates a credit, it only reads a snapshot.
type Credit struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCreditRequest is the payload for granting a credit to a company.
type CreateCreditRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}
