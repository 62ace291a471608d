package models

import "time"

// Company is a customer of the service business. Companies own credits and
// are the billing target for work orders and invoices.
type Company struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContactName string     `json:"contact_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	IsActive    bool       `json:"is_active"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// CreateCompanyRequest is the payload for creating a company.
type CreateCompanyRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// UpdateCompanyRequest is the payload for updating a company. Nil fields are
// left unchanged.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IsActive    *bool   `json:"is_active"`
	Notes       *string `json:"notes"`
}
