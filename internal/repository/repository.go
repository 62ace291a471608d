// Package repository contains the PostgreSQL persistence layer and the Redis
// caches in front of it.
package repository

import (
	"context"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// WorkOrderRepository stores work orders.
type WorkOrderRepository interface {
	Create(ctx context.Context, workOrder *models.WorkOrder) error
	GetByID(ctx context.Context, id string) (*models.WorkOrder, error)
	List(ctx context.Context, filter *models.WorkOrderListFilter) ([]*models.WorkOrder, int, error)
	Update(ctx context.Context, workOrder *models.WorkOrder) error
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository stores invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, filter *models.InvoiceListFilter) ([]*models.Invoice, int, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id string) error
}

// CompanyRepository stores companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context, limit, offset int) ([]*models.Company, int, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id string) error
}

// CreditRepository stores customer credits.
type CreditRepository interface {
	Create(ctx context.Context, credit *models.Credit) error
	GetByID(ctx context.Context, id string) (*models.Credit, error)
	ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]models.Credit, error)
	Void(ctx context.Context, id string) error
}

// RateRepository loads the fee reference tables.
type RateRepository interface {
	GetRateTable(ctx context.Context) (models.RateTable, error)
}

// DocumentCache caches hot documents and the rate-table snapshot. Misses are
// (nil, nil); failures must never take a request down.
type DocumentCache interface {
	GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)
	SetWorkOrder(ctx context.Context, workOrder *models.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id string) error

	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	SetInvoice(ctx context.Context, invoice *models.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error

	GetRateTable(ctx context.Context) (*models.RateTable, error)
	SetRateTable(ctx context.Context, table models.RateTable) error
	InvalidateRateTable(ctx context.Context) error
}
