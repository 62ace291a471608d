package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
)

// CompanyService owns the company directory and its credit ledger.
type CompanyService struct {
	companyRepo repository.CompanyRepository
	creditRepo  repository.CreditRepository
	logger      *logrus.Entry
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companyRepo repository.CompanyRepository,
	creditRepo repository.CreditRepository,
	logger *logrus.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		creditRepo:  creditRepo,
		logger:      logger.WithField("component", "company-service"),
	}
}

// CreateCompany registers a new company.
func (s *CompanyService) CreateCompany(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
	if err := validateCreateCompanyRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := &models.Company{
		ID:          models.NewID(models.IDPrefixCompany),
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    true,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"name":       company.Name,
	}).Info("Company created")

	return company, nil
}

// GetCompany retrieves a company by ID.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// ListCompanies lists companies with pagination.
func (s *CompanyService) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.companyRepo.List(ctx, limit, offset)
}

// UpdateCompany applies a partial update. Nil fields are left unchanged.
func (s *CompanyService) UpdateCompany(ctx context.Context, id string, req *models.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.ContactName != nil {
		company.ContactName = *req.ContactName
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		company.Notes = *req.Notes
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	return company, nil
}

// DeleteCompany soft-deletes a company.
func (s *CompanyService) DeleteCompany(ctx context.Context, id string) error {
	if _, err := s.companyRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}

// AddCredit grants a credit to a company.
func (s *CompanyService) AddCredit(ctx context.Context, companyID string, req *models.CreateCreditRequest) (*models.Credit, error) {
	if err := validateCreateCreditRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	credit := &models.Credit{
		ID:          models.NewID(models.IDPrefixCredit),
		CompanyID:   companyID,
		Amount:      req.Amount,
		Description: req.Description,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.creditRepo.Create(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to create credit: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"credit_id":  credit.ID,
		"company_id": companyID,
		"amount":     credit.Amount.String(),
	}).Info("Credit granted")

	return credit, nil
}

// ListCredits lists a company's credits, optionally only the active ones.
func (s *CompanyService) ListCredits(ctx context.Context, companyID string, activeOnly bool) ([]models.Credit, error) {
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.creditRepo.ListByCompany(ctx, companyID, activeOnly)
}

// VoidCredit deactivates a credit so it no longer offsets work order costs.
func (s *CompanyService) VoidCredit(ctx context.Context, creditID string) error {
	if _, err := s.creditRepo.GetByID(ctx, creditID); err != nil {
		return err
	}
	if err := s.creditRepo.Void(ctx, creditID); err != nil {
		return fmt.Errorf("failed to void credit: %w", err)
	}
	s.logger.WithField("credit_id", creditID).Info("Credit voided")
	return nil
}
