// Package handlers contains the gin HTTP handlers for the billing API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/errs"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/service"
)

// Handlers holds all HTTP handlers for the billing service.
type Handlers struct {
	workOrderService *service.WorkOrderService
	invoiceService   *service.InvoiceService
	companyService   *service.CompanyService
	dashboardService *service.DashboardService
	rateService      *service.RateService
	config           *config.Config
	logger           *logrus.Entry
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	workOrderService *service.WorkOrderService,
	invoiceService *service.InvoiceService,
	companyService *service.CompanyService,
	dashboardService *service.DashboardService,
	rateService *service.RateService,
	cfg *config.Config,
	logger *logrus.Logger,
) *Handlers {
	return &Handlers{
		workOrderService: workOrderService,
		invoiceService:   invoiceService,
		companyService:   companyService,
		dashboardService: dashboardService,
		rateService:      rateService,
		config:           cfg,
		logger:           logger.WithField("component", "handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
