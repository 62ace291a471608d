package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
)

// DashboardService exposes the aggregate figures the dashboard page shows.
type DashboardService struct {
	dashboardRepo *repository.PostgresDashboardRepository
	logger        *logrus.Entry
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(dashboardRepo *repository.PostgresDashboardRepository, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		logger:        logger.WithField("component", "dashboard-service"),
	}
}

// GetSummary returns the dashboard aggregates.
func (s *DashboardService) GetSummary(ctx context.Context) (*repository.DashboardSummary, error) {
	return s.dashboardRepo.GetSummary(ctx)
}
