package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
)

// RateService supplies rate-table snapshots to the calculators, caching them
// in Redis because the fee schedule changes rarely but is read on every cost
// calculation.
type RateService struct {
	rateRepo repository.RateRepository
	cache    repository.DocumentCache
	config   *config.Config
	logger   *logrus.Entry
}

// NewRateService creates a new rate service.
func NewRateService(
	rateRepo repository.RateRepository,
	cache repository.DocumentCache,
	cfg *config.Config,
	logger *logrus.Logger,
) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		cache:    cache,
		config:   cfg,
		logger:   logger.WithField("component", "rate-service"),
	}
}

// GetRateTable returns the current fee snapshot. It never fails: if the
// reference tables cannot be loaded (or are empty, as on a fresh install),
// the seed schedule is used so drafts still price.
func (s *RateService) GetRateTable(ctx context.Context) models.RateTable {
	if s.config.Features.EnableDocumentCaching {
		if table, err := s.cache.GetRateTable(ctx); err == nil && table != nil {
			return *table
		}
	}

	table, err := s.rateRepo.GetRateTable(ctx)
	if err != nil || len(table.DocumentTypes) == 0 {
		if err != nil {
			s.logger.WithField("error", err.Error()).Error("Failed to load rate table, using defaults")
		}
		return models.DefaultRateTable()
	}

	if s.config.Features.EnableDocumentCaching {
		if err := s.cache.SetRateTable(ctx, table); err != nil {
			s.logger.WithField("error", err.Error()).Error("Failed to cache rate table")
		}
	}

	return table
}
