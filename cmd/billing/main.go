package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/clients"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/events"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/handlers"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/repository"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/server"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := newLogger()
	logger.WithField("port", cfg.Server.Port).Info("Starting billing-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.WithField("error", err.Error()).Fatal("Failed to connect to database")
	}
	defer db.Close()

	workOrderRepo := repository.NewPostgresWorkOrderRepository(db, logger)
	invoiceRepo := repository.NewPostgresInvoiceRepository(db, logger)
	companyRepo := repository.NewPostgresCompanyRepository(db, logger)
	creditRepo := repository.NewPostgresCreditRepository(db, logger)
	rateRepo := repository.NewPostgresRateRepository(db, logger)
	dashboardRepo := repository.NewPostgresDashboardRepository(db, logger)

	cache := repository.NewRedisDocumentCache(cfg.Redis, logger)

	notificationClient := clients.NewHTTPNotificationClient(cfg.NotificationService, logger)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	rateService := service.NewRateService(rateRepo, cache, cfg, logger)
	workOrderService := service.NewWorkOrderService(
		workOrderRepo,
		companyRepo,
		creditRepo,
		rateService,
		cache,
		eventPublisher,
		notificationClient,
		cfg,
		logger,
	)
	invoiceService := service.NewInvoiceService(
		invoiceRepo,
		companyRepo,
		cache,
		eventPublisher,
		notificationClient,
		cfg,
		logger,
	)
	companyService := service.NewCompanyService(companyRepo, creditRepo, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, logger)

	h := handlers.NewHandlers(
		workOrderService,
		invoiceService,
		companyService,
		dashboardService,
		rateService,
		cfg,
		logger,
	)

	srv := server.NewServer(cfg, h, logger)

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithField("error", err.Error()).Fatal("Server failed")
		}
	}()

	eventConsumer := events.NewKafkaConsumer(cfg.Kafka, invoiceService, logger)
	go func() {
		if err := eventConsumer.Start(context.Background()); err != nil && err != context.Canceled {
			logger.WithField("error", err.Error()).Error("Event consumer failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventConsumer.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithField("error", err.Error()).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func initDatabase(cfg *config.Config, logger *logrus.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	}).Info("Database connected")

	return db, nil
}
