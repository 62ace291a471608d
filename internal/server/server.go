// Package server wires the gin router, middleware and routes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/handlers"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/metrics"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	handlers   *handlers.Handlers
	httpServer *http.Server
	logger     *logrus.Entry
}

func NewServer(cfg *config.Config, h *handlers.Handlers, logger *logrus.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		logger:   logger.WithField("component", "server"),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/version", s.handlers.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/work-orders", s.handlers.CreateWorkOrder)
		v1.POST("/work-orders/preview-cost", s.handlers.PreviewWorkOrderCost)
		v1.GET("/work-orders", s.handlers.ListWorkOrders)
		v1.GET("/work-orders/:id", s.handlers.GetWorkOrder)
		v1.PUT("/work-orders/:id", s.handlers.UpdateWorkOrder)
		v1.PATCH("/work-orders/:id/status", s.handlers.UpdateWorkOrderStatus)
		v1.DELETE("/work-orders/:id", s.handlers.DeleteWorkOrder)

		v1.POST("/invoices", s.handlers.CreateInvoice)
		v1.POST("/invoices/preview-totals", s.handlers.PreviewInvoiceTotals)
		v1.GET("/invoices", s.handlers.ListInvoices)
		v1.GET("/invoices/:id", s.handlers.GetInvoice)
		v1.PUT("/invoices/:id", s.handlers.UpdateInvoice)
		v1.POST("/invoices/:id/send", s.handlers.SendInvoice)
		v1.POST("/invoices/:id/payments", s.handlers.RecordPayment)
		v1.POST("/invoices/:id/cancel", s.handlers.CancelInvoice)
		v1.DELETE("/invoices/:id", s.handlers.DeleteInvoice)

		v1.POST("/companies", s.handlers.CreateCompany)
		v1.GET("/companies", s.handlers.ListCompanies)
		v1.GET("/companies/:id", s.handlers.GetCompany)
		v1.PATCH("/companies/:id", s.handlers.UpdateCompany)
		v1.DELETE("/companies/:id", s.handlers.DeleteCompany)
		v1.POST("/companies/:id/credits", s.handlers.AddCredit)
		v1.GET("/companies/:id/credits", s.handlers.ListCredits)
		v1.DELETE("/companies/:id/credits/:creditId", s.handlers.VoidCredit)

		v1.GET("/dashboard", s.handlers.GetDashboard)
		v1.GET("/rates", s.handlers.GetRates)
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	s.logger.WithField("addr", addr).Info("Starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
		).Observe(time.Since(start).Seconds())
	}
}
