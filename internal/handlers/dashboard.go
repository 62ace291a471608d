package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard handles GET /api/v1/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRates handles GET /api/v1/rates
//
// Exposes the fee schedule so forms can render trade and document type
// choices with their prices.
func (h *Handlers) GetRates(c *gin.Context) {
	table := h.rateService.GetRateTable(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"document_types": table.DocumentTypes,
		"trades":         table.Trades,
	})
}
