package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// CreateWorkOrder handles POST /api/v1/work-orders
func (h *Handlers) CreateWorkOrder(c *gin.Context) {
	var req models.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to bind request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	workOrder, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workOrder)
}

// GetWorkOrder handles GET /api/v1/work-orders/:id
func (h *Handlers) GetWorkOrder(c *gin.Context) {
	workOrder, err := h.workOrderService.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// ListWorkOrders handles GET /api/v1/work-orders
func (h *Handlers) ListWorkOrders(c *gin.Context) {
	filter := &models.WorkOrderListFilter{}

	if companyID := c.Query("company_id"); companyID != "" {
		filter.CompanyID = companyID
	}

	if status := c.Query("status"); status != "" {
		s := models.WorkOrderStatus(status)
		filter.Status = &s
	}

	if documentType := c.Query("document_type"); documentType != "" {
		d := models.DocumentType(documentType)
		filter.DocumentType = &d
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	workOrders, total, err := h.workOrderService.ListWorkOrders(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_orders": workOrders,
		"total":       total,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})
}

// UpdateWorkOrder handles PUT /api/v1/work-orders/:id
func (h *Handlers) UpdateWorkOrder(c *gin.Context) {
	var req models.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	workOrder, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// UpdateWorkOrderStatus handles PATCH /api/v1/work-orders/:id/status
func (h *Handlers) UpdateWorkOrderStatus(c *gin.Context) {
	var req models.UpdateWorkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	workOrder, err := h.workOrderService.UpdateWorkOrderStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// DeleteWorkOrder handles DELETE /api/v1/work-orders/:id
func (h *Handlers) DeleteWorkOrder(c *gin.Context) {
	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PreviewWorkOrderCost handles POST /api/v1/work-orders/preview-cost
//
// Calculate-only: nothing is persisted. The work order form posts here on
// every relevant input change to show a live cost breakdown.
func (h *Handlers) PreviewWorkOrderCost(c *gin.Context) {
	var req models.PreviewWorkOrderCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cost, err := h.workOrderService.PreviewWorkOrderCost(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cost)
}
