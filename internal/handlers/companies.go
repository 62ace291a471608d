package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

// CreateCompany handles POST /api/v1/companies
func (h *Handlers) CreateCompany(c *gin.Context) {
	var req models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompany handles GET /api/v1/companies/:id
func (h *Handlers) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// ListCompanies handles GET /api/v1/companies
func (h *Handlers) ListCompanies(c *gin.Context) {
	limit := 0
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsed
		}
	}

	companies, total, err := h.companyService.ListCompanies(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"total":     total,
	})
}

// UpdateCompany handles PATCH /api/v1/companies/:id
func (h *Handlers) UpdateCompany(c *gin.Context) {
	var req models.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeleteCompany handles DELETE /api/v1/companies/:id
func (h *Handlers) DeleteCompany(c *gin.Context) {
	if err := h.companyService.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddCredit handles POST /api/v1/companies/:id/credits
func (h *Handlers) AddCredit(c *gin.Context) {
	var req models.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	credit, err := h.companyService.AddCredit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, credit)
}

// ListCredits handles GET /api/v1/companies/:id/credits
func (h *Handlers) ListCredits(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	credits, err := h.companyService.ListCredits(c.Request.Context(), c.Param("id"), activeOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": credits})
}

// VoidCredit handles DELETE /api/v1/companies/:id/credits/:creditId
func (h *Handlers) VoidCredit(c *gin.Context) {
	if err := h.companyService.VoidCredit(c.Request.Context(), c.Param("creditId")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
