package handlers

import (
	"net/http"

	sitterRepo "pawsit/database/repository/sitter"
	"pawsit/models"

	"github.com/gin-gonic/gin"
)

var SitterRepo sitterRepo.SitterRepository

// GetSitterPricing returns a sitter's published per-service prices in
// minor currency units.
// GET /sitters/:sitterId/pricing
func GetSitterPricing(c *gin.Context) {
	sitter, err := SitterRepo.GetSitterByID(c.Request.Context(), c.Param("sitterId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sitter not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing": sitter.Pricing})
}

// UpsertSitterPricing replaces the authenticated sitter's price list.
// PUT /sitters/pricing
func UpsertSitterPricing(c *gin.Context) {
	var input struct {
		Pricing map[models.ServiceType]int64 `json:"pricing" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	for svc, price := range input.Pricing {
		if !models.IsValidServiceType(svc) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service type", "details": string(svc)})
			return
		}
		if price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prices must be positive minor-currency amounts"})
			return
		}
	}

	sitterID := c.GetString("userID")
	if err := SitterRepo.UpsertSitterPricing(c.Request.Context(), sitterID, input.Pricing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update pricing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "pricing updated"})
}
