package handlers

import (
	"net/http"
	"strconv"
	"time"

	"pawsit/models"
	"pawsit/services/availability"

	"github.com/gin-gonic/gin"
)

var AvailabilityService availability.AvailabilityService

// GetDaySlots returns the slot breakdown for one calendar day.
// GET /sitters/:sitterId/slots?service=walking&date=2026-09-01&durationMin=60
func GetDaySlots(c *gin.Context) {
	sitterID := c.Param("sitterId")
	service := models.ServiceType(c.Query("service"))
	date := c.Query("date")

	durationMin := 0
	if raw := c.Query("durationMin"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "durationMin must be an integer"})
			return
		}
		durationMin = v
	}

	result, err := AvailabilityService.ComputeDaySlots(c.Request.Context(), time.Now(), sitterID, service, date, durationMin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCalendar returns the per-day status summary for a date range.
// GET /sitters/:sitterId/calendar?service=boarding&from=2026-09-01&to=2026-09-30
func GetCalendar(c *gin.Context) {
	sitterID := c.Param("sitterId")
	service := models.ServiceType(c.Query("service"))
	from, to := c.Query("from"), c.Query("to")

	days, err := AvailabilityService.SummarizeRange(c.Request.Context(), time.Now(), sitterID, service, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// SetRules replaces the authenticated sitter's weekly rules for one day.
// PUT /availability/rules/:dayOfWeek
func SetRules(c *gin.Context) {
	dayOfWeek, err := strconv.Atoi(c.Param("dayOfWeek"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dayOfWeek must be an integer"})
		return
	}

	var input struct {
		ServiceType models.ServiceType        `json:"serviceType" binding:"required"`
		Ranges      []models.AvailabilityRule `json:"ranges"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sitterID := c.GetString("userID")
	if err := AvailabilityService.SetRules(c.Request.Context(), sitterID, input.ServiceType, dayOfWeek, input.Ranges); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rules updated"})
}

// CreateException adds a date-specific override for the authenticated sitter.
// POST /availability/exceptions
func CreateException(c *gin.Context) {
	var exc models.AvailabilityException
	if err := c.ShouldBindJSON(&exc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	exc.SitterID = c.GetString("userID")

	created, err := AvailabilityService.CreateException(c.Request.Context(), exc.SitterID, exc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteException removes a date-specific override.
// DELETE /availability/exceptions/:id
func DeleteException(c *gin.Context) {
	sitterID := c.GetString("userID")
	if err := AvailabilityService.DeleteException(c.Request.Context(), sitterID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "exception deleted"})
}

// UpsertServiceConfig enables or tunes one of the sitter's services.
// PUT /availability/config
func UpsertServiceConfig(c *gin.Context) {
	var cfg models.ServiceConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	cfg.SitterID = c.GetString("userID")

	if err := AvailabilityService.UpsertServiceConfig(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "config updated"})
}
