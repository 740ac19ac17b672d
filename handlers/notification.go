package handlers

import (
	"net/http"

	notificationRepo "pawsit/database/repository/notification"

	"github.com/gin-gonic/gin"
)

var NotificationRepo notificationRepo.NotificationRepository

// ListNotifications returns the caller's recent in-app notifications.
// GET /notifications
func ListNotifications(c *gin.Context) {
	userID := c.GetString("userID")
	list, err := NotificationRepo.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkNotificationRead marks one of the caller's notifications read.
// POST /notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	userID := c.GetString("userID")
	if err := NotificationRepo.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
