package handlers

import (
	"net/http"
	"time"

	"pawsit/services/booking"

	"github.com/gin-gonic/gin"
)

var BookingService booking.BookingService

// CreateBooking runs the booking gate for the authenticated owner.
// POST /bookings
func CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.OwnerID = c.GetString("userID")

	b, err := BookingService.CreateBooking(c.Request.Context(), time.Now(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// AttachPaymentIntent creates or returns the booking's payment intent.
// POST /bookings/:id/payment-intent
func AttachPaymentIntent(c *gin.Context) {
	result, err := BookingService.AttachPaymentIntent(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBooking returns one booking visible to the caller.
// GET /bookings/:id
func GetBooking(c *gin.Context) {
	b, err := BookingService.GetBooking(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings returns the caller's unarchived bookings.
// GET /bookings
func ListBookings(c *gin.Context) {
	list, err := BookingService.ListBookings(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// TransitionBooking applies a lifecycle action.
// POST /bookings/:id/accept|decline|cancel|archive|unarchive
func TransitionBooking(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := BookingService.Transition(c.Request.Context(), time.Now(), c.Param("id"), action, actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// DeleteBooking hard-deletes an archived, disposable booking.
// DELETE /bookings/:id
func DeleteBooking(c *gin.Context) {
	if _, err := BookingService.Transition(c.Request.Context(), time.Now(), c.Param("id"), booking.ActionDelete, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "booking deleted"})
}
