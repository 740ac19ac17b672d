package handlers

import (
	"errors"
	"net/http"

	"pawsit/services/availability"
	"pawsit/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// actor builds the booking-service actor from the auth middleware context.
func actor(c *gin.Context) booking.Actor {
	return booking.Actor{ID: c.GetString("userID"), Role: c.GetString("role")}
}

var gateStatus = map[string]int{
	booking.CodeInvalidRequest:    http.StatusBadRequest,
	booking.CodeInvalidDate:       http.StatusBadRequest,
	booking.CodePastDate:          http.StatusBadRequest,
	booking.CodeServiceNotPriced:  http.StatusUnprocessableEntity,
	booking.CodeAmountTooSmall:    http.StatusUnprocessableEntity,
	booking.CodeDateNotAvailable:  http.StatusConflict,
	booking.CodeDateAlreadyBooked: http.StatusConflict,
}

var transitionStatus = map[string]int{
	booking.CodeNotFound:      http.StatusNotFound,
	booking.CodeForbidden:     http.StatusForbidden,
	booking.CodeRefundFailed:  http.StatusBadGateway,
	booking.CodePaymentFailed: http.StatusBadGateway,
}

var availabilityStatus = map[string]int{
	availability.CodeNotFound:        http.StatusNotFound,
	availability.CodeServiceDisabled: http.StatusConflict,
	availability.CodeRangeTooLarge:   http.StatusBadRequest,
}

// respondError translates typed service errors into HTTP responses.
// Unknown errors are logged and masked as 500s.
func respondError(c *gin.Context, err error) {
	var gerr *booking.GateError
	if errors.As(err, &gerr) {
		status, ok := gateStatus[gerr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": gerr.Message, "code": gerr.Code})
		return
	}

	var terr *booking.TransitionError
	if errors.As(err, &terr) {
		status, ok := transitionStatus[terr.Code]
		if !ok {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": terr.Message, "code": terr.Code})
		return
	}

	var aerr *availability.AvailabilityError
	if errors.As(err, &aerr) {
		status, ok := availabilityStatus[aerr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": aerr.Message, "code": aerr.Code})
		return
	}

	zap.L().Error("unhandled service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
