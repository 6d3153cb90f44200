package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/services"
)

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and reported with the generic message only.
func respondError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	switch {
	case errors.Is(err, services.ErrBusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
	case errors.Is(err, services.ErrTripNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Seat set was modified by another request",
			"details": "reload the seats and try again",
			"code":    "SEAT_VERSION_CONFLICT",
		})
	case errors.Is(err, services.ErrSeatManagementUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Seat management is unavailable for this trip",
			"code":  "SEAT_MANAGEMENT_UNAVAILABLE",
		})
	case errors.Is(err, services.ErrBusRequired),
		errors.Is(err, services.ErrGridTooLarge),
		errors.Is(err, services.ErrInvalidSeatLabel),
		errors.Is(err, services.ErrInvalidSeatPosition),
		errors.Is(err, services.ErrNegativePrice),
		errors.Is(err, services.ErrInvalidTripSeatStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
}
