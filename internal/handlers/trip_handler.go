package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/smarttransit/seat-admin/internal/services"
)

// TripHandler handles trips and their trip-scoped seat prices
type TripHandler struct {
	tripService *services.TripService
	logger      *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *services.TripService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create trip")
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/trips?bus_id=
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripService.ListTrips(c.Request.Context(), c.Query("bus_id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve trips")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// SaveSeatPrices handles POST /api/v1/trips/seat-prices
func (h *TripHandler) SaveSeatPrices(c *gin.Context) {
	var req models.SaveTripSeatPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	trip, err := h.tripService.SaveSeatPrices(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save seat changes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Seat changes saved",
		"trip":    trip,
	})
}

// EditSeatPrice handles PUT /api/v1/trips/:id/seat-prices/:seat_number
func (h *TripHandler) EditSeatPrice(c *gin.Context) {
	seatNumber, err := strconv.Atoi(c.Param("seat_number"))
	if err != nil {
		badRequest(c, "Invalid seat number", err)
		return
	}

	var req models.EditTripSeatPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	trip, err := h.tripService.EditSeatPrice(c.Request.Context(), c.Param("id"), seatNumber, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save seat")
		return
	}

	c.JSON(http.StatusOK, trip)
}
