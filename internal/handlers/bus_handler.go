package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/smarttransit/seat-admin/internal/services"
)

// BusHandler handles bus and bus seat template endpoints
type BusHandler struct {
	busService *services.BusService
	logger     *logrus.Logger
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busService *services.BusService, logger *logrus.Logger) *BusHandler {
	return &BusHandler{
		busService: busService,
		logger:     logger,
	}
}

// CreateBus handles POST /api/v1/buses.
// Accepts multipart form data (seats as a JSON string) or a JSON body.
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		badRequest(c, "Validation failed", err)
		return
	}

	bus, err := h.busService.CreateBus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create bus")
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// ListBuses handles GET /api/v1/buses
func (h *BusHandler) ListBuses(c *gin.Context) {
	buses, err := h.busService.ListBuses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve buses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buses": buses,
		"count": len(buses),
	})
}

// GetBus handles GET /api/v1/buses/:id
func (h *BusHandler) GetBus(c *gin.Context) {
	bus, err := h.busService.GetBusResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve bus")
		return
	}

	c.JSON(http.StatusOK, bus)
}

// UpdateBus handles PUT /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req models.UpdateBusRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		badRequest(c, "Validation failed", err)
		return
	}

	bus, err := h.busService.UpdateBus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update bus")
		return
	}

	c.JSON(http.StatusOK, bus)
}

// DeleteBus handles DELETE /api/v1/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	busID := c.Param("id")
	if err := h.busService.DeleteBus(c.Request.Context(), busID); err != nil {
		respondError(c, h.logger, err, "Failed to delete bus")
		return
	}

	h.logger.WithField("bus_id", busID).Info("Bus deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted successfully"})
}

// UpdateSeats handles POST /api/v1/buses/seats
func (h *BusHandler) UpdateSeats(c *gin.Context) {
	var req models.UpdateBusSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		badRequest(c, "Validation failed", err)
		return
	}

	bus, err := h.busService.UpdateSeats(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save seats")
		return
	}

	c.JSON(http.StatusOK, bus)
}

// GetLayout handles GET /api/v1/buses/:id/layout
func (h *BusHandler) GetLayout(c *gin.Context) {
	layout, err := h.busService.BusLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to render seat layout")
		return
	}

	c.JSON(http.StatusOK, layout)
}

// OpenSeat handles GET /api/v1/buses/:id/seats/:row/:column
func (h *BusHandler) OpenSeat(c *gin.Context) {
	row, column, ok := seatPosition(c)
	if !ok {
		return
	}

	seat, err := h.busService.OpenSeat(c.Request.Context(), c.Param("id"), row, column)
	if err != nil {
		respondError(c, h.logger, err, "Failed to open seat")
		return
	}

	c.JSON(http.StatusOK, seat)
}

// SaveSeat handles PUT /api/v1/buses/:id/seats/:row/:column
func (h *BusHandler) SaveSeat(c *gin.Context) {
	row, column, ok := seatPosition(c)
	if !ok {
		return
	}

	var draft models.SeatDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	seat, err := h.busService.SaveSeat(c.Request.Context(), c.Param("id"), row, column, draft)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save seat")
		return
	}

	c.JSON(http.StatusOK, seat)
}

func seatPosition(c *gin.Context) (row, column int, ok bool) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		badRequest(c, "Invalid row", err)
		return 0, 0, false
	}
	column, err = strconv.Atoi(c.Param("column"))
	if err != nil {
		badRequest(c, "Invalid column", err)
		return 0, 0, false
	}
	return row, column, true
}
