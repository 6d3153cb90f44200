package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/smarttransit/seat-admin/internal/services"
)

// SeatGridHandler serves stateless seat grid helpers
type SeatGridHandler struct {
	busService *services.BusService
	logger     *logrus.Logger
}

// NewSeatGridHandler creates a new seat grid handler
func NewSeatGridHandler(busService *services.BusService, logger *logrus.Logger) *SeatGridHandler {
	return &SeatGridHandler{
		busService: busService,
		logger:     logger,
	}
}

// Preview handles GET /api/v1/seat-grid/preview?rows=&columns=&base_price=
func (h *SeatGridHandler) Preview(c *gin.Context) {
	rows, err := queryInt(c, "rows")
	if err != nil {
		badRequest(c, "Invalid rows", err)
		return
	}
	columns, err := queryInt(c, "columns")
	if err != nil {
		badRequest(c, "Invalid columns", err)
		return
	}

	basePrice := decimal.Zero
	if raw := c.Query("base_price"); raw != "" {
		basePrice, err = decimal.NewFromString(raw)
		if err != nil || basePrice.IsNegative() {
			badRequest(c, "Invalid base_price", fmt.Errorf("base_price must be a non-negative number"))
			return
		}
	}

	preview, err := h.busService.PreviewGrid(rows, columns, basePrice)
	if err != nil {
		respondError(c, h.logger, err, "Invalid seat grid")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// DecodeLabel handles GET /api/v1/seat-labels/:label
func (h *SeatGridHandler) DecodeLabel(c *gin.Context) {
	label := c.Param("label")

	row, column, seatNumber, err := services.DecodeSeatLabel(label)
	if err != nil {
		respondError(c, h.logger, err, "Invalid seat label")
		return
	}

	c.JSON(http.StatusOK, models.SeatLabelInfo{
		Label:      services.SeatLabel(row, column),
		Row:        row,
		Column:     column,
		SeatNumber: seatNumber,
	})
}

// queryInt reads an optional integer query parameter, 0 when absent
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
