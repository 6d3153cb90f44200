package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/database"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/smarttransit/seat-admin/internal/services"
	"github.com/stretchr/testify/require"
)

type memoryBusStore struct {
	buses map[string]models.Bus
}

func (s *memoryBusStore) Create(ctx context.Context, bus *models.Bus) error {
	bus.SeatVersion = 1
	s.buses[bus.ID] = *bus
	return nil
}

func (s *memoryBusStore) GetByID(ctx context.Context, busID string) (*models.Bus, error) {
	bus, ok := s.buses[busID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &bus, nil
}

func (s *memoryBusStore) List(ctx context.Context) ([]models.Bus, error) {
	buses := []models.Bus{}
	for _, bus := range s.buses {
		buses = append(buses, bus)
	}
	return buses, nil
}

func (s *memoryBusStore) Update(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	return s.UpdateSeats(ctx, bus, expectedVersion)
}

func (s *memoryBusStore) UpdateSeats(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	stored, ok := s.buses[bus.ID]
	if !ok {
		return database.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != stored.SeatVersion {
		return database.ErrVersionConflict
	}
	bus.SeatVersion = stored.SeatVersion + 1
	s.buses[bus.ID] = *bus
	return nil
}

func (s *memoryBusStore) Delete(ctx context.Context, busID string) error {
	if _, ok := s.buses[busID]; !ok {
		return database.ErrNotFound
	}
	delete(s.buses, busID)
	return nil
}

type memoryTripStore struct {
	trips map[string]models.Trip
}

func (s *memoryTripStore) Create(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice) error {
	trip.SeatVersion = 1
	trip.TicketPricePerSeat = prices
	s.trips[trip.ID] = *trip
	return nil
}

func (s *memoryTripStore) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, ok := s.trips[tripID]
	if !ok {
		return nil, database.ErrNotFound
	}
	trip.TicketPricePerSeat = append([]models.TripSeatPrice{}, trip.TicketPricePerSeat...)
	return &trip, nil
}

func (s *memoryTripStore) List(ctx context.Context, busID string) ([]models.Trip, error) {
	trips := []models.Trip{}
	for _, trip := range s.trips {
		if busID == "" || (trip.BusID != nil && *trip.BusID == busID) {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (s *memoryTripStore) Update(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice, expectedVersion *int) error {
	version, err := s.ReplaceSeatPrices(ctx, trip.ID, prices, expectedVersion)
	if err != nil {
		return err
	}
	trip.SeatVersion = version
	trip.TicketPricePerSeat = prices
	s.trips[trip.ID] = *trip
	return nil
}

func (s *memoryTripStore) ReplaceSeatPrices(ctx context.Context, tripID string, prices []models.TripSeatPrice, expectedVersion *int) (int, error) {
	trip, ok := s.trips[tripID]
	if !ok {
		return 0, database.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != trip.SeatVersion {
		return 0, database.ErrVersionConflict
	}
	trip.SeatVersion++
	trip.TicketPricePerSeat = prices
	s.trips[tripID] = trip
	return trip.SeatVersion, nil
}

type testServer struct {
	router *gin.Engine
	buses  *memoryBusStore
	trips  *memoryTripStore
}

// newTestServer wires the seat admin routes on top of in-memory stores,
// seeded with a 2x3 bus "bus-1" at seat version 1.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	seats, err := services.GenerateSeats(2, 3, decimal.NewFromInt(1000))
	require.NoError(t, err)

	buses := &memoryBusStore{buses: map[string]models.Bus{
		"bus-1": {
			ID:          "bus-1",
			BusNumber:   "NB-1234",
			Rows:        2,
			Columns:     3,
			BerthType:   models.BerthTypeSeater,
			TicketPrice: decimal.NewFromInt(1000),
			Seats:       seats,
			SeatVersion: 1,
			Status:      models.BusStatusActive,
		},
	}}
	trips := &memoryTripStore{trips: map[string]models.Trip{}}

	busService := services.NewBusService(buses, nil, logger)
	tripService := services.NewTripService(trips, busService, logger)

	busHandler := NewBusHandler(busService, logger)
	tripHandler := NewTripHandler(tripService, logger)
	seatGridHandler := NewSeatGridHandler(busService, logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/seat-grid/preview", seatGridHandler.Preview)
	v1.GET("/seat-labels/:label", seatGridHandler.DecodeLabel)
	v1.POST("/buses", busHandler.CreateBus)
	v1.GET("/buses", busHandler.ListBuses)
	v1.POST("/buses/seats", busHandler.UpdateSeats)
	v1.GET("/buses/:id", busHandler.GetBus)
	v1.PUT("/buses/:id", busHandler.UpdateBus)
	v1.DELETE("/buses/:id", busHandler.DeleteBus)
	v1.GET("/buses/:id/layout", busHandler.GetLayout)
	v1.GET("/buses/:id/seats/:row/:column", busHandler.OpenSeat)
	v1.PUT("/buses/:id/seats/:row/:column", busHandler.SaveSeat)
	v1.POST("/trips", tripHandler.CreateTrip)
	v1.GET("/trips", tripHandler.ListTrips)
	v1.POST("/trips/seat-prices", tripHandler.SaveSeatPrices)
	v1.GET("/trips/:id", tripHandler.GetTrip)
	v1.PUT("/trips/:id", tripHandler.UpdateTrip)
	v1.PUT("/trips/:id/seat-prices/:seat_number", tripHandler.EditSeatPrice)

	return &testServer{router: router, buses: buses, trips: trips}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
