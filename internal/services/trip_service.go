package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/database"
	"github.com/smarttransit/seat-admin/internal/metrics"
	"github.com/smarttransit/seat-admin/internal/models"
)

// TripStore persists trips and their seat price sets
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice) error
	GetByID(ctx context.Context, tripID string) (*models.Trip, error)
	List(ctx context.Context, busID string) ([]models.Trip, error)
	Update(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice, expectedVersion *int) error
	ReplaceSeatPrices(ctx context.Context, tripID string, prices []models.TripSeatPrice, expectedVersion *int) (int, error)
}

// BusReader looks up the bus a trip runs on. GetBus may serve a cached copy,
// LoadBus always reads the stored row.
type BusReader interface {
	GetBus(ctx context.Context, busID string) (*models.Bus, error)
	LoadBus(ctx context.Context, busID string) (*models.Bus, error)
}

// TripService handles trip creation and trip-scoped seat pricing
type TripService struct {
	store  TripStore
	buses  BusReader
	logger *logrus.Logger
}

// NewTripService creates a new trip service
func NewTripService(store TripStore, buses BusReader, logger *logrus.Logger) *TripService {
	return &TripService{
		store:  store,
		buses:  buses,
		logger: logger,
	}
}

// CreateTrip creates a trip from a bus. The bus seat template is copied into
// the trip; later edits on either side are not synced.
func (s *TripService) CreateTrip(ctx context.Context, req *models.CreateTripRequest) (*models.TripResponse, error) {
	if req.BusID == "" {
		return nil, ErrBusRequired
	}
	if err := checkTicketPrice(req.TicketPrice); err != nil {
		return nil, err
	}

	// snapshot the stored template, not a cached copy
	bus, err := s.buses.LoadBus(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	working := NewTripWorkingSet(bus.Seats)
	prices := BuildTicketPricePerSeat(working)
	if len(req.TicketPricePerSeat) > 0 {
		prices = req.TicketPricePerSeat
	}

	busID := bus.ID
	trip := &models.Trip{
		ID:            uuid.New().String(),
		BusID:         &busID,
		VendorID:      req.VendorID,
		DriverID:      req.DriverID,
		RouteID:       req.RouteID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		TicketPrice:   bus.TicketPrice,
		TotalSeats:    len(working),
		Status:        models.TripStatusScheduled,
	}
	if req.TicketPrice != nil {
		trip.TicketPrice = *req.TicketPrice
	}

	if prices, err = normalizeTripSeatPrices(trip.ID, prices); err != nil {
		return nil, err
	}
	trip.TicketPricePerSeat = prices

	err = s.store.Create(ctx, trip, prices)
	metrics.TripSeatPriceWrite("create", metrics.StatusFor(err, false))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":     trip.ID,
		"bus_id":      busID,
		"total_seats": trip.TotalSeats,
		"seat_prices": len(prices),
	}).Info("Trip created")

	layout := RenderTripLayout(bus.Rows, bus.Columns, trip.TicketPricePerSeat)
	return &models.TripResponse{Trip: *trip, Layout: &layout}, nil
}

// GetTrip retrieves a trip with its read-only seat layout
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return s.tripResponse(ctx, trip)
}

// ListTrips retrieves trips, optionally only those of one bus
func (s *TripService) ListTrips(ctx context.Context, busID string) ([]models.Trip, error) {
	return s.store.List(ctx, busID)
}

// UpdateTrip applies a trip edit and writes the full seat price set back.
// When the request omits the set, the stored one is re-submitted unchanged.
func (s *TripService) UpdateTrip(ctx context.Context, tripID string, req *models.UpdateTripRequest) (*models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if req.DriverID != nil {
		trip.DriverID = *req.DriverID
	}
	if req.RouteID != nil {
		trip.RouteID = req.RouteID
	}
	if req.DepartureTime != nil {
		trip.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		trip.ArrivalTime = req.ArrivalTime
	}
	if req.TicketPrice != nil {
		if err := checkTicketPrice(req.TicketPrice); err != nil {
			return nil, err
		}
		trip.TicketPrice = *req.TicketPrice
	}
	if req.Status != nil {
		trip.Status = models.TripStatus(*req.Status)
	}

	prices := trip.TicketPricePerSeat
	if req.TicketPricePerSeat != nil {
		if !trip.CanManageSeats() {
			return nil, ErrSeatManagementUnavailable
		}
		prices = req.TicketPricePerSeat
	}
	if prices, err = normalizeTripSeatPrices(trip.ID, prices); err != nil {
		return nil, err
	}
	trip.TicketPricePerSeat = prices

	err = s.store.Update(ctx, trip, prices, req.SeatVersion)
	if err = s.afterWrite("update", tripID, err); err != nil {
		return nil, err
	}

	return s.tripResponse(ctx, trip)
}

// SaveSeatPrices replaces the seat price set of a trip and nothing else
func (s *TripService) SaveSeatPrices(ctx context.Context, req *models.SaveTripSeatPricesRequest) (*models.Trip, error) {
	trip, err := s.loadManagedTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	prices, err := normalizeTripSeatPrices(trip.ID, req.TicketPricePerSeat)
	if err != nil {
		return nil, err
	}
	return s.replacePrices(ctx, "save", trip, prices, req.SeatVersion)
}

// EditSeatPrice edits one seat of a trip, keyed on seat number
func (s *TripService) EditSeatPrice(ctx context.Context, tripID string, seatNumber int, req *models.EditTripSeatPriceRequest) (*models.Trip, error) {
	if seatNumber <= 0 {
		return nil, fmt.Errorf("%w: seat number %d", ErrInvalidSeatPosition, seatNumber)
	}

	trip, err := s.loadManagedTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	prices, err := normalizeTripSeatPrices(trip.ID, ApplyTripSeatEdit(trip.TicketPricePerSeat, seatNumber, *req))
	if err != nil {
		return nil, err
	}
	return s.replacePrices(ctx, "edit", trip, prices, req.SeatVersion)
}

// tripResponse attaches the read-only seat layout. The layout is left out
// when the trip has no bus or the bus is gone.
func (s *TripService) tripResponse(ctx context.Context, trip *models.Trip) (*models.TripResponse, error) {
	resp := &models.TripResponse{Trip: *trip}
	if !trip.CanManageSeats() {
		return resp, nil
	}

	bus, err := s.buses.GetBus(ctx, *trip.BusID)
	switch {
	case err == nil:
		layout := RenderTripLayout(bus.Rows, bus.Columns, trip.TicketPricePerSeat)
		resp.Layout = &layout
	case errors.Is(err, ErrBusNotFound):
		s.logger.WithField("trip_id", trip.ID).Warn("Trip bus no longer exists")
	default:
		return nil, err
	}

	return resp, nil
}

func (s *TripService) replacePrices(ctx context.Context, path string, trip *models.Trip, prices []models.TripSeatPrice, expectedVersion *int) (*models.Trip, error) {
	version, err := s.store.ReplaceSeatPrices(ctx, trip.ID, prices, expectedVersion)
	if err = s.afterWrite(path, trip.ID, err); err != nil {
		return nil, err
	}

	trip.SeatVersion = version
	trip.TicketPricePerSeat = prices

	s.logger.WithFields(logrus.Fields{
		"trip_id":      trip.ID,
		"seat_prices":  len(prices),
		"seat_version": version,
	}).Info("Trip seat prices saved")

	return trip, nil
}

func (s *TripService) loadTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (s *TripService) loadManagedTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.CanManageSeats() {
		return nil, ErrSeatManagementUnavailable
	}
	return trip, nil
}

func (s *TripService) afterWrite(path, tripID string, err error) error {
	conflict := errors.Is(err, database.ErrVersionConflict)
	metrics.TripSeatPriceWrite(path, metrics.StatusFor(err, conflict))

	switch {
	case err == nil:
		return nil
	case conflict:
		s.logger.WithField("trip_id", tripID).Warn("Stale seat version rejected")
		return ErrVersionConflict
	case errors.Is(err, database.ErrNotFound):
		return ErrTripNotFound
	default:
		return err
	}
}

func checkTicketPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return fmt.Errorf("%w: ticket_price %s", ErrNegativePrice, price)
	}
	return nil
}
