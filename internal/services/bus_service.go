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

// BusStore persists buses and their seat templates
type BusStore interface {
	Create(ctx context.Context, bus *models.Bus) error
	GetByID(ctx context.Context, busID string) (*models.Bus, error)
	List(ctx context.Context) ([]models.Bus, error)
	Update(ctx context.Context, bus *models.Bus, expectedVersion *int) error
	UpdateSeats(ctx context.Context, bus *models.Bus, expectedVersion *int) error
	Delete(ctx context.Context, busID string) error
}

// BusCache caches buses by ID. Get returns nil, nil on a miss.
type BusCache interface {
	Get(ctx context.Context, busID string) (*models.Bus, error)
	Set(ctx context.Context, bus *models.Bus) error
	Invalidate(ctx context.Context, busID string) error
}

// BusService handles bus seat template business logic
type BusService struct {
	store  BusStore
	cache  BusCache
	logger *logrus.Logger
}

// NewBusService creates a new bus service. cache may be nil.
func NewBusService(store BusStore, cache BusCache, logger *logrus.Logger) *BusService {
	return &BusService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// PreviewGrid generates a seat template without persisting it
func (s *BusService) PreviewGrid(rows, columns int, basePrice decimal.Decimal) (*models.SeatGridPreview, error) {
	seats, err := GenerateSeats(rows, columns, basePrice)
	if err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []models.Seat{}
	}

	return &models.SeatGridPreview{
		Rows:       rows,
		Columns:    columns,
		TotalSeats: len(seats),
		Seats:      seats,
		Layout:     RenderBusLayout(rows, columns, seats, LayoutEditor),
	}, nil
}

// CreateBus creates a bus. Seats are generated from rows and columns only
// when the request carries no seat template of its own.
func (s *BusService) CreateBus(ctx context.Context, req *models.CreateBusRequest) (*models.BusResponse, error) {
	if err := ValidateGridDimensions(req.Rows, req.Columns); err != nil {
		return nil, err
	}

	price, err := models.ParsePrice(req.TicketPrice)
	if err != nil {
		return nil, err
	}

	submitted, err := models.ParseSeats(req.Seats)
	if err != nil {
		return nil, err
	}

	seats, err := NormalizeSeats(submitted, req.Rows, req.Columns)
	if err != nil {
		return nil, err
	}
	if seats, err = s.ensureSeats(seats, req.Rows, req.Columns, price); err != nil {
		return nil, err
	}

	bus := &models.Bus{
		ID:          uuid.New().String(),
		BusNumber:   req.BusNumber,
		VendorID:    req.VendorID,
		Rows:        req.Rows,
		Columns:     req.Columns,
		BerthType:   models.BerthType(req.BerthType),
		TicketPrice: price,
		Seats:       seats,
		Status:      models.BusStatusActive,
	}
	if bus.BerthType == "" {
		bus.BerthType = models.BerthTypeSeater
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	err = s.store.Create(ctx, bus)
	metrics.SeatTemplateWrite("create", metrics.StatusFor(err, false))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id": bus.ID,
		"seats":  len(bus.Seats),
	}).Info("Bus created")

	return busResponse(bus), nil
}

// GetBus retrieves a bus, served from cache when possible
func (s *BusService) GetBus(ctx context.Context, busID string) (*models.Bus, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, busID)
		if err != nil {
			s.logger.WithError(err).WithField("bus_id", busID).Warn("Bus cache read failed")
		}
		metrics.BusCacheLookup(cached != nil)
		if cached != nil {
			return cached, nil
		}
	}

	bus, err := s.store.GetByID(ctx, busID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, bus); err != nil {
			s.logger.WithError(err).WithField("bus_id", busID).Warn("Bus cache write failed")
		}
	}

	return bus, nil
}

// GetBusResponse retrieves a bus with its editor layout
func (s *BusService) GetBusResponse(ctx context.Context, busID string) (*models.BusResponse, error) {
	bus, err := s.GetBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	return busResponse(bus), nil
}

// ListBuses retrieves all buses
func (s *BusService) ListBuses(ctx context.Context) ([]models.Bus, error) {
	return s.store.List(ctx)
}

// UpdateBus applies a bus edit. An existing seat template is kept as is;
// it is only regenerated when it is still empty.
func (s *BusService) UpdateBus(ctx context.Context, busID string, req *models.UpdateBusRequest) (*models.BusResponse, error) {
	bus, err := s.LoadBus(ctx, busID)
	if err != nil {
		return nil, err
	}

	if req.BusNumber != nil {
		bus.BusNumber = *req.BusNumber
	}
	if req.VendorID != nil {
		bus.VendorID = req.VendorID
	}
	if req.Rows != nil {
		bus.Rows = *req.Rows
	}
	if req.Columns != nil {
		bus.Columns = *req.Columns
	}
	if req.BerthType != nil && *req.BerthType != "" {
		bus.BerthType = models.BerthType(*req.BerthType)
	}
	if req.TicketPrice != "" {
		price, err := models.ParsePrice(req.TicketPrice)
		if err != nil {
			return nil, err
		}
		bus.TicketPrice = price
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	if err := ValidateGridDimensions(bus.Rows, bus.Columns); err != nil {
		return nil, err
	}

	seats := []models.Seat(bus.Seats)
	if req.Seats != nil {
		submitted, err := models.ParseSeats(*req.Seats)
		if err != nil {
			return nil, err
		}
		if seats, err = NormalizeSeats(submitted, bus.Rows, bus.Columns); err != nil {
			return nil, err
		}
	}
	if bus.Seats, err = s.ensureSeats(seats, bus.Rows, bus.Columns, bus.TicketPrice); err != nil {
		return nil, err
	}

	err = s.store.Update(ctx, bus, req.SeatVersion)
	if err = s.afterWrite(ctx, "update", busID, err); err != nil {
		return nil, err
	}

	return busResponse(bus), nil
}

// UpdateSeats is the seat-only update used by the seat manager
func (s *BusService) UpdateSeats(ctx context.Context, req *models.UpdateBusSeatsRequest) (*models.BusResponse, error) {
	if err := ValidateGridDimensions(req.Rows, req.Columns); err != nil {
		return nil, err
	}

	submitted, err := models.ParseSeats(req.Seats)
	if err != nil {
		return nil, err
	}

	bus, err := s.LoadBus(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	bus.Rows = req.Rows
	bus.Columns = req.Columns
	if req.BerthType != "" {
		bus.BerthType = models.BerthType(req.BerthType)
	}
	seats, err := NormalizeSeats(submitted, bus.Rows, bus.Columns)
	if err != nil {
		return nil, err
	}
	if bus.Seats, err = s.ensureSeats(seats, bus.Rows, bus.Columns, bus.TicketPrice); err != nil {
		return nil, err
	}

	err = s.store.UpdateSeats(ctx, bus, req.SeatVersion)
	if err = s.afterWrite(ctx, "update_seats", bus.ID, err); err != nil {
		return nil, err
	}

	return busResponse(bus), nil
}

// DeleteBus deletes a bus
func (s *BusService) DeleteBus(ctx context.Context, busID string) error {
	if err := s.store.Delete(ctx, busID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrBusNotFound
		}
		return err
	}
	s.invalidate(ctx, busID)
	return nil
}

// BusLayout renders the editor layout of a bus
func (s *BusService) BusLayout(ctx context.Context, busID string) (*models.SeatLayout, error) {
	bus, err := s.GetBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	layout := RenderBusLayout(bus.Rows, bus.Columns, bus.Seats, LayoutEditor)
	return &layout, nil
}

// OpenSeat returns the editor draft of a single seat
func (s *BusService) OpenSeat(ctx context.Context, busID string, row, column int) (*models.Seat, error) {
	bus, err := s.GetBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	if err := checkSeatPosition(bus, row, column); err != nil {
		return nil, err
	}

	draft := OpenSeat(bus.Seats, row, column)
	return &draft, nil
}

// SaveSeat commits one edited seat back into the bus template
func (s *BusService) SaveSeat(ctx context.Context, busID string, row, column int, draft models.SeatDraft) (*models.Seat, error) {
	bus, err := s.LoadBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	if err := checkSeatPosition(bus, row, column); err != nil {
		return nil, err
	}

	seat := ApplySeatDraft(OpenSeat(bus.Seats, row, column), draft)
	if seat.Price.IsNegative() {
		return nil, fmt.Errorf("%w: seat %s", ErrNegativePrice, SeatLabel(row, column))
	}
	bus.Seats = SaveSeat(bus.Seats, seat)

	err = s.store.UpdateSeats(ctx, bus, draft.SeatVersion)
	if err = s.afterWrite(ctx, "save_seat", busID, err); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":       busID,
		"seat_number":  seat.SeatNumber,
		"seat_version": bus.SeatVersion,
	}).Info("Seat saved")

	return &seat, nil
}

func (s *BusService) ensureSeats(seats []models.Seat, rows, columns int, price decimal.Decimal) (models.SeatList, error) {
	wasEmpty := len(seats) == 0
	out, err := EnsureSeats(seats, rows, columns, price)
	if err != nil {
		return nil, err
	}
	if wasEmpty {
		metrics.SeatsGenerated(len(out))
	}
	if out == nil {
		out = []models.Seat{}
	}
	return out, nil
}

// LoadBus reads the stored bus, bypassing the cache. Writes and trip seat
// snapshots start from it.
func (s *BusService) LoadBus(ctx context.Context, busID string) (*models.Bus, error) {
	bus, err := s.store.GetByID(ctx, busID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return bus, nil
}

func (s *BusService) afterWrite(ctx context.Context, operation, busID string, err error) error {
	conflict := errors.Is(err, database.ErrVersionConflict)
	metrics.SeatTemplateWrite(operation, metrics.StatusFor(err, conflict))

	switch {
	case err == nil:
		s.invalidate(ctx, busID)
		return nil
	case conflict:
		s.logger.WithField("bus_id", busID).Warn("Stale seat version rejected")
		return ErrVersionConflict
	case errors.Is(err, database.ErrNotFound):
		return ErrBusNotFound
	default:
		return err
	}
}

func (s *BusService) invalidate(ctx context.Context, busID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, busID); err != nil {
		s.logger.WithError(err).WithField("bus_id", busID).Warn("Bus cache invalidation failed")
	}
}

func checkSeatPosition(bus *models.Bus, row, column int) error {
	if row < 1 || column < 1 || row > bus.Rows || column > bus.Columns {
		return fmt.Errorf("%w: (%d, %d) in a %dx%d grid", ErrInvalidSeatPosition, row, column, bus.Rows, bus.Columns)
	}
	return nil
}

func busResponse(bus *models.Bus) *models.BusResponse {
	return &models.BusResponse{
		Bus:    *bus,
		Layout: RenderBusLayout(bus.Rows, bus.Columns, bus.Seats, LayoutEditor),
	}
}
