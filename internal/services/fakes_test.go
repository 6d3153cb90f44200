package services

import (
	"context"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-admin/internal/database"
	"github.com/smarttransit/seat-admin/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeBusStore struct {
	buses map[string]models.Bus
	err   error
}

func newFakeBusStore(buses ...models.Bus) *fakeBusStore {
	store := &fakeBusStore{buses: map[string]models.Bus{}}
	for _, bus := range buses {
		store.buses[bus.ID] = bus
	}
	return store
}

func (s *fakeBusStore) Create(ctx context.Context, bus *models.Bus) error {
	if s.err != nil {
		return s.err
	}
	bus.SeatVersion = 1
	s.buses[bus.ID] = *bus
	return nil
}

func (s *fakeBusStore) GetByID(ctx context.Context, busID string) (*models.Bus, error) {
	bus, ok := s.buses[busID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &bus, nil
}

func (s *fakeBusStore) List(ctx context.Context) ([]models.Bus, error) {
	buses := make([]models.Bus, 0, len(s.buses))
	for _, bus := range s.buses {
		buses = append(buses, bus)
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i].ID < buses[j].ID })
	return buses, nil
}

func (s *fakeBusStore) Update(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	return s.write(bus, expectedVersion)
}

func (s *fakeBusStore) UpdateSeats(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	return s.write(bus, expectedVersion)
}

func (s *fakeBusStore) write(bus *models.Bus, expectedVersion *int) error {
	if s.err != nil {
		return s.err
	}
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

func (s *fakeBusStore) Delete(ctx context.Context, busID string) error {
	if _, ok := s.buses[busID]; !ok {
		return database.ErrNotFound
	}
	delete(s.buses, busID)
	return nil
}

type fakeBusCache struct {
	buses       map[string]models.Bus
	invalidated []string
}

func newFakeBusCache() *fakeBusCache {
	return &fakeBusCache{buses: map[string]models.Bus{}}
}

func (c *fakeBusCache) Get(ctx context.Context, busID string) (*models.Bus, error) {
	bus, ok := c.buses[busID]
	if !ok {
		return nil, nil
	}
	return &bus, nil
}

func (c *fakeBusCache) Set(ctx context.Context, bus *models.Bus) error {
	c.buses[bus.ID] = *bus
	return nil
}

func (c *fakeBusCache) Invalidate(ctx context.Context, busID string) error {
	delete(c.buses, busID)
	c.invalidated = append(c.invalidated, busID)
	return nil
}

type fakeTripStore struct {
	trips  map[string]models.Trip
	prices map[string][]models.TripSeatPrice
}

func newFakeTripStore(trips ...models.Trip) *fakeTripStore {
	store := &fakeTripStore{trips: map[string]models.Trip{}, prices: map[string][]models.TripSeatPrice{}}
	for _, trip := range trips {
		store.trips[trip.ID] = trip
		store.prices[trip.ID] = trip.TicketPricePerSeat
	}
	return store
}

func (s *fakeTripStore) Create(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice) error {
	trip.SeatVersion = 1
	s.trips[trip.ID] = *trip
	s.prices[trip.ID] = prices
	return nil
}

func (s *fakeTripStore) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, ok := s.trips[tripID]
	if !ok {
		return nil, database.ErrNotFound
	}
	trip.TicketPricePerSeat = append([]models.TripSeatPrice{}, s.prices[tripID]...)
	return &trip, nil
}

func (s *fakeTripStore) List(ctx context.Context, busID string) ([]models.Trip, error) {
	trips := []models.Trip{}
	for _, trip := range s.trips {
		if busID == "" || (trip.BusID != nil && *trip.BusID == busID) {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (s *fakeTripStore) Update(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice, expectedVersion *int) error {
	version, err := s.ReplaceSeatPrices(ctx, trip.ID, prices, expectedVersion)
	if err != nil {
		return err
	}
	trip.SeatVersion = version
	s.trips[trip.ID] = *trip
	return nil
}

func (s *fakeTripStore) ReplaceSeatPrices(ctx context.Context, tripID string, prices []models.TripSeatPrice, expectedVersion *int) (int, error) {
	trip, ok := s.trips[tripID]
	if !ok {
		return 0, database.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != trip.SeatVersion {
		return 0, database.ErrVersionConflict
	}
	trip.SeatVersion++
	s.trips[tripID] = trip
	s.prices[tripID] = prices
	return trip.SeatVersion, nil
}
