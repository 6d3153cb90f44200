package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/seat-admin/internal/models"
)

const tripColumns = `
	id, bus_id, vendor_id, driver_id, route_id, departure_time, arrival_time,
	ticket_price, total_seats, status, seat_version, created_at, updated_at`

// TripRepository handles trips and their trip-scoped seat prices
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip together with its seat price set in one transaction
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trips (
			id, bus_id, vendor_id, driver_id, route_id, departure_time, arrival_time,
			ticket_price, total_seats, status, seat_version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1
		)
		RETURNING seat_version, created_at, updated_at
	`

	err = tx.QueryRowxContext(ctx, query,
		trip.ID, trip.BusID, trip.VendorID, trip.DriverID, trip.RouteID,
		trip.DepartureTime, trip.ArrivalTime, trip.TicketPrice, trip.TotalSeats, trip.Status,
	).Scan(&trip.SeatVersion, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	if err := insertSeatPrices(ctx, tx, trip.ID, prices); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip: %w", err)
	}

	trip.TicketPricePerSeat = prices
	return nil
}

// GetByID retrieves a trip with its seat prices
func (r *TripRepository) GetByID(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT` + tripColumns + ` FROM trips WHERE id = $1`

	trip := &models.Trip{}
	if err := r.db.GetContext(ctx, trip, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	prices, err := r.GetSeatPrices(ctx, tripID)
	if err != nil {
		return nil, err
	}
	trip.TicketPricePerSeat = prices

	return trip, nil
}

// List retrieves trips ordered by departure, optionally for a single bus
func (r *TripRepository) List(ctx context.Context, busID string) ([]models.Trip, error) {
	query := `SELECT` + tripColumns + ` FROM trips`
	args := []interface{}{}
	if busID != "" {
		query += ` WHERE bus_id = $1`
		args = append(args, busID)
	}
	query += ` ORDER BY departure_time DESC`

	trips := []models.Trip{}
	if err := r.db.SelectContext(ctx, &trips, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// GetSeatPrices returns the seat price set of a trip ordered by seat number
func (r *TripRepository) GetSeatPrices(ctx context.Context, tripID string) ([]models.TripSeatPrice, error) {
	query := `
		SELECT trip_id, seat_number, ticket_price, status
		FROM trip_seat_prices
		WHERE trip_id = $1
		ORDER BY seat_number
	`

	prices := []models.TripSeatPrice{}
	if err := r.db.SelectContext(ctx, &prices, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to get trip seat prices: %w", err)
	}

	return prices, nil
}

// Update writes the trip fields and replaces its full seat price set
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip, prices []models.TripSeatPrice, expectedVersion *int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE trips SET
			driver_id = $2, route_id = $3, departure_time = $4, arrival_time = $5,
			ticket_price = $6, status = $7,
			seat_version = seat_version + 1, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{
		trip.ID, trip.DriverID, trip.RouteID, trip.DepartureTime, trip.ArrivalTime,
		trip.TicketPrice, trip.Status,
	}
	if expectedVersion != nil {
		query += ` AND seat_version = $8`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING seat_version, updated_at`

	err = tx.QueryRowxContext(ctx, query, args...).Scan(&trip.SeatVersion, &trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.missingOrStale(ctx, tx, trip.ID)
		}
		return fmt.Errorf("failed to update trip: %w", err)
	}

	if err := replaceSeatPrices(ctx, tx, trip.ID, prices); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip: %w", err)
	}

	trip.TicketPricePerSeat = prices
	return nil
}

// ReplaceSeatPrices replaces only the seat price set of a trip and returns
// the new seat_version.
func (r *TripRepository) ReplaceSeatPrices(ctx context.Context, tripID string, prices []models.TripSeatPrice, expectedVersion *int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE trips SET seat_version = seat_version + 1, updated_at = NOW() WHERE id = $1`
	args := []interface{}{tripID}
	if expectedVersion != nil {
		query += ` AND seat_version = $2`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING seat_version`

	var version int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, r.missingOrStale(ctx, tx, tripID)
		}
		return 0, fmt.Errorf("failed to update trip seat version: %w", err)
	}

	if err := replaceSeatPrices(ctx, tx, tripID, prices); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit trip seat prices: %w", err)
	}

	return version, nil
}

func replaceSeatPrices(ctx context.Context, tx *sqlx.Tx, tripID string, prices []models.TripSeatPrice) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_seat_prices WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to clear trip seat prices: %w", err)
	}
	return insertSeatPrices(ctx, tx, tripID, prices)
}

func insertSeatPrices(ctx context.Context, tx *sqlx.Tx, tripID string, prices []models.TripSeatPrice) error {
	query := `
		INSERT INTO trip_seat_prices (trip_id, seat_number, ticket_price, status)
		VALUES ($1, $2, $3, $4)
	`
	for _, p := range prices {
		if _, err := tx.ExecContext(ctx, query, tripID, p.SeatNumber, p.TicketPrice, p.Status); err != nil {
			return fmt.Errorf("failed to insert seat price %d: %w", p.SeatNumber, err)
		}
	}
	return nil
}

// missingOrStale runs on the caller's transaction so it never waits on a
// second pool connection.
func (r *TripRepository) missingOrStale(ctx context.Context, tx *sqlx.Tx, tripID string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, tripID)
	if err != nil {
		return fmt.Errorf("failed to check trip: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}
