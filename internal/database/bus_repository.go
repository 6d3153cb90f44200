package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smarttransit/seat-admin/internal/models"
)

const busColumns = `
	id, bus_number, vendor_id, seat_rows, seat_columns, berth_type,
	ticket_price, seats, seat_version, status, created_at, updated_at`

// BusRepository handles database operations for buses and their seat templates
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create creates a new bus
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	query := `
		INSERT INTO buses (
			id, bus_number, vendor_id, seat_rows, seat_columns, berth_type,
			ticket_price, seats, seat_version, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, 1, $9
		)
		RETURNING seat_version, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		bus.ID, bus.BusNumber, bus.VendorID, bus.Rows, bus.Columns, bus.BerthType,
		bus.TicketPrice, bus.Seats, bus.Status,
	).Scan(&bus.SeatVersion, &bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(ctx context.Context, busID string) (*models.Bus, error) {
	query := `SELECT` + busColumns + ` FROM buses WHERE id = $1`

	bus := &models.Bus{}
	if err := r.db.GetContext(ctx, bus, query, busID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	return bus, nil
}

// List retrieves all buses, newest first
func (r *BusRepository) List(ctx context.Context) ([]models.Bus, error) {
	query := `SELECT` + busColumns + ` FROM buses ORDER BY created_at DESC`

	buses := []models.Bus{}
	if err := r.db.SelectContext(ctx, &buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// Update writes every bus field and bumps seat_version. When expectedVersion
// is set the write only applies if it still matches the stored version.
func (r *BusRepository) Update(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	query := `
		UPDATE buses SET
			bus_number = $2, vendor_id = $3, seat_rows = $4, seat_columns = $5,
			berth_type = $6, ticket_price = $7, seats = $8, status = $9,
			seat_version = seat_version + 1, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{
		bus.ID, bus.BusNumber, bus.VendorID, bus.Rows, bus.Columns,
		bus.BerthType, bus.TicketPrice, bus.Seats, bus.Status,
	}
	if expectedVersion != nil {
		query += ` AND seat_version = $10`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING seat_version, updated_at`

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&bus.SeatVersion, &bus.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.missingOrStale(ctx, bus.ID)
		}
		return fmt.Errorf("failed to update bus: %w", err)
	}

	return nil
}

// UpdateSeats writes only the seat template of a bus
func (r *BusRepository) UpdateSeats(ctx context.Context, bus *models.Bus, expectedVersion *int) error {
	query := `
		UPDATE buses SET
			seat_rows = $2, seat_columns = $3, seats = $4, berth_type = $5,
			seat_version = seat_version + 1, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{bus.ID, bus.Rows, bus.Columns, bus.Seats, bus.BerthType}
	if expectedVersion != nil {
		query += ` AND seat_version = $6`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING seat_version, updated_at`

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&bus.SeatVersion, &bus.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.missingOrStale(ctx, bus.ID)
		}
		return fmt.Errorf("failed to update bus seats: %w", err)
	}

	return nil
}

// Delete deletes a bus. Trips keep their seat prices; their bus_id is cleared.
func (r *BusRepository) Delete(ctx context.Context, busID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// missingOrStale tells a missing bus apart from a version mismatch after an
// UPDATE matched no row.
func (r *BusRepository) missingOrStale(ctx context.Context, busID string) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM buses WHERE id = $1)`, busID)
	if err != nil {
		return fmt.Errorf("failed to check bus: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}
