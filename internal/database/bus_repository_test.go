package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var busRowColumns = []string{
	"id", "bus_number", "vendor_id", "seat_rows", "seat_columns", "berth_type",
	"ticket_price", "seats", "seat_version", "status", "created_at", "updated_at",
}

func TestBusRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)
		now := time.Now()

		bus := &models.Bus{
			ID:          "bus-1",
			BusNumber:   "NB-1234",
			Rows:        1,
			Columns:     2,
			BerthType:   models.BerthTypeSeater,
			TicketPrice: decimal.NewFromInt(1500),
			Seats:       models.SeatList{{Row: 1, Column: 1, SeatNumber: 11}},
			Status:      models.BusStatusActive,
		}

		mock.ExpectQuery(`INSERT INTO buses`).
			WithArgs("bus-1", "NB-1234", nil, 1, 2, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"seat_version", "created_at", "updated_at"}).AddRow(1, now, now))

		require.NoError(t, repo.Create(ctx, bus))
		assert.Equal(t, 1, bus.SeatVersion)
		assert.Equal(t, now, bus.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)

		mock.ExpectQuery(`INSERT INTO buses`).WillReturnError(fmt.Errorf("duplicate key"))

		err := repo.Create(ctx, &models.Bus{ID: "bus-1"})
		assert.ErrorContains(t, err, "failed to create bus")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBusRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE id = \$1`).
			WithArgs("bus-1").
			WillReturnRows(sqlmock.NewRows(busRowColumns).AddRow(
				"bus-1", "NB-1234", nil, 10, 4, "seater",
				"1500.00", []byte(`[{"row":1,"column":1,"seat_number":11,"price":1500,"seat_type":"window","seat_class":"economic","is_recliner":0,"is_sleeper":0}]`),
				3, "active", now, now,
			))

		bus, err := repo.GetByID(ctx, "bus-1")
		require.NoError(t, err)

		assert.Equal(t, 10, bus.Rows)
		assert.Equal(t, 4, bus.Columns)
		assert.Equal(t, 3, bus.SeatVersion)
		assert.True(t, decimal.NewFromInt(1500).Equal(bus.TicketPrice))
		require.Len(t, bus.Seats, 1)
		assert.Equal(t, models.SeatTypeWindow, bus.Seats[0].SeatType)
		require.NotNil(t, bus.Seats[0].IsRecliner)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(busRowColumns))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBusRepository_UpdateSeats(t *testing.T) {
	ctx := context.Background()
	bus := &models.Bus{
		ID:        "bus-1",
		Rows:      2,
		Columns:   2,
		BerthType: models.BerthTypeSleeper,
		Seats:     models.SeatList{{Row: 2, Column: 2, SeatNumber: 22}},
	}

	t.Run("Matching Version", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)
		version := 3

		mock.ExpectQuery(`UPDATE buses SET (.+) WHERE id = \$1 AND seat_version = \$6 RETURNING seat_version, updated_at`).
			WithArgs("bus-1", 2, 2, sqlmock.AnyArg(), sqlmock.AnyArg(), 3).
			WillReturnRows(sqlmock.NewRows([]string{"seat_version", "updated_at"}).AddRow(4, time.Now()))

		require.NoError(t, repo.UpdateSeats(ctx, bus, &version))
		assert.Equal(t, 4, bus.SeatVersion)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Without Version", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)

		mock.ExpectQuery(`UPDATE buses SET (.+) WHERE id = \$1 RETURNING`).
			WithArgs("bus-1", 2, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"seat_version", "updated_at"}).AddRow(5, time.Now()))

		require.NoError(t, repo.UpdateSeats(ctx, bus, nil))
		assert.Equal(t, 5, bus.SeatVersion)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale Version", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)
		version := 1

		mock.ExpectQuery(`UPDATE buses SET`).
			WillReturnRows(sqlmock.NewRows([]string{"seat_version", "updated_at"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("bus-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.UpdateSeats(ctx, bus, &version)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Bus", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)

		mock.ExpectQuery(`UPDATE buses SET`).
			WillReturnRows(sqlmock.NewRows([]string{"seat_version", "updated_at"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("bus-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.UpdateSeats(ctx, bus, nil)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBusRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBusRepository(db)
	version := 2

	bus := &models.Bus{ID: "bus-1", BusNumber: "NB-1", Status: models.BusStatusMaintenance}

	mock.ExpectQuery(`UPDATE buses SET (.+) AND seat_version = \$10`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_version", "updated_at"}).AddRow(3, time.Now()))

	require.NoError(t, repo.Update(context.Background(), bus, &version))
	assert.Equal(t, 3, bus.SeatVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM buses ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(busRowColumns).
				AddRow("bus-2", "NB-2", nil, 0, 0, "seater", "0", nil, 1, "active", now, now).
				AddRow("bus-1", "NB-1", "vendor-1", 2, 2, "sleeper", "900", []byte(`[]`), 4, "active", now, now))

		buses, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, buses, 2)
		assert.NotNil(t, buses[0].Seats)
		assert.Empty(t, buses[0].Seats)
		require.NotNil(t, buses[1].VendorID)
		assert.Equal(t, "vendor-1", *buses[1].VendorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBusRepository(db)

		mock.ExpectExec(`DELETE FROM buses WHERE id = \$1`).
			WithArgs("bus-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM buses WHERE id = \$1`).
			WithArgs("bus-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "bus-1"))
		assert.ErrorIs(t, repo.Delete(ctx, "bus-1"), ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
