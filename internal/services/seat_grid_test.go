package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smarttransit/seat-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatNumber(t *testing.T) {
	tests := []struct {
		row, column, want int
	}{
		{1, 1, 11},
		{1, 2, 12},
		{2, 4, 24},
		{12, 3, 123},
		{26, 9, 269},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeatNumber(tt.row, tt.column))
	}
}

func TestGenerateSeats(t *testing.T) {
	price := decimal.NewFromInt(1500)

	t.Run("full grid", func(t *testing.T) {
		seats, err := GenerateSeats(10, 4, price)
		require.NoError(t, err)
		require.Len(t, seats, 40)

		seen := map[int]bool{}
		for _, seat := range seats {
			assert.Equal(t, SeatNumber(seat.Row, seat.Column), seat.SeatNumber)
			assert.False(t, seen[seat.SeatNumber], "duplicate seat number %d", seat.SeatNumber)
			seen[seat.SeatNumber] = true

			assert.True(t, price.Equal(seat.Price))
			assert.Equal(t, models.SeatClassEconomic, seat.SeatClass)
			require.NotNil(t, seat.IsRecliner)
			require.NotNil(t, seat.IsSleeper)
			assert.Equal(t, 0, *seat.IsRecliner)
			assert.Equal(t, 0, *seat.IsSleeper)

			if seat.Column == 1 || seat.Column == 4 {
				assert.Equal(t, models.SeatTypeWindow, seat.SeatType)
			} else {
				assert.Equal(t, models.SeatTypeMiddle, seat.SeatType)
			}
		}
	})

	t.Run("row-major order", func(t *testing.T) {
		seats, err := GenerateSeats(2, 3, price)
		require.NoError(t, err)

		var numbers []int
		for _, seat := range seats {
			numbers = append(numbers, seat.SeatNumber)
		}
		assert.Equal(t, []int{11, 12, 13, 21, 22, 23}, numbers)
	})

	t.Run("single column is a window", func(t *testing.T) {
		seats, err := GenerateSeats(2, 1, price)
		require.NoError(t, err)
		for _, seat := range seats {
			assert.Equal(t, models.SeatTypeWindow, seat.SeatType)
		}
	})

	t.Run("unset price is zero", func(t *testing.T) {
		seats, err := GenerateSeats(1, 2, decimal.Decimal{})
		require.NoError(t, err)
		for _, seat := range seats {
			assert.True(t, seat.Price.IsZero())
		}
	})

	t.Run("not configured yet", func(t *testing.T) {
		for _, dims := range [][2]int{{0, 4}, {10, 0}, {-1, 4}, {0, 0}} {
			seats, err := GenerateSeats(dims[0], dims[1], price)
			assert.NoError(t, err)
			assert.Empty(t, seats)
		}
	})

	t.Run("grid too large", func(t *testing.T) {
		_, err := GenerateSeats(27, 4, price)
		assert.ErrorIs(t, err, ErrGridTooLarge)

		_, err = GenerateSeats(10, 10, price)
		assert.ErrorIs(t, err, ErrGridTooLarge)
	})

	t.Run("largest grid keeps seat numbers unique", func(t *testing.T) {
		seats, err := GenerateSeats(MaxSeatRows, MaxSeatColumns, price)
		require.NoError(t, err)

		seen := map[int]bool{}
		for _, seat := range seats {
			seen[seat.SeatNumber] = true
		}
		assert.Len(t, seen, MaxSeatRows*MaxSeatColumns)
	})
}

func TestEnsureSeats(t *testing.T) {
	price := decimal.NewFromInt(1000)

	t.Run("keeps edited seats", func(t *testing.T) {
		existing := []models.Seat{{Row: 1, Column: 1, SeatNumber: 11, Price: decimal.NewFromInt(2500), SeatClass: models.SeatClassVIP}}

		seats, err := EnsureSeats(existing, 10, 4, price)
		require.NoError(t, err)
		assert.Equal(t, existing, seats)
	})

	t.Run("generates when empty", func(t *testing.T) {
		seats, err := EnsureSeats(nil, 2, 2, price)
		require.NoError(t, err)
		assert.Len(t, seats, 4)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := EnsureSeats(nil, 3, 3, price)
		require.NoError(t, err)
		second, err := EnsureSeats(first, 3, 3, price)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestAisleSplit(t *testing.T) {
	tests := []struct {
		columns, left, right int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 1, 1},
		{3, 1, 2},
		{4, 2, 2},
		{5, 2, 3},
		{6, 3, 3},
		{7, 3, 4},
	}

	for _, tt := range tests {
		left, right := AisleSplit(tt.columns)
		assert.Equal(t, tt.left, left, "columns=%d", tt.columns)
		assert.Equal(t, tt.right, right, "columns=%d", tt.columns)
		assert.Equal(t, tt.columns, left+right)
	}
}
