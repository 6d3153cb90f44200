package services

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/smarttransit/seat-admin/internal/models"
)

const (
	// MaxSeatRows is the last row that still has a single letter label (Z)
	MaxSeatRows = 26
	// MaxSeatColumns keeps "{row}{column}" seat numbers unique across the grid
	MaxSeatColumns = 9
)

// SeatNumber concatenates row and column as decimal digits (1,2 -> 12; 12,3 -> 123)
func SeatNumber(row, column int) int {
	n, err := strconv.Atoi(strconv.Itoa(row) + strconv.Itoa(column))
	if err != nil {
		return 0
	}
	return n
}

// ValidateGridDimensions rejects grids whose seat labels or numbers would be ambiguous
func ValidateGridDimensions(rows, columns int) error {
	if rows > MaxSeatRows {
		return fmt.Errorf("%w: rows (%d) must not exceed %d", ErrGridTooLarge, rows, MaxSeatRows)
	}
	if columns > MaxSeatColumns {
		return fmt.Errorf("%w: columns (%d) must not exceed %d", ErrGridTooLarge, columns, MaxSeatColumns)
	}
	return nil
}

// GenerateSeats builds the default seat template for a rows x columns bus.
// A grid that is not configured yet (rows or columns <= 0) yields no seats and no error.
func GenerateSeats(rows, columns int, basePrice decimal.Decimal) ([]models.Seat, error) {
	if rows <= 0 || columns <= 0 {
		return nil, nil
	}
	if err := ValidateGridDimensions(rows, columns); err != nil {
		return nil, err
	}

	seats := make([]models.Seat, 0, rows*columns)
	for row := 1; row <= rows; row++ {
		for column := 1; column <= columns; column++ {
			seatType := models.SeatTypeMiddle
			if column == 1 || column == columns {
				seatType = models.SeatTypeWindow
			}

			seats = append(seats, models.Seat{
				Row:        row,
				Column:     column,
				SeatNumber: SeatNumber(row, column),
				Price:      basePrice,
				SeatType:   seatType,
				SeatClass:  models.SeatClassEconomic,
				IsRecliner: models.Flag(false),
				IsSleeper:  models.Flag(false),
			})
		}
	}

	return seats, nil
}

// EnsureSeats generates a template only when the existing one is empty,
// so operator edits survive a re-render with the same rows and columns.
func EnsureSeats(existing []models.Seat, rows, columns int, basePrice decimal.Decimal) ([]models.Seat, error) {
	if len(existing) > 0 {
		return existing, nil
	}
	return GenerateSeats(rows, columns, basePrice)
}

// AisleSplit returns how many columns sit left and right of the aisle
func AisleSplit(columns int) (left, right int) {
	switch columns {
	case 2:
		return 1, 1
	case 3:
		return 1, 2
	case 4:
		return 2, 2
	case 5:
		return 2, 3
	}
	if columns <= 0 {
		return 0, 0
	}
	left = columns / 2
	return left, columns - left
}
