package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smarttransit/seat-admin/internal/models"
)

// SeatLabel builds the operator-facing label of a seat ("B3" for row 2, column 3)
func SeatLabel(row, column int) string {
	return RowLabel(row) + strconv.Itoa(column)
}

// DecodeSeatLabel turns a label such as "B3" back into row, column and seat number.
// Only single letter rows A-Z are accepted.
func DecodeSeatLabel(label string) (row, column, seatNumber int, err error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatLabel, label)
	}

	letter := label[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, 0, fmt.Errorf("%w: %q has no row letter", ErrInvalidSeatLabel, label)
	}
	row = int(letter) - 64

	digits := label[1:]
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, 0, 0, fmt.Errorf("%w: %q has a malformed column", ErrInvalidSeatLabel, label)
		}
	}
	column, err = strconv.Atoi(digits)
	if err != nil || column <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: %q has a malformed column", ErrInvalidSeatLabel, label)
	}

	return row, column, SeatNumber(row, column), nil
}

// OpenSeat returns the editable draft for (row, column). Fields of an existing
// seat are carried over; the seat number is always recomputed.
func OpenSeat(seats []models.Seat, row, column int) models.Seat {
	draft := models.Seat{Row: row, Column: column}
	for _, seat := range seats {
		if seat.Row == row && seat.Column == column {
			draft = seat.Clone()
			break
		}
	}
	draft.SeatNumber = SeatNumber(row, column)
	return draft
}

// ApplySeatDraft merges submitted editor fields into an opened seat
func ApplySeatDraft(seat models.Seat, draft models.SeatDraft) models.Seat {
	out := seat.Clone()
	if draft.Price != nil {
		out.Price = *draft.Price
	}
	if draft.SeatType != nil {
		out.SeatType = *draft.SeatType
	}
	if draft.SeatClass != nil {
		out.SeatClass = *draft.SeatClass
	}
	if draft.IsRecliner != nil {
		v := *draft.IsRecliner
		out.IsRecliner = &v
	}
	if draft.IsSleeper != nil {
		v := *draft.IsSleeper
		out.IsSleeper = &v
	}
	return out
}

// SaveSeat replaces the seat at the draft's (row, column) and returns a new set.
// The replaced seat is removed and the draft appended, so order is not kept.
func SaveSeat(seats []models.Seat, draft models.Seat) []models.Seat {
	draft = draft.Clone()
	draft.SeatNumber = SeatNumber(draft.Row, draft.Column)

	out := make([]models.Seat, 0, len(seats)+1)
	for _, seat := range seats {
		if seat.Row == draft.Row && seat.Column == draft.Column {
			continue
		}
		out = append(out, seat.Clone())
	}
	return append(out, draft)
}

// NormalizeSeats recomputes every seat number from its row and column and
// collapses duplicate positions, the last entry for a position wins. Seats
// outside the rows x columns grid or priced below zero are rejected.
func NormalizeSeats(seats []models.Seat, rows, columns int) ([]models.Seat, error) {
	out := make([]models.Seat, 0, len(seats))
	index := make(map[int]int, len(seats))

	for _, seat := range seats {
		if seat.Row < 1 || seat.Column < 1 || seat.Row > rows || seat.Column > columns {
			return nil, fmt.Errorf("%w: (%d, %d) in a %dx%d grid", ErrInvalidSeatPosition, seat.Row, seat.Column, rows, columns)
		}
		if seat.Price.IsNegative() {
			return nil, fmt.Errorf("%w: seat %s", ErrNegativePrice, SeatLabel(seat.Row, seat.Column))
		}

		seat = seat.Clone()
		seat.SeatNumber = SeatNumber(seat.Row, seat.Column)
		if i, ok := index[seat.SeatNumber]; ok {
			out[i] = seat
			continue
		}
		index[seat.SeatNumber] = len(out)
		out = append(out, seat)
	}
	return out, nil
}

// UpsertTripSeatPrice edits a trip seat keyed on seat number: replaced in
// place when present, appended otherwise.
func UpsertTripSeatPrice(prices []models.TripSeatPrice, edit models.TripSeatPrice) []models.TripSeatPrice {
	out := make([]models.TripSeatPrice, len(prices), len(prices)+1)
	copy(out, prices)

	for i := range out {
		if out[i].SeatNumber == edit.SeatNumber {
			out[i] = edit
			return out
		}
	}
	return append(out, edit)
}
