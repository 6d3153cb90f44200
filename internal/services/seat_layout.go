package services

import (
	"github.com/smarttransit/seat-admin/internal/models"
)

// LayoutMode selects how a bus layout is rendered
type LayoutMode int

const (
	// LayoutReadOnly renders seats without editor hints
	LayoutReadOnly LayoutMode = iota
	// LayoutEditor additionally marks each seat cell complete or incomplete
	LayoutEditor
)

// RowLabel converts a 1-based row number to its letter (1->A, 2->B)
func RowLabel(row int) string {
	if row <= 0 {
		return ""
	}
	return string(rune('A' + row - 1))
}

// IsSeatComplete reports whether all editor fields of a seat are filled in.
// Incomplete seats are still valid and saveable.
func IsSeatComplete(seat models.Seat) bool {
	return seat.Price.IsPositive() &&
		seat.SeatType != "" &&
		seat.SeatClass != "" &&
		seat.IsRecliner != nil &&
		seat.IsSleeper != nil
}

// RenderBusLayout maps a seat template onto the two-sided aisle layout
func RenderBusLayout(rows, columns int, seats []models.Seat, mode LayoutMode) models.SeatLayout {
	index := make(map[[2]int]models.Seat, len(seats))
	for _, seat := range seats {
		index[[2]int{seat.Row, seat.Column}] = seat
	}

	return renderLayout(rows, columns, func(cell *models.SeatCell) {
		seat, ok := index[[2]int{cell.Row, cell.Column}]
		if !ok {
			return
		}
		seat = seat.Clone()
		cell.Seat = &seat
		if mode == LayoutEditor {
			complete := IsSeatComplete(seat)
			cell.Complete = &complete
		}
	})
}

// RenderTripLayout renders the read-only trip view of a bus grid. A physical
// seat with no trip price entry renders as an empty cell.
func RenderTripLayout(rows, columns int, prices []models.TripSeatPrice) models.SeatLayout {
	index := make(map[int]models.TripSeatPrice, len(prices))
	for _, p := range prices {
		index[p.SeatNumber] = p
	}

	return renderLayout(rows, columns, func(cell *models.SeatCell) {
		if p, ok := index[cell.SeatNumber]; ok {
			cell.TripSeat = &p
		}
	})
}

func renderLayout(rows, columns int, fill func(cell *models.SeatCell)) models.SeatLayout {
	left, right := AisleSplit(columns)
	layout := models.SeatLayout{
		Rows:         []models.SeatLayoutRow{},
		LeftColumns:  left,
		RightColumns: right,
	}
	if rows <= 0 || columns <= 0 {
		return layout
	}

	for row := 1; row <= rows; row++ {
		layoutRow := models.SeatLayoutRow{
			RowNumber:  row,
			RowLabel:   RowLabel(row),
			LeftSeats:  make([]models.SeatCell, 0, left),
			RightSeats: make([]models.SeatCell, 0, right),
		}

		for column := 1; column <= columns; column++ {
			cell := models.SeatCell{
				Row:        row,
				Column:     column,
				Label:      SeatLabel(row, column),
				SeatNumber: SeatNumber(row, column),
			}
			fill(&cell)

			if column <= left {
				layoutRow.LeftSeats = append(layoutRow.LeftSeats, cell)
			} else {
				layoutRow.RightSeats = append(layoutRow.RightSeats, cell)
			}
		}

		layout.Rows = append(layout.Rows, layoutRow)
	}

	return layout
}
