package services

import (
	"fmt"

	"github.com/smarttransit/seat-admin/internal/models"
)

// NewTripWorkingSet copies a bus seat template into a trip working set with
// every seat available. The copy shares nothing with the bus template.
func NewTripWorkingSet(busSeats []models.Seat) []models.TripWorkingSeat {
	working := make([]models.TripWorkingSeat, 0, len(busSeats))
	for _, seat := range busSeats {
		working = append(working, models.TripWorkingSeat{
			Seat:   seat.Clone(),
			Status: models.TripSeatStatusAvailable,
		})
	}
	return working
}

// BuildTicketPricePerSeat converts a working set into the trip payload,
// renaming the template's price to ticket_price.
func BuildTicketPricePerSeat(working []models.TripWorkingSeat) []models.TripSeatPrice {
	prices := make([]models.TripSeatPrice, 0, len(working))
	for _, seat := range working {
		status := seat.Status
		if status == "" {
			status = models.TripSeatStatusAvailable
		}
		prices = append(prices, models.TripSeatPrice{
			SeatNumber:  seat.SeatNumber,
			TicketPrice: seat.Price,
			Status:      status,
		})
	}
	return prices
}

// ApplyTripSeatEdit applies a single seat edit on top of the current trip set.
// Fields left nil keep their current value; an unknown seat starts available.
func ApplyTripSeatEdit(prices []models.TripSeatPrice, seatNumber int, req models.EditTripSeatPriceRequest) []models.TripSeatPrice {
	edit := models.TripSeatPrice{
		SeatNumber: seatNumber,
		Status:     models.TripSeatStatusAvailable,
	}
	for _, p := range prices {
		if p.SeatNumber == seatNumber {
			edit = p
			break
		}
	}

	if req.TicketPrice != nil {
		edit.TicketPrice = *req.TicketPrice
	}
	if req.Status != nil {
		edit.Status = *req.Status
	}

	return UpsertTripSeatPrice(prices, edit)
}

// normalizeTripSeatPrices stamps the trip id and collapses duplicate seat
// numbers, the last entry for a seat wins. An empty status means available.
func normalizeTripSeatPrices(tripID string, prices []models.TripSeatPrice) ([]models.TripSeatPrice, error) {
	out := make([]models.TripSeatPrice, 0, len(prices))
	for _, p := range prices {
		p.TripID = tripID
		if p.Status == "" {
			p.Status = models.TripSeatStatusAvailable
		}
		if err := validateTripSeatPrice(p); err != nil {
			return nil, err
		}
		out = UpsertTripSeatPrice(out, p)
	}
	return out, nil
}

func validateTripSeatPrice(p models.TripSeatPrice) error {
	switch {
	case p.SeatNumber <= 0:
		return fmt.Errorf("%w: seat number %d", ErrInvalidSeatPosition, p.SeatNumber)
	case p.TicketPrice.IsNegative():
		return fmt.Errorf("%w: seat %d", ErrNegativePrice, p.SeatNumber)
	case p.Status != models.TripSeatStatusAvailable && p.Status != models.TripSeatStatusUnavailable:
		return fmt.Errorf("%w: %q on seat %d", ErrInvalidTripSeatStatus, p.Status, p.SeatNumber)
	}
	return nil
}
