package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripStatus represents the lifecycle status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusCompleted TripStatus = "completed"
)

// TripSeatStatus represents trip-scoped booking eligibility of a seat
type TripSeatStatus string

const (
	TripSeatStatusAvailable   TripSeatStatus = "available"
	TripSeatStatusUnavailable TripSeatStatus = "unavailable"
)

// Trip represents a scheduled run of a bus
type Trip struct {
	ID                 string          `json:"id" db:"id"`
	BusID              *string         `json:"bus_id" db:"bus_id"`
	VendorID           string          `json:"vendor_id" db:"vendor_id"`
	DriverID           string          `json:"driver_id" db:"driver_id"`
	RouteID            *string         `json:"route_id,omitempty" db:"route_id"`
	DepartureTime      time.Time       `json:"departure_time" db:"departure_time"`
	ArrivalTime        *time.Time      `json:"arrival_time,omitempty" db:"arrival_time"`
	TicketPrice        decimal.Decimal `json:"ticket_price" db:"ticket_price"`
	TotalSeats         int             `json:"total_seats" db:"total_seats"`
	Status             TripStatus      `json:"status" db:"status"`
	SeatVersion        int             `json:"seat_version" db:"seat_version"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
	TicketPricePerSeat []TripSeatPrice `json:"ticket_price_per_seat" db:"-"`
}

// CanManageSeats reports whether trip-scoped seat editing is available
func (t *Trip) CanManageSeats() bool {
	return t != nil && t.BusID != nil && *t.BusID != ""
}

// TripSeatPrice is the trip-level price and availability of one seat.
// It is copied from the bus template when the trip is created and is
// never synced back to the bus afterwards.
type TripSeatPrice struct {
	TripID      string          `json:"-" db:"trip_id"`
	SeatNumber  int             `json:"seat_number" db:"seat_number"`
	TicketPrice decimal.Decimal `json:"ticket_price" db:"ticket_price"`
	Status      TripSeatStatus  `json:"status" db:"status" binding:"omitempty,oneof=available unavailable"`
}

// TripWorkingSeat is a bus template seat carried into a trip being created
type TripWorkingSeat struct {
	Seat
	Status TripSeatStatus `json:"status"`
}

// TripResponse is a trip with its read-only seat layout
type TripResponse struct {
	Trip
	Layout *SeatLayout `json:"layout,omitempty"`
}

// CreateTripRequest represents the request to create a trip from a bus
type CreateTripRequest struct {
	BusID              string           `json:"bus_id" binding:"required"`
	VendorID           string           `json:"vendor_id" binding:"required"`
	DriverID           string           `json:"driver_id" binding:"required"`
	RouteID            *string          `json:"route_id"`
	DepartureTime      time.Time        `json:"departure_time" binding:"required"`
	ArrivalTime        *time.Time       `json:"arrival_time"`
	TicketPrice        *decimal.Decimal `json:"ticket_price"`
	TicketPricePerSeat []TripSeatPrice  `json:"ticket_price_per_seat" binding:"dive"`
}

// UpdateTripRequest represents a trip edit. The full seat price set is
// always written back; when it is omitted the stored set is re-submitted.
type UpdateTripRequest struct {
	DriverID           *string          `json:"driver_id"`
	RouteID            *string          `json:"route_id"`
	DepartureTime      *time.Time       `json:"departure_time"`
	ArrivalTime        *time.Time       `json:"arrival_time"`
	TicketPrice        *decimal.Decimal `json:"ticket_price"`
	Status             *string          `json:"status" binding:"omitempty,oneof=scheduled cancelled completed"`
	TicketPricePerSeat []TripSeatPrice  `json:"ticket_price_per_seat" binding:"dive"`
	SeatVersion        *int             `json:"seat_version"`
}

// SaveTripSeatPricesRequest is the dedicated "save seat changes" payload
type SaveTripSeatPricesRequest struct {
	TripID             string          `json:"trip_id" binding:"required"`
	TicketPricePerSeat []TripSeatPrice `json:"ticket_price_per_seat" binding:"required,dive"`
	SeatVersion        *int            `json:"seat_version"`
}

// EditTripSeatPriceRequest edits a single trip seat
type EditTripSeatPriceRequest struct {
	TicketPrice *decimal.Decimal `json:"ticket_price"`
	Status      *TripSeatStatus  `json:"status" binding:"omitempty,oneof=available unavailable"`
	SeatVersion *int             `json:"seat_version"`
}
