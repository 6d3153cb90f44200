package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BerthType represents how the seats of a bus are configured
type BerthType string

const (
	BerthTypeSeater      BerthType = "seater"
	BerthTypeSleeper     BerthType = "sleeper"
	BerthTypeSemiSleeper BerthType = "semi_sleeper"
)

// BusStatus represents the current operational status of a bus
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Bus represents a bus and its seat template
type Bus struct {
	ID          string          `json:"id" db:"id"`
	BusNumber   string          `json:"bus_number" db:"bus_number"`
	VendorID    *string         `json:"vendor_id,omitempty" db:"vendor_id"`
	Rows        int             `json:"rows" db:"seat_rows"`
	Columns     int             `json:"columns" db:"seat_columns"`
	BerthType   BerthType       `json:"berth_type" db:"berth_type"`
	TicketPrice decimal.Decimal `json:"ticket_price" db:"ticket_price"`
	Seats       SeatList        `json:"seats" db:"seats"`
	SeatVersion int             `json:"seat_version" db:"seat_version"`
	Status      BusStatus       `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// BusResponse is a bus with its rendered seat layout
type BusResponse struct {
	Bus
	Layout SeatLayout `json:"layout"`
}

// CreateBusRequest represents the request to create a new bus.
// The admin UI posts it as multipart form data with seats as a JSON string.
type CreateBusRequest struct {
	BusNumber   string      `json:"bus_number" form:"bus_number" binding:"required"`
	VendorID    *string     `json:"vendor_id" form:"vendor_id"`
	Rows        int         `json:"rows" form:"rows" binding:"gte=0"`
	Columns     int         `json:"columns" form:"columns" binding:"gte=0"`
	BerthType   string      `json:"berth_type" form:"berth_type"`
	TicketPrice json.Number `json:"ticket_price" form:"ticket_price"`
	Seats       string      `json:"seats" form:"seats"` // JSON encoded []Seat
	Status      *string     `json:"status" form:"status"`
}

// UpdateBusRequest represents the request to update a bus
type UpdateBusRequest struct {
	BusNumber   *string     `json:"bus_number" form:"bus_number"`
	VendorID    *string     `json:"vendor_id" form:"vendor_id"`
	Rows        *int        `json:"rows" form:"rows" binding:"omitempty,gte=0"`
	Columns     *int        `json:"columns" form:"columns" binding:"omitempty,gte=0"`
	BerthType   *string     `json:"berth_type" form:"berth_type"`
	TicketPrice json.Number `json:"ticket_price" form:"ticket_price"`
	Seats       *string     `json:"seats" form:"seats"`
	Status      *string     `json:"status" form:"status"`
	SeatVersion *int        `json:"seat_version" form:"seat_version"`
}

// UpdateBusSeatsRequest is the seat-only update sent by the seat manager
type UpdateBusSeatsRequest struct {
	BusID       string `json:"bus_id" binding:"required"`
	Rows        int    `json:"rows" binding:"gte=0"`
	Columns     int    `json:"columns" binding:"gte=0"`
	Seats       string `json:"seats"` // JSON encoded []Seat
	BerthType   string `json:"berth_type"`
	SeatVersion *int   `json:"seat_version"`
}

// ParseSeats decodes a JSON encoded seat array. An empty string is an empty template.
func ParseSeats(raw string) ([]Seat, error) {
	if raw == "" {
		return []Seat{}, nil
	}
	var seats []Seat
	if err := json.Unmarshal([]byte(raw), &seats); err != nil {
		return nil, errors.New("seats must be a JSON encoded seat array")
	}
	return seats, nil
}

// ParsePrice decodes an optional price field
func ParsePrice(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, errors.New("invalid ticket_price")
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("ticket_price must not be negative")
	}
	return price, nil
}

func validBerthType(v string) bool {
	switch BerthType(v) {
	case BerthTypeSeater, BerthTypeSleeper, BerthTypeSemiSleeper:
		return true
	}
	return false
}

func validBusStatus(v string) bool {
	switch BusStatus(v) {
	case BusStatusActive, BusStatusMaintenance, BusStatusInactive:
		return true
	}
	return false
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	if req.BerthType != "" && !validBerthType(req.BerthType) {
		return errors.New("invalid berth_type: must be seater, sleeper, or semi_sleeper")
	}

	if req.Status != nil && !validBusStatus(*req.Status) {
		return errors.New("invalid status: must be active, maintenance, or inactive")
	}

	if _, err := ParsePrice(req.TicketPrice); err != nil {
		return err
	}

	if _, err := ParseSeats(req.Seats); err != nil {
		return err
	}

	return nil
}

// Validate validates the UpdateBusRequest
func (req *UpdateBusRequest) Validate() error {
	if req.BusNumber != nil && *req.BusNumber == "" {
		return errors.New("bus_number cannot be empty")
	}

	if req.BerthType != nil && *req.BerthType != "" && !validBerthType(*req.BerthType) {
		return errors.New("invalid berth_type: must be seater, sleeper, or semi_sleeper")
	}

	if req.Status != nil && !validBusStatus(*req.Status) {
		return errors.New("invalid status: must be active, maintenance, or inactive")
	}

	if _, err := ParsePrice(req.TicketPrice); err != nil {
		return err
	}

	if req.Seats != nil {
		if _, err := ParseSeats(*req.Seats); err != nil {
			return err
		}
	}

	return nil
}

// Validate validates the UpdateBusSeatsRequest
func (req *UpdateBusSeatsRequest) Validate() error {
	if req.BerthType != "" && !validBerthType(req.BerthType) {
		return errors.New("invalid berth_type: must be seater, sleeper, or semi_sleeper")
	}

	_, err := ParseSeats(req.Seats)
	return err
}
