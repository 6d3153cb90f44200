package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as plain JSON numbers, same as the admin UI sends them
	decimal.MarshalJSONWithoutQuotes = true
}

// SeatType represents the position category of a seat
type SeatType string

const (
	SeatTypeWindow SeatType = "window"
	SeatTypeAisle  SeatType = "aisle"
	SeatTypeMiddle SeatType = "middle"
	SeatTypeDriver SeatType = "driver"
)

// SeatClass represents the fare class of a seat
type SeatClass string

const (
	SeatClassEconomic SeatClass = "economic"
	SeatClassBusiness SeatClass = "business"
	SeatClassPremium  SeatClass = "premium"
	SeatClassVIP      SeatClass = "vip"
)

// Seat is a single seat of a bus seat template.
// SeatNumber is derived from Row and Column and is recomputed on every write.
type Seat struct {
	Row        int             `json:"row"`
	Column     int             `json:"column"`
	SeatNumber int             `json:"seat_number"`
	Price      decimal.Decimal `json:"price"`
	SeatType   SeatType        `json:"seat_type"`
	SeatClass  SeatClass       `json:"seat_class"`
	IsRecliner *int            `json:"is_recliner,omitempty"` // 0 or 1, nil when not set
	IsSleeper  *int            `json:"is_sleeper,omitempty"`  // 0 or 1, nil when not set
}

// Clone returns a copy of the seat that shares no pointers with the original
func (s Seat) Clone() Seat {
	out := s
	if s.IsRecliner != nil {
		v := *s.IsRecliner
		out.IsRecliner = &v
	}
	if s.IsSleeper != nil {
		v := *s.IsSleeper
		out.IsSleeper = &v
	}
	return out
}

// Flag returns a pointer to a 0/1 seat flag
func Flag(set bool) *int {
	v := 0
	if set {
		v = 1
	}
	return &v
}

// SeatList is the JSONB representation of a bus seat template
type SeatList []Seat

// Value implements the driver.Valuer interface
func (l SeatList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]Seat(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode seats: %w", err)
	}
	return b, nil
}

// Scan implements the sql.Scanner interface
func (l *SeatList) Scan(src interface{}) error {
	if src == nil {
		*l = SeatList{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported seats column type %T", src)
	}

	var seats []Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return fmt.Errorf("failed to decode seats: %w", err)
	}
	*l = seats
	return nil
}

// SeatDraft is the editable form of a seat as submitted by the seat editor.
// Row and column come from the URL; seat_number is never taken from the client.
type SeatDraft struct {
	Price      *decimal.Decimal `json:"price"`
	SeatType   *SeatType        `json:"seat_type"`
	SeatClass  *SeatClass       `json:"seat_class"`
	IsRecliner *int             `json:"is_recliner" binding:"omitempty,oneof=0 1"`
	IsSleeper  *int             `json:"is_sleeper" binding:"omitempty,oneof=0 1"`
	// SeatVersion, when set, must match the bus's current seat version
	SeatVersion *int `json:"seat_version"`
}

// SeatCell is one cell of a rendered seat layout
type SeatCell struct {
	Row        int            `json:"row"`
	Column     int            `json:"column"`
	Label      string         `json:"label"`
	SeatNumber int            `json:"seat_number"`
	Seat       *Seat          `json:"seat,omitempty"`
	TripSeat   *TripSeatPrice `json:"trip_seat,omitempty"`
	Complete   *bool          `json:"complete,omitempty"`
}

// SeatLayoutRow is a single bus row split around the aisle
type SeatLayoutRow struct {
	RowNumber  int        `json:"row_number"`
	RowLabel   string     `json:"row_label"`
	LeftSeats  []SeatCell `json:"left_seats"`
	RightSeats []SeatCell `json:"right_seats"`
}

// SeatLayout is the two-sided visual layout of a bus
type SeatLayout struct {
	Rows         []SeatLayoutRow `json:"rows"`
	LeftColumns  int             `json:"left_columns"`
	RightColumns int             `json:"right_columns"`
}

// SeatGridPreview is returned by the grid preview endpoint
type SeatGridPreview struct {
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	TotalSeats int        `json:"total_seats"`
	Seats      []Seat     `json:"seats"`
	Layout     SeatLayout `json:"layout"`
}

// SeatLabelInfo is the decoded form of a seat label such as "B3"
type SeatLabelInfo struct {
	Label      string `json:"label"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	SeatNumber int    `json:"seat_number"`
}
