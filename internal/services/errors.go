package services

import "errors"

var (
	ErrBusNotFound               = errors.New("bus not found")
	ErrTripNotFound              = errors.New("trip not found")
	ErrBusRequired               = errors.New("bus_id is required")
	ErrVersionConflict           = errors.New("seat set was modified by another request")
	ErrGridTooLarge              = errors.New("seat grid exceeds supported dimensions")
	ErrInvalidSeatLabel          = errors.New("invalid seat label")
	ErrInvalidSeatPosition       = errors.New("seat position is outside the bus grid")
	ErrSeatManagementUnavailable = errors.New("seat management is unavailable for this trip")
	ErrNegativePrice             = errors.New("price must not be negative")
	ErrInvalidTripSeatStatus     = errors.New("trip seat status must be available or unavailable")
)
