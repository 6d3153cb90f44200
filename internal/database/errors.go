package database

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when an expected seat_version no longer matches
	ErrVersionConflict = errors.New("seat version conflict")
)
