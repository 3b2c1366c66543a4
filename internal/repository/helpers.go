package repository

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformed is returned when stored data exists but cannot be decoded.
	// Callers treat it as "no data" after logging a warning.
	ErrMalformed = errors.New("malformed data")
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
