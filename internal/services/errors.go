package services

import "errors"

// Service errors
var (
	// ErrNoCleanTables is returned when no delivery_<date>.csv exists yet.
	ErrNoCleanTables = errors.New("no clean delivery tables found")
)
