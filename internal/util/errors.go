package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required resource (file, song) was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration or source manifest
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformed indicates a source line that does not follow its grammar
	ErrMalformed = errors.New("malformed line")

	// ErrNoRecords indicates a book file without a single record-start line
	ErrNoRecords = errors.New("no records")
)
