package dataset

import "errors"

var (
	// ErrLoad is returned when an input table cannot be read.
	ErrLoad = errors.New("dataset load failed")
	// ErrMissingColumn is returned when a required column is absent from a table header.
	ErrMissingColumn = errors.New("required column missing")
)
