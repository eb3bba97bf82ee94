package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotLoaded      = errors.New("dataset not loaded")
	ErrAlreadyLoaded  = errors.New("dataset already loaded")
	ErrPlayerNotFound = errors.New("player not found")
)
