package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrIneligible is returned when a compared player is unknown or lacks complete drill data.
	ErrIneligible = errors.New("player not eligible for comparison")
	// ErrNotStarted is returned by queries issued before Start succeeded.
	ErrNotStarted = errors.New("service not started")
)
