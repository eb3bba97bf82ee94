package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownMetric = errors.New("unknown metric")
)
