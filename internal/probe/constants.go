package probe

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultPairs   = 20
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second
)

// Percentile bounds every defined score must respect.
const (
	minPercentile = 0
	maxPercentile = 100
)
