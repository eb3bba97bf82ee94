// Package probe checks a running combine server end to end: rankings must be
// ordered by each drill's direction and percentiles must stay within bounds.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Pairs   int           // Number of player pairs to compare
	Workers int           // Number of concurrent comparison requests
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every checked view
}

// Stats summarizes a probe run.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	RankingsChecked    int
	PerformersChecked  int
	ComparisonsChecked int
	PercentilesChecked int
	UndefinedScores    int
	Failures           []string
}

// Failed reports whether any check failed.
func (s *Stats) Failed() bool { return len(s.Failures) > 0 }
