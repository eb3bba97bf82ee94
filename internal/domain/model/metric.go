// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Direction tells whether a lower or a higher raw value is the better performance.
type Direction int

// Metric directions.
const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower_is_better"
	}
	return "higher_is_better"
}

// Metric names a combine drill.
type Metric string

// The fixed drill set. Order is the display order everywhere.
const (
	Forty     Metric = "forty"
	Vertical  Metric = "vertical"
	Bench     Metric = "bench"
	BroadJump Metric = "broad_jump"
	ThreeCone Metric = "threecone"
	Shuttle   Metric = "shuttle"
)

// MetricInfo describes a drill for selectors and tables.
type MetricInfo struct {
	Metric    Metric
	Label     string
	Qualifier string
	Direction Direction
}

// SelectorLabel is the label shown in metric pickers, e.g. "40 Yard Dash (Fastest)".
func (mi MetricInfo) SelectorLabel() string {
	return mi.Label + " (" + mi.Qualifier + ")"
}

var catalog = []MetricInfo{
	{Metric: Forty, Label: "40 Yard Dash", Qualifier: "Fastest", Direction: LowerIsBetter},
	{Metric: Vertical, Label: "Vertical Jump", Qualifier: "Highest", Direction: HigherIsBetter},
	{Metric: Bench, Label: "Bench Press", Qualifier: "Most Reps", Direction: HigherIsBetter},
	{Metric: BroadJump, Label: "Broad Jump", Qualifier: "Highest", Direction: HigherIsBetter},
	{Metric: ThreeCone, Label: "3 Cone Drill", Qualifier: "Fastest", Direction: LowerIsBetter},
	{Metric: Shuttle, Label: "Shuttle", Qualifier: "Fastest", Direction: LowerIsBetter},
}

// metricIndex maps a metric to its slot in Record.Measures.
var metricIndex = func() map[Metric]int {
	idx := make(map[Metric]int, len(catalog))
	for i, mi := range catalog {
		idx[mi.Metric] = i
	}
	return idx
}()

// NumMetrics is the size of the drill set.
const NumMetrics = 6

// Catalog returns a copy of the drill set in display order.
func Catalog() []MetricInfo {
	out := make([]MetricInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Metrics returns the drill names in display order.
func Metrics() []Metric {
	out := make([]Metric, len(catalog))
	for i, mi := range catalog {
		out[i] = mi.Metric
	}
	return out
}

// Info returns the catalog entry for m.
func (m Metric) Info() (MetricInfo, bool) {
	i, ok := metricIndex[m]
	if !ok {
		return MetricInfo{}, false
	}
	return catalog[i], true
}

// Direction returns the fixed direction of m. Unknown metrics are higher-is-better.
func (m Metric) Direction() Direction {
	mi, _ := m.Info()
	return mi.Direction
}

// LowerIsBetter reports whether m belongs to the inverted subset.
func (m Metric) LowerIsBetter() bool {
	return m.Direction() == LowerIsBetter
}

// Label returns the display label, falling back to the raw name.
func (m Metric) Label() string {
	if mi, ok := m.Info(); ok {
		return mi.Label
	}
	return string(m)
}

// ParseMetric resolves a metric from its name or selector label (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, mi := range catalog {
		if key == string(mi.Metric) || key == strings.ToLower(mi.Label) || key == strings.ToLower(mi.SelectorLabel()) {
			return mi.Metric, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}
