// Package types contains the wire shapes shared by the HTTP, MCP and CLI surfaces.
package types

// MetricOption describes one selectable drill.
type MetricOption struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Qualifier     string `json:"qualifier"`
	SelectorLabel string `json:"selector_label"`
	Direction     string `json:"direction"`
	LowerIsBetter bool   `json:"lower_is_better"`
}

// TopNBounds is the allowed ranking size range.
type TopNBounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Options enumerates every control value the dashboard offers.
type Options struct {
	Positions      []string       `json:"positions"`
	Metrics        []MetricOption `json:"metrics"`
	YearMin        int            `json:"year_min"`
	YearMax        int            `json:"year_max"`
	DefaultYearMin int            `json:"default_year_min"`
	DefaultYearMax int            `json:"default_year_max"`
	TopN           TopNBounds     `json:"top_n"`
	Players        []string       `json:"players"`
}

// Summary holds the headline counts of a filtered view.
type Summary struct {
	TotalPlayers  int    `json:"total_players"`
	UniqueSchools int    `json:"unique_schools"`
	Positions     int    `json:"positions"`
	YearMin       int    `json:"year_min"`
	YearMax       int    `json:"year_max"`
	Position      string `json:"position"`
}

// Performer is one row of a ranking.
type Performer struct {
	Rank        int      `json:"rank"`
	Player      string   `json:"player"`
	Position    string   `json:"position"`
	Institution string   `json:"institution"`
	Year        int      `json:"year,omitempty"`
	Value       float64  `json:"value"`
	Weight      *float64 `json:"weight,omitempty"`
}

// Ranking is an ordered top-N list for one metric.
type Ranking struct {
	Metric     string      `json:"metric"`
	Label      string      `json:"label"`
	Position   string      `json:"position"`
	YearMin    int         `json:"year_min,omitempty"`
	YearMax    int         `json:"year_max,omitempty"`
	N          int         `json:"n"`
	Performers []Performer `json:"performers"`
}

// Entity is a compared player as shown next to the percentile bars.
type Entity struct {
	Player      string `json:"player"`
	Position    string `json:"position"`
	Institution string `json:"institution"`
	Year        int    `json:"year,omitempty"`
	Portrait    string `json:"portrait"`
}

// Percentile is one drill's standing for both entities. Nil pointers mark
// percentiles that could not be computed.
type Percentile struct {
	Metric    string   `json:"metric"`
	Label     string   `json:"label"`
	AValue    *float64 `json:"a_value"`
	BValue    *float64 `json:"b_value"`
	A         *float64 `json:"a"`
	B         *float64 `json:"b"`
	ARounded  *int     `json:"a_rounded"`
	BRounded  *int     `json:"b_rounded"`
	AOrdinal  string   `json:"a_ordinal"`
	BOrdinal  string   `json:"b_ordinal"`
	PoolSize  int      `json:"pool_size"`
	Direction string   `json:"direction"`
}

// Comparison is the percentile comparison of two players.
type Comparison struct {
	Position  string       `json:"position"`
	A         Entity       `json:"a"`
	B         Entity       `json:"b"`
	Metrics   []Percentile `json:"metrics"`
	Undefined int          `json:"undefined"`
}

// RegionCount is the number of filtered players from one region.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// Regions is the geographic aggregation of a filtered view.
type Regions struct {
	Regions  []RegionCount `json:"regions"`
	Mapped   int           `json:"mapped"`
	Unmapped int           `json:"unmapped"`
}

// PipelineGroup is one institution's distribution on a drill.
type PipelineGroup struct {
	Institution string    `json:"institution"`
	Count       int       `json:"count"`
	Min         float64   `json:"min"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	Max         float64   `json:"max"`
	Mean        float64   `json:"mean"`
	Values      []float64 `json:"values"`
}

// Pipeline is the institution distribution view.
type Pipeline struct {
	Available bool            `json:"available"`
	Message   string          `json:"message,omitempty"`
	Metric    string          `json:"metric"`
	Label     string          `json:"label"`
	Position  string          `json:"position"`
	Groups    []PipelineGroup `json:"groups"`
}

// Players lists the names eligible for comparison.
type Players struct {
	Players []string `json:"players"`
	Count   int      `json:"count"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query selects a view of the dataset. Zero years default to the dataset's
// span, an empty position means all positions, an empty metric is the first
// drill and a zero N is the configured default. Metric accepts a drill name
// or its display label.
type Query struct {
	YearMin  int    `json:"year_min,omitempty"`
	YearMax  int    `json:"year_max,omitempty"`
	Position string `json:"position,omitempty"`
	Metric   string `json:"metric,omitempty"`
	N        int    `json:"n,omitempty"`
}
