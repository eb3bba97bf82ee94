// Package query shapes the immutable record table into the views the dashboard shows:
// filtered subsets, top-N rankings and summary counts.
package query

import (
	"sort"

	"github.com/okian/combine/internal/domain/model"
)

// AllPositions is the position selector sentinel meaning "no position filter".
const AllPositions = "All"

// Criteria selects a working subset. Year bounds are inclusive.
type Criteria struct {
	YearMin  int
	YearMax  int
	Position string
}

// AllPositionsSelected reports whether the position filter is off.
func (c Criteria) AllPositionsSelected() bool {
	return c.Position == "" || c.Position == AllPositions
}

// Filter returns the records inside the year range and, unless the sentinel is
// selected, with exactly the requested position. Records without a year never
// match a year range. The result never aliases the input slice.
func Filter(records []model.Record, c Criteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		if !r.HasYear() || r.Year < c.YearMin || r.Year > c.YearMax {
			continue
		}
		if !c.AllPositionsSelected() && r.Position != c.Position {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// ByPosition returns the records whose position equals position exactly.
// The sentinel returns a copy of all records.
func ByPosition(records []model.Record, position string) []model.Record {
	out := make([]model.Record, 0, len(records))
	for i := range records {
		if position == "" || position == AllPositions || records[i].Position == position {
			out = append(out, records[i])
		}
	}
	return out
}

// Positions returns the distinct non-empty positions, sorted.
func Positions(records []model.Record) []string {
	seen := make(map[string]struct{})
	for i := range records {
		if p := records[i].Position; p != "" {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// YearBounds returns the smallest and largest known year.
func YearBounds(records []model.Record) (minYear, maxYear int, ok bool) {
	for i := range records {
		y := records[i].Year
		if y <= 0 {
			continue
		}
		if !ok {
			minYear, maxYear, ok = y, y, true
			continue
		}
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear, ok
}
