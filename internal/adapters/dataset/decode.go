package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/combine/internal/domain/model"
)

// Canonical column names.
const (
	ColPlayer   = "player"
	ColPosition = "position"
	ColSchool   = "school"
	ColYear     = "year"
	ColWeight   = "weight"

	ColDisplayName = "display_name"
	ColHeadshot    = "headshot"
)

// CombineColumns lists the columns every combine table must carry.
func CombineColumns() []string {
	cols := []string{ColPlayer, ColPosition, ColSchool, ColYear, ColWeight}
	for _, m := range model.Metrics() {
		cols = append(cols, string(m))
	}
	return cols
}

// Player is one row of the metadata table.
type Player struct {
	Name     string
	Portrait string
}

// ParseNumber coerces a cell to a measure. Anything unparseable is null.
func ParseNumber(s string) model.Measure {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Null()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Null()
	}
	return model.MeasureOf(v)
}

// ParseYear returns the year in s, or 0 when it is missing, fractional or not positive.
func ParseYear(s string) int {
	ms := ParseNumber(s)
	if !ms.Valid || ms.Value <= 0 || ms.Value != math.Trunc(ms.Value) || ms.Value > math.MaxInt32 {
		return 0
	}
	return int(ms.Value)
}

func decodeRecords(t *table) ([]model.Record, error) {
	idx, err := t.require(CombineColumns()...)
	if err != nil {
		return nil, err
	}
	metrics := model.Metrics()
	out := make([]model.Record, 0, len(t.rows))
	for _, row := range t.rows {
		r := model.Record{
			Player:      cell(row, idx[0]),
			Position:    cell(row, idx[1]),
			Institution: cell(row, idx[2]),
			Year:        ParseYear(cell(row, idx[3])),
			Weight:      ParseNumber(cell(row, idx[4])),
		}
		for i, m := range metrics {
			r.Set(m, ParseNumber(cell(row, idx[5+i])))
		}
		out = append(out, r)
	}
	return out, nil
}

func decodePlayers(t *table) ([]Player, error) {
	idx, err := t.require(ColDisplayName, ColHeadshot)
	if err != nil {
		return nil, err
	}
	out := make([]Player, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, Player{
			Name:     cell(row, idx[0]),
			Portrait: strings.TrimSpace(cell(row, idx[1])),
		})
	}
	return out, nil
}
