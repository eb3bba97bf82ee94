// Package percentile compares two entities against their position's peer pool.
//
// For each drill the raw percentile of a value x is the share of peer values
// strictly below x, scaled to 0..100. Peers missing the drill are left out of
// the denominator. For lower-is-better drills the reported percentile is
// 100 - raw, so a higher reported percentile is always the better performance.
//
// The pool includes the entities themselves; strict less-than keeps an entity
// from counting its own value. The pool is always taken from the position of
// the first entity, even when the second entity plays a different position.
package percentile

import (
	"math"
	"strconv"

	"github.com/okian/combine/internal/domain/model"
)

const maxPercentile = 100

// Score is a percentile on the 0..100 scale. An undefined score comes from an
// empty pool or a missing entity value.
type Score struct {
	Value   float64
	Defined bool
}

// Undefined is the sentinel for a percentile that cannot be computed.
var Undefined = Score{}

func defined(v float64) Score { return Score{Value: v, Defined: true} }

// Rounded returns the display value. Halves round to even.
func (s Score) Rounded() (int, bool) {
	if !s.Defined {
		return 0, false
	}
	return int(math.RoundToEven(s.Value)), true
}

// Ordinal renders the rounded score as "87th", or "n/a" when undefined.
func (s Score) Ordinal() string {
	n, ok := s.Rounded()
	if !ok {
		return "n/a"
	}
	return Ordinal(n)
}

// Raw returns the share of values strictly below x, times 100.
func Raw(values []float64, x float64) Score {
	if len(values) == 0 {
		return Undefined
	}
	below := 0
	for _, v := range values {
		if v < x {
			below++
		}
	}
	return defined(float64(below) / float64(len(values)) * maxPercentile)
}

// Report orients a raw percentile so that higher is better for metric.
func Report(metric model.Metric, raw Score) Score {
	if !raw.Defined || !metric.LowerIsBetter() {
		return raw
	}
	return defined(maxPercentile - raw.Value)
}

// PeerValues collects the non-null metric values of records at position.
func PeerValues(records []model.Record, position string, metric model.Metric) []float64 {
	out := make([]float64, 0, len(records))
	for i := range records {
		if records[i].Position != position {
			continue
		}
		if v, ok := records[i].Value(metric); ok {
			out = append(out, v)
		}
	}
	return out
}

// Of returns the reported percentile of r's metric value within values.
func Of(values []float64, r model.Record, metric model.Metric) Score {
	x, ok := r.Value(metric)
	if !ok {
		return Undefined
	}
	return Report(metric, Raw(values, x))
}

// Ordinal formats n with its English suffix. 10 through 20 always take "th".
func Ordinal(n int) string {
	suffix := "th"
	mod100 := n % 100
	if mod100 < 0 {
		mod100 = -mod100
	}
	if mod100 < 10 || mod100 > 20 {
		switch mod100 % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
