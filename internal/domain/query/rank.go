package query

import (
	"cmp"
	"slices"

	"github.com/okian/combine/internal/domain/model"
)

// ClampTopN bounds n into [minN, maxN].
func ClampTopN(n, minN, maxN int) int {
	if maxN < minN {
		maxN = minN
	}
	switch {
	case n < minN:
		return minN
	case n > maxN:
		return maxN
	default:
		return n
	}
}

// Rank drops records missing metric, orders the rest best-first by the metric's
// fixed direction and keeps the first n. Ties keep table order.
func Rank(records []model.Record, metric model.Metric, n int) []model.Record {
	if n <= 0 {
		return []model.Record{}
	}
	present := make([]model.Record, 0, len(records))
	for i := range records {
		if _, ok := records[i].Value(metric); ok {
			present = append(present, records[i])
		}
	}
	lowerBetter := metric.LowerIsBetter()
	slices.SortStableFunc(present, func(x, y model.Record) int {
		a, _ := x.Value(metric)
		b, _ := y.Value(metric)
		if lowerBetter {
			return cmp.Compare(a, b)
		}
		return cmp.Compare(b, a)
	})
	if len(present) > n {
		present = present[:n]
	}
	return present
}
