package probe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/combine/internal/domain/query"
	"github.com/okian/combine/internal/domain/types"
)

// Verification failures.
var (
	ErrOrder      = errors.New("ranking out of order")
	ErrBounds     = errors.New("value out of bounds")
	ErrInconsist  = errors.New("inconsistent response")
	ErrRankNumber = errors.New("rank numbers not sequential")
)

// verifyRanking checks size bounds, sequential ranks and drill-direction order.
func verifyRanking(r types.Ranking, lowerIsBetter bool, bounds types.TopNBounds) error {
	if r.N < bounds.Min || r.N > bounds.Max {
		return fmt.Errorf("%w: n=%d outside [%d, %d]", ErrBounds, r.N, bounds.Min, bounds.Max)
	}
	if len(r.Performers) > r.N {
		return fmt.Errorf("%w: %d performers for n=%d", ErrBounds, len(r.Performers), r.N)
	}
	for i, p := range r.Performers {
		if p.Rank != i+1 {
			return fmt.Errorf("%w: row %d has rank %d", ErrRankNumber, i, p.Rank)
		}
		if r.Position != "" && r.Position != query.AllPositions && p.Position != r.Position {
			return fmt.Errorf("%w: %s is %s in a %s ranking", ErrInconsist, p.Player, p.Position, r.Position)
		}
		if r.YearMin > 0 && p.Year > 0 && (p.Year < r.YearMin || p.Year > r.YearMax) {
			return fmt.Errorf("%w: %s year %d outside %d-%d", ErrInconsist, p.Player, p.Year, r.YearMin, r.YearMax)
		}
		if i == 0 {
			continue
		}
		prev := r.Performers[i-1].Value
		if (lowerIsBetter && p.Value < prev) || (!lowerIsBetter && p.Value > prev) {
			return fmt.Errorf("%w: %s %v at rank %d after %v", ErrOrder, r.Metric, p.Value, p.Rank, prev)
		}
	}
	return nil
}

// verifyComparison checks every defined percentile is within bounds and
// agrees with its rounded value and ordinal.
func verifyComparison(c types.Comparison) (checked, undefined int, err error) {
	for _, m := range c.Metrics {
		for _, side := range []struct {
			score   *float64
			rounded *int
			ordinal string
		}{
			{m.A, m.ARounded, m.AOrdinal},
			{m.B, m.BRounded, m.BOrdinal},
		} {
			if side.score == nil {
				if side.rounded != nil {
					return checked, undefined, fmt.Errorf("%w: %s has a rounded value without a score", ErrInconsist, m.Metric)
				}
				undefined++
				continue
			}
			checked++
			s := *side.score
			if math.IsNaN(s) || s < minPercentile || s > maxPercentile {
				return checked, undefined, fmt.Errorf("%w: %s percentile %v", ErrBounds, m.Metric, s)
			}
			if side.rounded == nil || math.Abs(float64(*side.rounded)-s) > 0.5 {
				return checked, undefined, fmt.Errorf("%w: %s rounded value does not match %v", ErrInconsist, m.Metric, s)
			}
			if !strings.HasPrefix(side.ordinal, strconv.Itoa(*side.rounded)) {
				return checked, undefined, fmt.Errorf("%w: %s ordinal %q for %d", ErrInconsist, m.Metric, side.ordinal, *side.rounded)
			}
		}
	}
	if undefined != c.Undefined {
		return checked, undefined, fmt.Errorf("%w: %d undefined scores, response reports %d", ErrInconsist, undefined, c.Undefined)
	}
	return checked, undefined, nil
}
