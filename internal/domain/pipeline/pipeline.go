// Package pipeline summarizes how institutions' players are distributed on a drill
// within one position: the busiest institutions, each with box statistics,
// ordered by median from best to worst.
package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/query"
)

// UnavailableMessage is shown when no concrete position is selected.
const UnavailableMessage = "Pipeline analysis available when a position is selected"

// DefaultSchools is the number of institutions kept when none is configured.
const DefaultSchools = 8

// Group is one institution's distribution.
type Group struct {
	Institution string
	Count       int
	Min         float64
	Q1          float64
	Median      float64
	Q3          float64
	Max         float64
	Mean        float64
	// Values are the member values in table order.
	Values []float64
}

// Result is the pipeline view for one metric and position.
type Result struct {
	Available bool
	Message   string
	Position  string
	Metric    model.Metric
	Groups    []Group
}

// Analyze builds the pipeline view of subset. subset is expected to already be
// filtered to position; the position only decides availability and labelling.
func Analyze(subset []model.Record, metric model.Metric, position string, schools int) Result {
	res := Result{Position: position, Metric: metric}
	if position == "" || position == query.AllPositions {
		res.Message = UnavailableMessage
		return res
	}
	res.Available = true
	if schools <= 0 {
		schools = DefaultSchools
	}

	values := make(map[string][]float64)
	for i := range subset {
		inst := subset[i].Institution
		v, ok := subset[i].Value(metric)
		if !ok || inst == "" {
			continue
		}
		values[inst] = append(values[inst], v)
	}

	insts := make([]string, 0, len(values))
	for inst := range values {
		insts = append(insts, inst)
	}
	sort.Strings(insts)
	sort.SliceStable(insts, func(i, j int) bool {
		return len(values[insts[i]]) > len(values[insts[j]])
	})
	if len(insts) > schools {
		insts = insts[:schools]
	}

	res.Groups = make([]Group, 0, len(insts))
	for _, inst := range insts {
		res.Groups = append(res.Groups, describe(inst, values[inst]))
	}
	lowerBetter := metric.LowerIsBetter()
	sort.SliceStable(res.Groups, func(i, j int) bool {
		if lowerBetter {
			return res.Groups[i].Median < res.Groups[j].Median
		}
		return res.Groups[i].Median > res.Groups[j].Median
	})
	return res
}

func describe(inst string, values []float64) Group {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Group{
		Institution: inst,
		Count:       len(sorted),
		Min:         sorted[0],
		Q1:          stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Median:      median(sorted),
		Q3:          stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Max:         sorted[len(sorted)-1],
		Mean:        stat.Mean(sorted, nil),
		Values:      append([]float64(nil), values...),
	}
}

// median of an ascending, non-empty slice; even counts average the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
