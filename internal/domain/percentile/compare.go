package percentile

import "github.com/okian/combine/internal/domain/model"

// MetricComparison holds both entities' reported percentiles for one drill.
type MetricComparison struct {
	Metric model.Metric
	A      Score
	B      Score
	// PoolSize is the number of peers with a value for the drill.
	PoolSize int
}

// Comparison is the per-drill result of Compare, in catalog order.
type Comparison struct {
	// Position is the reference position, always taken from entity A.
	Position string
	Metrics  []MetricComparison
}

// Undefined counts the undefined scores across both entities.
func (c Comparison) Undefined() int {
	n := 0
	for _, mc := range c.Metrics {
		if !mc.A.Defined {
			n++
		}
		if !mc.B.Defined {
			n++
		}
	}
	return n
}

// Compare scores a and b on every drill against the records sharing a's
// position in all. It is a pure function of its inputs.
func Compare(a, b model.Record, all []model.Record) Comparison {
	out := Comparison{
		Position: a.Position,
		Metrics:  make([]MetricComparison, 0, model.NumMetrics),
	}
	for _, m := range model.Metrics() {
		values := PeerValues(all, a.Position, m)
		out.Metrics = append(out.Metrics, MetricComparison{
			Metric:   m,
			A:        Of(values, a, m),
			B:        Of(values, b, m),
			PoolSize: len(values),
		})
	}
	return out
}
