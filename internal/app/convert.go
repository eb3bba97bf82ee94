package service

import (
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/percentile"
	"github.com/okian/combine/internal/domain/pipeline"
	"github.com/okian/combine/internal/domain/portrait"
	"github.com/okian/combine/internal/domain/types"
)

func metricOptions() []types.MetricOption {
	catalog := model.Catalog()
	out := make([]types.MetricOption, len(catalog))
	for i, mi := range catalog {
		out[i] = types.MetricOption{
			Name:          string(mi.Metric),
			Label:         mi.Label,
			Qualifier:     mi.Qualifier,
			SelectorLabel: mi.SelectorLabel(),
			Direction:     mi.Direction.String(),
			LowerIsBetter: mi.Direction == model.LowerIsBetter,
		}
	}
	return out
}

func measurePtr(ms model.Measure) *float64 {
	if !ms.Valid {
		return nil
	}
	v := ms.Value
	return &v
}

func toRanking(ranked []model.Record, metric model.Metric, position string, n int) types.Ranking {
	out := types.Ranking{
		Metric:     string(metric),
		Label:      metric.Label(),
		Position:   position,
		N:          n,
		Performers: make([]types.Performer, len(ranked)),
	}
	for i := range ranked {
		v, _ := ranked[i].Value(metric)
		out.Performers[i] = types.Performer{
			Rank:        i + 1,
			Player:      ranked[i].Player,
			Position:    ranked[i].Position,
			Institution: ranked[i].Institution,
			Year:        ranked[i].Year,
			Value:       v,
			Weight:      measurePtr(ranked[i].Weight),
		}
	}
	return out
}

func toEntity(r model.Record, resolver portrait.Resolver) types.Entity {
	return types.Entity{
		Player:      r.Player,
		Position:    r.Position,
		Institution: r.Institution,
		Year:        r.Year,
		Portrait:    resolver.Resolve(r.Portrait),
	}
}

func scorePtr(s percentile.Score) *float64 {
	if !s.Defined {
		return nil
	}
	v := s.Value
	return &v
}

func roundedPtr(s percentile.Score) *int {
	n, ok := s.Rounded()
	if !ok {
		return nil
	}
	return &n
}

func toComparison(cmp percentile.Comparison, a, b model.Record, resolver portrait.Resolver) types.Comparison {
	out := types.Comparison{
		Position:  cmp.Position,
		A:         toEntity(a, resolver),
		B:         toEntity(b, resolver),
		Metrics:   make([]types.Percentile, len(cmp.Metrics)),
		Undefined: cmp.Undefined(),
	}
	for i, mc := range cmp.Metrics {
		out.Metrics[i] = types.Percentile{
			Metric:    string(mc.Metric),
			Label:     mc.Metric.Label(),
			AValue:    measurePtr(a.Measure(mc.Metric)),
			BValue:    measurePtr(b.Measure(mc.Metric)),
			A:         scorePtr(mc.A),
			B:         scorePtr(mc.B),
			ARounded:  roundedPtr(mc.A),
			BRounded:  roundedPtr(mc.B),
			AOrdinal:  mc.A.Ordinal(),
			BOrdinal:  mc.B.Ordinal(),
			PoolSize:  mc.PoolSize,
			Direction: mc.Metric.Direction().String(),
		}
	}
	return out
}

func toPipeline(res pipeline.Result) types.Pipeline {
	out := types.Pipeline{
		Available: res.Available,
		Message:   res.Message,
		Metric:    string(res.Metric),
		Label:     res.Metric.Label(),
		Position:  res.Position,
		Groups:    make([]types.PipelineGroup, len(res.Groups)),
	}
	for i, g := range res.Groups {
		out.Groups[i] = types.PipelineGroup{
			Institution: g.Institution,
			Count:       g.Count,
			Min:         g.Min,
			Q1:          g.Q1,
			Median:      g.Median,
			Q3:          g.Q3,
			Max:         g.Max,
			Mean:        g.Mean,
			Values:      g.Values,
		}
	}
	return out
}
