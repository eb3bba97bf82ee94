package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/combine/internal/domain/types"
)

// ErrNoPercentiles is returned when a comparison has nothing to plot.
var ErrNoPercentiles = errors.New("no percentiles to plot")

// ChartHandler renders comparison charts.
type ChartHandler struct {
	deps Dependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleComparePNG handles GET /charts/compare.png?a=<name>&b=<name>.
func (h *ChartHandler) HandleComparePNG(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	a, b, err := pair(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	cmp, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		fail(w, r, op, err)
		return
	}

	var buf bytes.Buffer
	if err := RenderComparison(&buf, cmp); err != nil {
		if errors.Is(err, ErrNoPercentiles) {
			fail(w, r, op, WrapKind(op, ErrNotFound, err))
			return
		}
		fail(w, r, op, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func seriesStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    5,
	}
}

// RenderComparison draws both players' percentiles per drill as a PNG.
// Undefined percentiles leave a gap in the player's series.
func RenderComparison(w io.Writer, cmp types.Comparison) error {
	ticks := make([]chart.Tick, 0, len(cmp.Metrics))
	var ax, ay, bx, by []float64
	for i, m := range cmp.Metrics {
		x := float64(i)
		ticks = append(ticks, chart.Tick{Value: x, Label: m.Label})
		if m.A != nil {
			ax, ay = append(ax, x), append(ay, *m.A)
		}
		if m.B != nil {
			bx, by = append(bx, x), append(by, *m.B)
		}
	}

	series := []chart.Series{}
	if len(ax) > 0 {
		series = append(series, chart.ContinuousSeries{Name: cmp.A.Player, XValues: ax, YValues: ay, Style: seriesStyle(chart.ColorBlue)})
	}
	if len(bx) > 0 {
		series = append(series, chart.ContinuousSeries{Name: cmp.B.Player, XValues: bx, YValues: by, Style: seriesStyle(chart.ColorOrange)})
	}
	if len(series) == 0 {
		return ErrNoPercentiles
	}

	yTicks := make([]chart.Tick, 0, 5)
	for v := 0.0; v <= 100; v += 25 {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: chart.FloatValueFormatter(v)})
	}

	ch := chart.Chart{
		Title:      cmp.Position + " percentiles",
		Width:      720,
		Height:     360,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(cmp.Metrics)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "percentile",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: yTicks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}
