package view

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/okian/combine/internal/domain/types"
)

// exportLink is the XLSX download for the filtered ranking of q.
func exportLink(q types.Query) string {
	v := url.Values{}
	if q.YearMin > 0 {
		v.Set("year_min", strconv.Itoa(q.YearMin))
	}
	if q.YearMax > 0 {
		v.Set("year_max", strconv.Itoa(q.YearMax))
	}
	if q.Position != "" {
		v.Set("position", q.Position)
	}
	if q.Metric != "" {
		v.Set("metric", q.Metric)
	}
	if q.N > 0 {
		v.Set("n", strconv.Itoa(q.N))
	}
	if len(v) == 0 {
		return "/api/export/top.xlsx"
	}
	return "/api/export/top.xlsx?" + v.Encode()
}

func chartLink(a, b string) string {
	v := url.Values{}
	v.Set("a", a)
	v.Set("b", b)
	return "/charts/compare.png?" + v.Encode()
}

// yearText leaves unknown years blank.
func yearText(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func yearRange(from, to int) string {
	return fmt.Sprintf("%d - %d", from, to)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func regionNote(r types.Regions) string {
	return fmt.Sprintf("%d players from mapped schools, %d from other schools", r.Mapped, r.Unmapped)
}

// barValue is the progress value of a percentile; undefined scores draw empty.
func barValue(v *float64) string {
	if v == nil {
		return "0.0"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
