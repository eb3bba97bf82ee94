// Package console renders query results as plain-text tables for the CLI.
package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/okian/combine/internal/domain/types"
)

const undefined = "-"

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

// Ranking writes a ranking with a one-line caption.
func Ranking(w io.Writer, r types.Ranking) {
	caption := fmt.Sprintf("%s, %s", r.Label, r.Position)
	if r.YearMin > 0 && r.YearMax > 0 {
		caption += fmt.Sprintf(", %d-%d", r.YearMin, r.YearMax)
	}
	fmt.Fprintln(w, caption)

	if len(r.Performers) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}

	table := newTable(w, []string{"Rank", "Player", "Position", "School", "Year", r.Label})
	for _, p := range r.Performers {
		year := ""
		if p.Year > 0 {
			year = strconv.Itoa(p.Year)
		}
		table.Append([]string{
			strconv.Itoa(p.Rank),
			p.Player,
			p.Position,
			p.Institution,
			year,
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		})
	}
	table.Render()
}

// Comparison writes the per-drill percentiles of both players. Undefined
// percentiles print as "-".
func Comparison(w io.Writer, c types.Comparison) {
	fmt.Fprintf(w, "%s (%s) vs %s (%s), pool: all %s records\n",
		c.A.Player, c.A.Institution, c.B.Player, c.B.Institution, c.Position)

	table := newTable(w, []string{"Drill", c.A.Player, "Pct", c.B.Player, "Pct"})
	for _, m := range c.Metrics {
		table.Append([]string{
			m.Label,
			value(m.AValue),
			ordinal(m.AOrdinal),
			value(m.BValue),
			ordinal(m.BOrdinal),
		})
	}
	table.Render()

	if c.Undefined > 0 {
		fmt.Fprintf(w, "%d percentile(s) undefined\n", c.Undefined)
	}
}

// Summary writes the headline counts.
func Summary(w io.Writer, s types.Summary) {
	table := newTable(w, []string{"Players", "Schools", "Positions", "Years", "Position"})
	table.Append([]string{
		strconv.Itoa(s.TotalPlayers),
		strconv.Itoa(s.UniqueSchools),
		strconv.Itoa(s.Positions),
		fmt.Sprintf("%d-%d", s.YearMin, s.YearMax),
		s.Position,
	})
	table.Render()
}

func value(v *float64) string {
	if v == nil {
		return undefined
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func ordinal(s string) string {
	if s == "" {
		return undefined
	}
	return s
}
