package console

import (
	"bytes"
	"testing"

	"github.com/okian/combine/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConsole(t *testing.T) {
	Convey("Given query results", t, func() {
		var buf bytes.Buffer

		Convey("When rendering a ranking", func() {
			Ranking(&buf, types.Ranking{
				Label: "40 Yard Dash", Position: "QB", YearMin: 2015, YearMax: 2015,
				Performers: []types.Performer{
					{Rank: 1, Player: "Alpha Able", Position: "QB", Institution: "LSU", Year: 2015, Value: 4.4},
					{Rank: 2, Player: "Beta Baker", Position: "QB", Institution: "Alabama", Value: 4.65},
				},
			})
			out := buf.String()

			Convey("Then the caption and rows appear in order", func() {
				So(out, ShouldStartWith, "40 Yard Dash, QB, 2015-2015\n")
				So(out, ShouldContainSubstring, "Alpha Able")
				So(out, ShouldContainSubstring, "4.65")
				So(bytes.Index(buf.Bytes(), []byte("Alpha")), ShouldBeLessThan, bytes.Index(buf.Bytes(), []byte("Beta")))
			})
		})

		Convey("When rendering an empty ranking", func() {
			Ranking(&buf, types.Ranking{Label: "Shuttle", Position: "All"})
			So(buf.String(), ShouldEqual, "Shuttle, All\nno results\n")
		})

		Convey("When rendering a comparison with an undefined percentile", func() {
			v := 4.4
			Comparison(&buf, types.Comparison{
				Position: "QB",
				A:        types.Entity{Player: "Alpha Able", Institution: "LSU"},
				B:        types.Entity{Player: "Beta Baker", Institution: "Alabama"},
				Metrics: []types.Percentile{
					{Label: "40 Yard Dash", AValue: &v, AOrdinal: "75th"},
				},
				Undefined: 1,
			})
			out := buf.String()

			Convey("Then missing values print as a dash", func() {
				So(out, ShouldContainSubstring, "pool: all QB records")
				So(out, ShouldContainSubstring, "75th")
				So(out, ShouldContainSubstring, " - ")
				So(out, ShouldContainSubstring, "1 percentile(s) undefined")
			})
		})

		Convey("When rendering a summary", func() {
			Summary(&buf, types.Summary{TotalPlayers: 12, UniqueSchools: 4, Positions: 2, YearMin: 2010, YearMax: 2023, Position: "All"})
			So(buf.String(), ShouldContainSubstring, "2010-2023")
		})
	})
}
