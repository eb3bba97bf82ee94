package dataset_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/combine/internal/adapters/dataset"
	"github.com/okian/combine/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const combineCSV = ` Player ,Pos,School,Year,Weight,40yd,Vertical,Bench,Broad Jump,3Cone,Shuttle
Joe Burrow,QB,LSU,2020,221,4.56,,,,7.1,4.25
Tom Fast,WR,Alabama,2015,190,4.31,38.5,15,128,6.8,4.1
Bad Cells,RB,Iowa,abc,n/a,fast,-,12,,,
`

const playersCSV = `display_name, Headshot
  JOE BURROW ,https://static.www.nfl.com/image/{formatInstructions}/burrow
joe burrow,https://static.www.nfl.com/image/second
Someone Else,https://static.www.nfl.com/image/else
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestNormalizeHeader(t *testing.T) {
	Convey("Given raw header cells", t, func() {
		Convey("Then they are trimmed, lower-cased and renamed", func() {
			So(dataset.NormalizeHeader(" Pos "), ShouldEqual, "position")
			So(dataset.NormalizeHeader("Broad Jump"), ShouldEqual, "broad_jump")
			So(dataset.NormalizeHeader("40YD"), ShouldEqual, "forty")
			So(dataset.NormalizeHeader("3Cone"), ShouldEqual, "threecone")
			So(dataset.NormalizeHeader("\ufeffPlayer"), ShouldEqual, "player")
			So(dataset.NormalizeHeader("School"), ShouldEqual, "school")
		})
	})
}

func TestParseNumber(t *testing.T) {
	Convey("Given numeric cells", t, func() {
		Convey("Then valid numbers parse and everything else is null", func() {
			So(dataset.ParseNumber(" 4.56 "), ShouldResemble, model.Some(4.56))
			So(dataset.ParseNumber("").Valid, ShouldBeFalse)
			So(dataset.ParseNumber("fast").Valid, ShouldBeFalse)
			So(dataset.ParseNumber("NaN").Valid, ShouldBeFalse)
			So(dataset.ParseNumber("Inf").Valid, ShouldBeFalse)
		})

		Convey("Then years must be positive whole numbers", func() {
			So(dataset.ParseYear("2015"), ShouldEqual, 2015)
			So(dataset.ParseYear("2015.0"), ShouldEqual, 2015)
			So(dataset.ParseYear("2015.5"), ShouldEqual, 0)
			So(dataset.ParseYear("abc"), ShouldEqual, 0)
			So(dataset.ParseYear("-3"), ShouldEqual, 0)
		})
	})
}

func TestParseCombine(t *testing.T) {
	Convey("Given a combine CSV with messy headers and cells", t, func() {
		recs, err := dataset.ParseCombine(strings.NewReader(combineCSV))

		Convey("Then every row is kept with typed fields", func() {
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 3)
			So(recs[0].Player, ShouldEqual, "Joe Burrow")
			So(recs[0].Position, ShouldEqual, "QB")
			So(recs[0].Institution, ShouldEqual, "LSU")
			So(recs[0].Year, ShouldEqual, 2020)
			So(recs[0].Weight, ShouldResemble, model.Some(221))
			So(recs[0].Measure(model.Forty), ShouldResemble, model.Some(4.56))
			So(recs[0].Measure(model.Vertical).Valid, ShouldBeFalse)
			So(recs[1].Complete(), ShouldBeTrue)
		})

		Convey("Then malformed cells become nulls", func() {
			bad := recs[2]
			So(bad.Year, ShouldEqual, 0)
			So(bad.Weight.Valid, ShouldBeFalse)
			So(bad.Measure(model.Forty).Valid, ShouldBeFalse)
			So(bad.Measure(model.Vertical).Valid, ShouldBeFalse)
			So(bad.Measure(model.Bench), ShouldResemble, model.Some(12))
		})
	})

	Convey("Given cells padded with whitespace", t, func() {
		body := "player,pos,school,year,weight,forty,vertical,bench,broad_jump,threecone,shuttle\n" +
			"  Joe Burrow , QB ,LSU ,2020, 221 ,4.56,,,,,\n"
		recs, err := dataset.ParseCombine(strings.NewReader(body))
		So(err, ShouldBeNil)

		Convey("Then text cells keep their stored form", func() {
			So(recs[0].Player, ShouldEqual, "  Joe Burrow ")
			So(recs[0].Position, ShouldEqual, " QB ")
			So(recs[0].Institution, ShouldEqual, "LSU ")
		})

		Convey("Then numeric cells still parse", func() {
			So(recs[0].Year, ShouldEqual, 2020)
			So(recs[0].Weight, ShouldResemble, model.Some(221))
		})

		Convey("Then the padded name still joins its metadata", func() {
			players, err := dataset.ParsePlayers(strings.NewReader(playersCSV))
			So(err, ShouldBeNil)
			So(dataset.Join(recs, players), ShouldEqual, 1)
			So(recs[0].Player, ShouldEqual, "  Joe Burrow ")
			So(recs[0].Portrait, ShouldEqual, "https://static.www.nfl.com/image/{formatInstructions}/burrow")
		})
	})

	Convey("Given a combine CSV missing drill columns", t, func() {
		_, err := dataset.ParseCombine(strings.NewReader("player,pos,school,year\nA,QB,LSU,2015\n"))

		Convey("Then a missing-column error names them", func() {
			So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "forty")
			So(err.Error(), ShouldContainSubstring, "weight")
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := dataset.ParseCombine(strings.NewReader(""))

		Convey("Then the header is reported missing", func() {
			So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
		})
	})
}

func TestJoin(t *testing.T) {
	Convey("Given records and player metadata", t, func() {
		recs, err := dataset.ParseCombine(strings.NewReader(combineCSV))
		So(err, ShouldBeNil)
		players, err := dataset.ParsePlayers(strings.NewReader(playersCSV))
		So(err, ShouldBeNil)

		joined := dataset.Join(recs, players)

		Convey("Then names match case and whitespace insensitively", func() {
			So(joined, ShouldEqual, 1)
			So(recs[0].Portrait, ShouldEqual, "https://static.www.nfl.com/image/{formatInstructions}/burrow")
		})

		Convey("Then unmatched records are kept without a portrait", func() {
			So(recs, ShouldHaveLength, 3)
			So(recs[1].Portrait, ShouldBeEmpty)
			So(recs[2].Portrait, ShouldBeEmpty)
		})
	})
}

func TestLoadAll(t *testing.T) {
	Convey("Given both tables on disk as CSV", t, func() {
		dir := t.TempDir()
		combine := writeFile(t, dir, "combine.csv", combineCSV)
		players := writeFile(t, dir, "players.csv", playersCSV)

		Convey("When loading them", func() {
			ds, err := dataset.LoadAll(context.Background(), combine, players)

			Convey("Then the joined dataset is returned", func() {
				So(err, ShouldBeNil)
				So(ds.Records, ShouldHaveLength, 3)
				So(ds.Players, ShouldEqual, 3)
				So(ds.Portraits, ShouldEqual, 1)
			})
		})

		Convey("When the metadata table is missing", func() {
			_, err := dataset.LoadAll(context.Background(), combine, filepath.Join(dir, "nope.csv"))

			Convey("Then the load fails", func() {
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the combine table lacks required columns", func() {
			broken := writeFile(t, dir, "broken.csv", "player,school\nA,LSU\n")
			_, err := dataset.LoadAll(context.Background(), broken, players)

			Convey("Then the load fails with both sentinels", func() {
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
				So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
			})
		})
	})
}

func TestLoadSQLite(t *testing.T) {
	Convey("Given a SQLite snapshot with both tables", t, func() {
		path := filepath.Join(t.TempDir(), "combine.db")
		db, err := sql.Open("sqlite", path)
		So(err, ShouldBeNil)
		stmts := []string{
			`CREATE TABLE combine ("Player" TEXT, "Pos" TEXT, "School" TEXT, "Year" INTEGER, "Weight" INTEGER,
				"40yd" REAL, "Vertical" REAL, "Bench" INTEGER, "Broad Jump" INTEGER, "3Cone" REAL, "Shuttle" REAL)`,
			`INSERT INTO combine VALUES ('Tom Fast', 'WR', 'Alabama', 2015, 190, 4.31, 38.5, 15, 128, 6.8, 4.1)`,
			`INSERT INTO combine VALUES ('No Drills', 'OL', 'Iowa', 2016, 310, NULL, NULL, 30, NULL, NULL, NULL)`,
			`CREATE TABLE players (display_name TEXT, headshot TEXT)`,
			`INSERT INTO players VALUES ('tom fast', 'https://static.www.nfl.com/x')`,
		}
		for _, s := range stmts {
			_, err := db.Exec(s)
			So(err, ShouldBeNil)
		}
		So(db.Close(), ShouldBeNil)

		Convey("When loading both tables from it", func() {
			ds, err := dataset.LoadAll(context.Background(), path, path)

			Convey("Then typed values and nulls come through", func() {
				So(err, ShouldBeNil)
				So(ds.Records, ShouldHaveLength, 2)
				So(ds.Records[0].Year, ShouldEqual, 2015)
				So(ds.Records[0].Measure(model.Forty), ShouldResemble, model.Some(4.31))
				So(ds.Records[0].Portrait, ShouldEqual, "https://static.www.nfl.com/x")
				So(ds.Records[1].Measure(model.Forty).Valid, ShouldBeFalse)
				So(ds.Records[1].Measure(model.Bench), ShouldResemble, model.Some(30))
				So(ds.Portraits, ShouldEqual, 1)
			})
		})

		Convey("When the snapshot does not exist", func() {
			_, err := dataset.LoadCombine(context.Background(), filepath.Join(t.TempDir(), "missing.db"))

			Convey("Then ErrLoad is returned", func() {
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			})
		})
	})

	Convey("Given file names", t, func() {
		So(dataset.IsSQLite("a.db"), ShouldBeTrue)
		So(dataset.IsSQLite("a.SQLITE"), ShouldBeTrue)
		So(dataset.IsSQLite("a.csv"), ShouldBeFalse)
	})
}
