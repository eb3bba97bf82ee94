package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/combine/internal/adapters/dataset"
	service "github.com/okian/combine/internal/app"
	"github.com/okian/combine/internal/domain/geo"
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/pipeline"
	"github.com/okian/combine/internal/domain/portrait"
	"github.com/okian/combine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func full(name, pos, school string, year int, forty float64) model.Record {
	r := model.Record{Player: name, Position: pos, Institution: school, Year: year, Weight: model.Some(220)}
	r.Set(model.Forty, model.Some(forty))
	r.Set(model.Vertical, model.Some(30))
	r.Set(model.Bench, model.Some(20))
	r.Set(model.BroadJump, model.Some(110))
	r.Set(model.ThreeCone, model.Some(7))
	r.Set(model.Shuttle, model.Some(4.2))
	return r
}

func fixture() dataset.Dataset {
	alpha := full("Alpha QB", "QB", "LSU", 2015, 4.4)
	alpha.Portrait = "https://static.www.nfl.com/image/{formatInstructions}/alpha"
	delta := model.Record{Player: "Delta QB", Position: "QB", Institution: "Ohio State", Year: 2015}
	delta.Set(model.Forty, model.Some(4.5))
	return dataset.Dataset{
		Records: []model.Record{
			alpha,
			full("Beta QB", "QB", "Alabama", 2015, 4.6),
			full("Gamma QB", "QB", "LSU", 2016, 4.8),
			delta,
			full("Echo WR", "WR", "Iowa", 2015, 4.3),
			full("Foxtrot WR", "WR", "Nowhere Tech", 2012, 4.35),
		},
		Players:   4,
		Portraits: 1,
		Duration:  3 * time.Millisecond,
	}
}

func started(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithDataset(fixture()),
		service.WithRegions(geo.Lookup{"LSU": "LA", "Alabama": "AL", "Iowa": "IA"}),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithDataset(fixture()))
		defer svc.Stop()

		Convey("When querying before it starts", func() {
			_, err := svc.Top(ctx, service.Query{})

			Convey("Then ErrNotStarted is returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting it twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is started with the dataset published", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 6)
				So(stats["eligiblePlayers"], ShouldEqual, 5)
			})
		})
	})

	Convey("Given dataset files on disk", t, func() {
		dir := t.TempDir()
		combine := filepath.Join(dir, "combine.csv")
		players := filepath.Join(dir, "players.csv")
		So(os.WriteFile(combine, []byte("Player,Pos,School,Year,Weight,40yd,Vertical,Bench,Broad Jump,3Cone,Shuttle\nA,QB,LSU,2015,200,4.5,30,20,110,7,4.2\n"), 0o600), ShouldBeNil)
		So(os.WriteFile(players, []byte("display_name,headshot\na,https://static.www.nfl.com/a\n"), 0o600), ShouldBeNil)

		Convey("When starting from the paths", func() {
			svc := service.New(service.WithDatasetPaths(combine, players))
			err := svc.Start(context.Background())

			Convey("Then the joined data is served", func() {
				So(err, ShouldBeNil)
				cmp, err := svc.Compare(context.Background(), "A", "a")
				So(err, ShouldBeNil)
				So(cmp.A.Portrait, ShouldEqual, "https://static.www.nfl.com/a")
			})
		})

		Convey("When the metadata table is missing", func() {
			svc := service.New(service.WithDatasetPaths(combine, filepath.Join(dir, "missing.csv")))
			err := svc.Start(context.Background())

			Convey("Then start fails with the load error", func() {
				So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the regions file is malformed", func() {
			regions := filepath.Join(dir, "regions.yaml")
			So(os.WriteFile(regions, []byte("- not\n- a map\n"), 0o600), ShouldBeNil)
			svc := service.New(service.WithDatasetPaths(combine, players), service.WithRegionsPath(regions))
			err := svc.Start(context.Background())

			Convey("Then start fails", func() {
				So(errors.Is(err, geo.ErrParseRegions), ShouldBeTrue)
			})
		})
	})
}

func TestService_Rankings(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := started(service.WithTopNBounds(10, 1, 3))
		defer svc.Stop()

		Convey("When ranking 2015 quarterbacks by the 40", func() {
			r, err := svc.Top(ctx, service.Query{YearMin: 2015, YearMax: 2015, Position: "QB", Metric: "forty"})

			Convey("Then only 2015 QBs appear, fastest first, clamped to the max", func() {
				So(err, ShouldBeNil)
				So(r.N, ShouldEqual, 3)
				So(r.Performers, ShouldHaveLength, 3)
				So(r.Performers[0].Player, ShouldEqual, "Alpha QB")
				So(r.Performers[1].Player, ShouldEqual, "Delta QB")
				So(r.Performers[2].Player, ShouldEqual, "Beta QB")
				So(r.Performers[0].Rank, ShouldEqual, 1)
				So(r.YearMin, ShouldEqual, 2015)
				So(r.Label, ShouldEqual, "40 Yard Dash")
			})
		})

		Convey("When no years are given", func() {
			r, err := svc.Top(ctx, service.Query{N: 1})

			Convey("Then the dataset span is used", func() {
				So(err, ShouldBeNil)
				So(r.YearMin, ShouldEqual, 2012)
				So(r.YearMax, ShouldEqual, 2016)
				So(r.Position, ShouldEqual, "All")
				So(r.Performers[0].Player, ShouldEqual, "Echo WR")
			})
		})

		Convey("When the metric is unknown", func() {
			_, err := svc.Top(ctx, service.Query{Metric: "speed"})

			Convey("Then ErrUnknownMetric is returned", func() {
				So(errors.Is(err, model.ErrUnknownMetric), ShouldBeTrue)
			})
		})

		Convey("When ranking all-time with a year range", func() {
			r, err := svc.AllTime(ctx, service.Query{YearMin: 2015, YearMax: 2015, Position: "WR", Metric: "forty"})

			Convey("Then years are ignored", func() {
				So(err, ShouldBeNil)
				So(r.Performers, ShouldHaveLength, 2)
				So(r.Performers[1].Player, ShouldEqual, "Foxtrot WR")
				So(r.YearMin, ShouldEqual, 0)
			})
		})
	})
}

func TestService_Compare(t *testing.T) {
	Convey("Given a service comparing against every record", t, func() {
		ctx := context.Background()
		svc := started(service.WithPortraitResolver(portrait.Default()))
		defer svc.Stop()

		Convey("When comparing the fastest and slowest quarterbacks", func() {
			cmp, err := svc.Compare(ctx, "alpha qb", " Gamma QB ")
			So(err, ShouldBeNil)
			forty := cmp.Metrics[0]

			Convey("Then the peer pool includes the incomplete quarterback", func() {
				So(cmp.Position, ShouldEqual, "QB")
				So(forty.Metric, ShouldEqual, "forty")
				So(forty.PoolSize, ShouldEqual, 4)
				So(*forty.A, ShouldEqual, 100)
				So(*forty.B, ShouldAlmostEqual, 25, 1e-9)
				So(*forty.BRounded, ShouldEqual, 25)
				So(forty.BOrdinal, ShouldEqual, "25th")
			})

			Convey("Then portraits are resolved", func() {
				So(cmp.A.Portrait, ShouldEqual, "https://static.www.nfl.com/image/t_headshot_desktop/alpha")
				So(cmp.B.Portrait, ShouldEqual, portrait.DefaultPlaceholder)
			})
		})

		Convey("When a player lacks complete data", func() {
			_, err := svc.Compare(ctx, "Delta QB", "Alpha QB")

			Convey("Then ErrIneligible is returned", func() {
				So(errors.Is(err, service.ErrIneligible), ShouldBeTrue)
			})
		})

		Convey("When the players play different positions", func() {
			cmp, err := svc.Compare(ctx, "Echo WR", "Alpha QB")

			Convey("Then the first player's position is the reference", func() {
				So(err, ShouldBeNil)
				So(cmp.Position, ShouldEqual, "WR")
				So(cmp.Metrics[0].PoolSize, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service comparing against complete records only", t, func() {
		svc := started(service.WithPeerPool(service.PeerPoolComplete))
		defer svc.Stop()

		Convey("When comparing the same quarterbacks", func() {
			cmp, err := svc.Compare(context.Background(), "Alpha QB", "Gamma QB")
			So(err, ShouldBeNil)
			forty := cmp.Metrics[0]

			Convey("Then the 4.4 / 4.6 / 4.8 scores come out as 100 and 33", func() {
				So(forty.PoolSize, ShouldEqual, 3)
				So(*forty.ARounded, ShouldEqual, 100)
				So(*forty.BRounded, ShouldEqual, 33)
			})
		})
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := started()
		defer svc.Stop()

		Convey("When listing options", func() {
			opts, err := svc.Options(ctx)

			Convey("Then positions lead with All and metrics carry directions", func() {
				So(err, ShouldBeNil)
				So(opts.Positions, ShouldResemble, []string{"All", "QB", "WR"})
				So(opts.Metrics, ShouldHaveLength, model.NumMetrics)
				So(opts.Metrics[0].LowerIsBetter, ShouldBeTrue)
				So(opts.Metrics[0].SelectorLabel, ShouldEqual, "40 Yard Dash (Fastest)")
				So(opts.YearMin, ShouldEqual, 2012)
				So(opts.YearMax, ShouldEqual, 2016)
				So(opts.DefaultYearMin, ShouldEqual, 2012)
				So(opts.DefaultYearMax, ShouldEqual, 2016)
				So(opts.TopN.Default, ShouldEqual, 10)
				So(opts.Players, ShouldContain, "Alpha QB")
				So(opts.Players, ShouldNotContain, "Delta QB")
			})
		})

		Convey("When summarizing 2015", func() {
			sum, err := svc.Summary(ctx, service.Query{YearMin: 2015, YearMax: 2015})

			Convey("Then the KPIs count the filtered rows", func() {
				So(err, ShouldBeNil)
				So(sum.TotalPlayers, ShouldEqual, 4)
				So(sum.UniqueSchools, ShouldEqual, 4)
				So(sum.Positions, ShouldEqual, 2)
			})
		})

		Convey("When aggregating regions", func() {
			regions, err := svc.Regions(ctx, service.Query{})

			Convey("Then unmapped institutions only show up in the unmapped total", func() {
				So(err, ShouldBeNil)
				So(regions.Mapped, ShouldEqual, 4)
				So(regions.Unmapped, ShouldEqual, 2)
				So(regions.Regions[0].Region, ShouldEqual, "AL")
				So(regions.Regions[2].Region, ShouldEqual, "LA")
				So(regions.Regions[2].Count, ShouldEqual, 2)
			})
		})

		Convey("When requesting the pipeline", func() {
			all, err := svc.Pipeline(ctx, service.Query{})
			So(err, ShouldBeNil)
			qb, err := svc.Pipeline(ctx, service.Query{Position: "QB", Metric: "forty"})
			So(err, ShouldBeNil)

			Convey("Then it is only available for a concrete position", func() {
				So(all.Available, ShouldBeFalse)
				So(all.Message, ShouldEqual, pipeline.UnavailableMessage)
				So(qb.Available, ShouldBeTrue)
				So(qb.Groups[0].Institution, ShouldEqual, "Ohio State")
				So(qb.Groups, ShouldHaveLength, 3)
			})
		})

		Convey("When listing players", func() {
			players, err := svc.Players(ctx)

			Convey("Then the eligible names are sorted", func() {
				So(err, ShouldBeNil)
				So(players.Count, ShouldEqual, 5)
				So(players.Players[0], ShouldEqual, "Alpha QB")
			})
		})
	})
}
