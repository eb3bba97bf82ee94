package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/combine/internal/adapters/http/api"
	service "github.com/okian/combine/internal/app"
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func ptr[T any](v T) *T { return &v }

// mockDependencies records the last query and returns canned views.
type mockDependencies struct {
	lastQuery types.Query
	compareA  string
	compareB  string
	err       error
}

func (m *mockDependencies) Options(ctx context.Context) (types.Options, error) {
	if m.err != nil {
		return types.Options{}, m.err
	}
	return types.Options{
		Positions:      []string{"All", "QB", "WR"},
		Metrics:        []types.MetricOption{{Name: "forty", Label: "40 Yard", SelectorLabel: "40 Yard (Lower is better)", Direction: "lower"}},
		YearMin:        2010,
		YearMax:        2023,
		DefaultYearMin: 2010,
		DefaultYearMax: 2023,
		TopN:           types.TopNBounds{Min: 5, Max: 50, Default: 10},
		Players:        []string{"Alpha Able", "Beta Baker"},
	}, nil
}

func (m *mockDependencies) Summary(ctx context.Context, q types.Query) (types.Summary, error) {
	m.lastQuery = q
	return types.Summary{TotalPlayers: 2, UniqueSchools: 2, Positions: 1, YearMin: q.YearMin, YearMax: q.YearMax, Position: "QB"}, m.err
}

func (m *mockDependencies) ranking(q types.Query) (types.Ranking, error) {
	m.lastQuery = q
	if q.Metric == "bogus" {
		return types.Ranking{}, fmt.Errorf("resolve: %w", model.ErrUnknownMetric)
	}
	return types.Ranking{
		Metric:   "forty",
		Label:    "40 Yard",
		Position: "QB",
		N:        10,
		Performers: []types.Performer{
			{Rank: 1, Player: "Alpha <Able>", Position: "QB", Institution: "LSU", Year: 2015, Value: 4.4, Weight: ptr(220.0)},
			{Rank: 2, Player: "Beta Baker", Position: "QB", Institution: "Alabama", Value: 4.6},
		},
	}, m.err
}

func (m *mockDependencies) Top(ctx context.Context, q types.Query) (types.Ranking, error) {
	return m.ranking(q)
}

func (m *mockDependencies) AllTime(ctx context.Context, q types.Query) (types.Ranking, error) {
	return m.ranking(q)
}

func (m *mockDependencies) Compare(ctx context.Context, a, b string) (types.Comparison, error) {
	m.compareA, m.compareB = a, b
	if a == "Nobody" || b == "Nobody" {
		return types.Comparison{}, fmt.Errorf("%w: %s", service.ErrIneligible, "Nobody")
	}
	return types.Comparison{
		Position: "QB",
		A:        types.Entity{Player: a, Position: "QB", Institution: "LSU", Portrait: "/static/no_player.png"},
		B:        types.Entity{Player: b, Position: "QB", Institution: "Alabama", Portrait: "https://example.com/b.png"},
		Metrics: []types.Percentile{
			{Metric: "forty", Label: "40 Yard", A: ptr(75.0), B: ptr(25.0), AOrdinal: "75th", BOrdinal: "25th", PoolSize: 4},
			{Metric: "bench", Label: "Bench Press", A: nil, B: ptr(50.0), BOrdinal: "50th", PoolSize: 4},
		},
		Undefined: 1,
	}, m.err
}

func (m *mockDependencies) Regions(ctx context.Context, q types.Query) (types.Regions, error) {
	m.lastQuery = q
	return types.Regions{Regions: []types.RegionCount{{Region: "LA", Count: 1}}, Mapped: 1, Unmapped: 1}, m.err
}

func (m *mockDependencies) Pipeline(ctx context.Context, q types.Query) (types.Pipeline, error) {
	m.lastQuery = q
	if q.Position == "" || q.Position == "All" {
		return types.Pipeline{Available: false, Message: "Pipeline analysis available when a position is selected"}, m.err
	}
	return types.Pipeline{
		Available: true, Metric: "forty", Label: "40 Yard", Position: q.Position,
		Groups: []types.PipelineGroup{{Institution: "LSU", Count: 2, Min: 4.4, Q1: 4.45, Median: 4.5, Q3: 4.55, Max: 4.6, Mean: 4.5}},
	}, m.err
}

func (m *mockDependencies) Players(ctx context.Context) (types.Players, error) {
	return types.Players{Players: []string{"Alpha Able", "Beta Baker"}, Count: 2}, m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func serve(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var out T
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then health serves metrics", func() {
			w := serve(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats serves JSON", func() {
			w := serve(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(decode[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then options lists positions and bounds", func() {
			w := serve(mux, "/api/options")
			So(w.Code, ShouldEqual, http.StatusOK)
			opts := decode[types.Options](w)
			So(opts.Positions[0], ShouldEqual, "All")
			So(opts.TopN.Max, ShouldEqual, 50)
		})

		Convey("Then players lists eligible names", func() {
			w := serve(mux, "/api/players")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[types.Players](w).Count, ShouldEqual, 2)
		})

		Convey("Then top parses the filter parameters", func() {
			w := serve(mux, "/api/top?year_min=2015&year_max=2016&position=QB&metric=forty&n=7")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastQuery, ShouldResemble, types.Query{YearMin: 2015, YearMax: 2016, Position: "QB", Metric: "forty", N: 7})
			So(decode[types.Ranking](w).Performers, ShouldHaveLength, 2)
		})

		Convey("Then alltime answers with a ranking", func() {
			w := serve(mux, "/api/alltime?position=WR")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastQuery.Position, ShouldEqual, "WR")
		})

		Convey("Then an unknown metric is a bad request", func() {
			w := serve(mux, "/api/top?metric=bogus")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[types.ErrorResponse](w).Code, ShouldEqual, "bad_request")
		})

		Convey("Then a malformed integer is a bad request", func() {
			So(serve(mux, "/api/summary?year_min=abc").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "/api/top?n=ten").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then inverted years are a bad request", func() {
			So(serve(mux, "/api/regions?year_min=2020&year_max=2010").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then summary, regions and pipeline answer", func() {
			So(serve(mux, "/api/summary?position=QB").Code, ShouldEqual, http.StatusOK)
			So(decode[types.Regions](serve(mux, "/api/regions")).Mapped, ShouldEqual, 1)

			pl := decode[types.Pipeline](serve(mux, "/api/pipeline"))
			So(pl.Available, ShouldBeFalse)
			So(pl.Message, ShouldNotBeEmpty)

			pl = decode[types.Pipeline](serve(mux, "/api/pipeline?position=QB"))
			So(pl.Available, ShouldBeTrue)
			So(pl.Groups, ShouldHaveLength, 1)
		})

		Convey("Then compare returns percentiles with nulls for undefined scores", func() {
			w := serve(mux, "/api/compare?a=Alpha+Able&b=Beta+Baker")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.compareA, ShouldEqual, "Alpha Able")
			So(w.Body.String(), ShouldContainSubstring, `"a":null`)
			So(decode[types.Comparison](w).Undefined, ShouldEqual, 1)
		})

		Convey("Then compare without both names is a bad request", func() {
			w := serve(mux, "/api/compare?a=Alpha+Able")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[types.ErrorResponse](w).Code, ShouldEqual, "bad_request")
			So(serve(mux, "/api/compare?b=Beta+Baker").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(mux, "/charts/compare.png?a=Alpha+Able&b=+").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then compare with an ineligible name is not found", func() {
			So(serve(mux, "/api/compare?a=Alpha+Able&b=Nobody").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then the export is a readable workbook", func() {
			w := serve(mux, "/api/export/top.xlsx?position=QB")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "top_forty_QB.xlsx")

			f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := f.GetRows("Top Performers")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0][5], ShouldEqual, "40 Yard")
			So(rows[1][1], ShouldEqual, "Alpha <Able>")
		})

		Convey("Then the comparison chart is a PNG", func() {
			w := serve(mux, "/charts/compare.png?a=Alpha+Able&b=Beta+Baker")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("Then the dashboard renders every section escaped", func() {
			w := serve(mux, "/dashboard?position=QB&a=Alpha+Able&b=Beta+Baker")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			body := w.Body.String()
			So(body, ShouldContainSubstring, "Top performers")
			So(body, ShouldContainSubstring, "Alpha &lt;Able&gt;")
			So(body, ShouldContainSubstring, "Pipeline strength")
			So(body, ShouldContainSubstring, "/charts/compare.png?a=Alpha+Able")
			So(deps.lastQuery.YearMin, ShouldEqual, 2010)
		})

		Convey("Then the dashboard compares the first two eligible players by default", func() {
			w := serve(mux, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.compareA, ShouldEqual, "Alpha Able")
			So(deps.compareB, ShouldEqual, "Beta Baker")
			So(w.Body.String(), ShouldContainSubstring, "Percentiles against all QB records")
		})

		Convey("Then the dashboard skips the comparison when a player is cleared", func() {
			w := serve(mux, "/dashboard?a=&b=Beta+Baker")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.compareA, ShouldBeEmpty)
			So(w.Body.String(), ShouldContainSubstring, "Select two players to compare.")
		})

		Convey("Then the dashboard reports an ineligible comparison inline", func() {
			w := serve(mux, "/dashboard?a=Nobody&b=Beta+Baker")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "not eligible")
		})

		Convey("Then non-GET methods are not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/top", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_Unavailable(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		deps := &mockDependencies{err: service.ErrNotStarted}
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}).Register(context.Background(), mux)

		Convey("Then queries answer 503", func() {
			w := serve(mux, "/api/options")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode[types.ErrorResponse](w).Code, ShouldEqual, "unavailable")
		})
	})
}

func TestServer_NoStats(t *testing.T) {
	Convey("Given a server without a stats provider", t, func() {
		mux := http.NewServeMux()
		api.NewServer(&mockDependencies{}, nil).Register(context.Background(), mux)

		Convey("Then stats answers 503", func() {
			So(serve(mux, "/stats").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
		}))

		Convey("When no id is supplied one is generated", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			So(seen, ShouldHaveLength, 36)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
		})

		Convey("When a request is served its log entries carry the id", func() {
			var fields []logger.Field
			h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fields = logger.FromContext(r.Context())
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
			So(fields, ShouldHaveLength, 1)
			So(fields[0].Key, ShouldEqual, "requestID")
			So(fields[0].Value, ShouldEqual, w.Header().Get(api.RequestIDHeader))
		})

		Convey("When a valid id is supplied it is kept", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "0b7e4a0c-6c39-4b8e-9d55-0d4f3c9e1a2b")
			h.ServeHTTP(httptest.NewRecorder(), req)
			So(seen, ShouldEqual, "0b7e4a0c-6c39-4b8e-9d55-0d4f3c9e1a2b")
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := fmt.Errorf("boom")
		err := api.WrapKind("api.test", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause are reachable", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.test: bad request: boom")
		})

		Convey("Then NewKind and Wrap format the operation", func() {
			So(api.NewKind("api.test", api.ErrNotFound).Error(), ShouldEqual, "api.test: not found")
			So(api.Wrap("api.test", nil), ShouldBeNil)
			So(api.Wrap("api.test", cause).Error(), ShouldEqual, "api.test: boom")
		})
	})
}
