package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

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

type fakeDeps struct {
	last types.Query
}

func (f *fakeDeps) Options(context.Context) (types.Options, error) {
	return types.Options{Positions: []string{"All", "QB"}, YearMin: 2010, YearMax: 2023}, nil
}

func (f *fakeDeps) Summary(_ context.Context, q types.Query) (types.Summary, error) {
	f.last = q
	return types.Summary{TotalPlayers: 3, YearMin: q.YearMin, YearMax: q.YearMax}, nil
}

func (f *fakeDeps) Top(_ context.Context, q types.Query) (types.Ranking, error) {
	f.last = q
	if q.Metric == "bogus" {
		return types.Ranking{}, fmt.Errorf("%w: %q", model.ErrUnknownMetric, q.Metric)
	}
	return types.Ranking{Metric: q.Metric, N: q.N, Performers: []types.Performer{{Rank: 1, Player: "Alpha Able", Value: 4.4}}}, nil
}

func (f *fakeDeps) AllTime(_ context.Context, q types.Query) (types.Ranking, error) {
	f.last = q
	return types.Ranking{Metric: "forty", Position: q.Position}, nil
}

func (f *fakeDeps) Compare(_ context.Context, a, b string) (types.Comparison, error) {
	return types.Comparison{Position: "QB", A: types.Entity{Player: a}, B: types.Entity{Player: b}}, nil
}

func (f *fakeDeps) Regions(_ context.Context, q types.Query) (types.Regions, error) {
	f.last = q
	return types.Regions{Mapped: 2}, nil
}

func (f *fakeDeps) Pipeline(_ context.Context, q types.Query) (types.Pipeline, error) {
	f.last = q
	return types.Pipeline{Available: q.Position != "", Position: q.Position}, nil
}

func connect(ctx context.Context, s *Server) *sdk.ClientSession {
	clientT, serverT := sdk.NewInMemoryTransports()
	_, err := s.Connect(ctx, serverT)
	So(err, ShouldBeNil)
	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	So(err, ShouldBeNil)
	return session
}

func text(res *sdk.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(*sdk.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestServer_Tools(t *testing.T) {
	Convey("Given an MCP server over fake dependencies", t, func() {
		ctx := context.Background()
		deps := &fakeDeps{}
		s := NewServer(deps)

		Convey("Then every tool is registered", func() {
			names := make([]string, 0, len(s.Tools()))
			for _, ti := range s.Tools() {
				names = append(names, ti.Name)
			}
			So(names, ShouldResemble, []string{
				"dataset_options", "dataset_summary", "top_performers", "all_time_best",
				"compare_players", "region_counts", "school_pipeline",
			})
		})

		Convey("When a client connects", func() {
			session := connect(ctx, s)
			defer session.Close()

			Convey("Then it lists the tools", func() {
				res, err := session.ListTools(ctx, nil)
				So(err, ShouldBeNil)
				So(res.Tools, ShouldHaveLength, 7)
			})

			Convey("Then top_performers forwards its arguments", func() {
				res, err := session.CallTool(ctx, &sdk.CallToolParams{
					Name:      "top_performers",
					Arguments: map[string]any{"year_min": 2015, "position": "QB", "metric": "forty", "n": 5},
				})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(deps.last, ShouldResemble, types.Query{YearMin: 2015, Position: "QB", Metric: "forty", N: 5})

				var ranking types.Ranking
				So(json.Unmarshal([]byte(text(res)), &ranking), ShouldBeNil)
				So(ranking.Performers[0].Player, ShouldEqual, "Alpha Able")
			})

			Convey("Then query failures come back as tool errors", func() {
				res, err := session.CallTool(ctx, &sdk.CallToolParams{
					Name:      "top_performers",
					Arguments: map[string]any{"metric": "bogus"},
				})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, "unknown metric")
			})

			Convey("Then compare_players requires both names", func() {
				res, err := session.CallTool(ctx, &sdk.CallToolParams{
					Name:      "compare_players",
					Arguments: map[string]any{"player_a": "Alpha Able"},
				})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, ErrMissingPlayer.Error())

				res, err = session.CallTool(ctx, &sdk.CallToolParams{
					Name:      "compare_players",
					Arguments: map[string]any{"player_a": "", "player_b": "Beta Baker"},
				})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, ErrMissingPlayer.Error())
			})

			Convey("Then school_pipeline and dataset_options answer", func() {
				res, err := session.CallTool(ctx, &sdk.CallToolParams{
					Name:      "school_pipeline",
					Arguments: map[string]any{"position": "WR"},
				})
				So(err, ShouldBeNil)
				So(text(res), ShouldContainSubstring, `"position": "WR"`)

				res, err = session.CallTool(ctx, &sdk.CallToolParams{Name: "dataset_options", Arguments: map[string]any{}})
				So(err, ShouldBeNil)
				So(text(res), ShouldContainSubstring, `"year_max": 2023`)
			})
		})

		Convey("Then the tools listing is served over HTTP", func() {
			w := httptest.NewRecorder()
			s.ToolsHandler()(w, httptest.NewRequest(http.MethodGet, "/mcp/tools", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "compare_players")
		})
	})
}
