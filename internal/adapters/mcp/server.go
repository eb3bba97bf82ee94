// Package mcp exposes the combine queries as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
	"github.com/okian/combine/pkg/metrics"
)

// Implementation identity reported to MCP clients.
const (
	ServerName    = "combine-analytics"
	ServerVersion = "1.0.0"
)

// ErrMissingPlayer is returned when compare_players lacks a name.
var ErrMissingPlayer = errors.New("both player_a and player_b are required")

// Dependencies are the read operations the tools call.
type Dependencies interface {
	Options(ctx context.Context) (types.Options, error)
	Summary(ctx context.Context, q types.Query) (types.Summary, error)
	Top(ctx context.Context, q types.Query) (types.Ranking, error)
	AllTime(ctx context.Context, q types.Query) (types.Ranking, error)
	Compare(ctx context.Context, a, b string) (types.Comparison, error)
	Regions(ctx context.Context, q types.Query) (types.Regions, error)
	Pipeline(ctx context.Context, q types.Query) (types.Pipeline, error)
}

// FilterArgs narrows a view by years and position.
type FilterArgs struct {
	YearMin  int    `json:"year_min,omitempty" jsonschema:"First year to include (0 = dataset start)"`
	YearMax  int    `json:"year_max,omitempty" jsonschema:"Last year to include (0 = dataset end)"`
	Position string `json:"position,omitempty" jsonschema:"Position code such as QB or WR (empty = All)"`
}

// RankingArgs selects a drill ranking over a filtered view.
type RankingArgs struct {
	YearMin  int    `json:"year_min,omitempty" jsonschema:"First year to include (0 = dataset start)"`
	YearMax  int    `json:"year_max,omitempty" jsonschema:"Last year to include (0 = dataset end)"`
	Position string `json:"position,omitempty" jsonschema:"Position code such as QB or WR (empty = All)"`
	Metric   string `json:"metric,omitempty" jsonschema:"Drill: forty|vertical|bench|broad_jump|threecone|shuttle (default forty)"`
	N        int    `json:"n,omitempty" jsonschema:"Number of players, clamped to the configured bounds"`
}

// AllTimeArgs selects an all-time ranking at one position.
type AllTimeArgs struct {
	Position string `json:"position,omitempty" jsonschema:"Position code (empty = All)"`
	Metric   string `json:"metric,omitempty" jsonschema:"Drill name (default forty)"`
	N        int    `json:"n,omitempty" jsonschema:"Number of players, clamped to the configured bounds"`
}

// PipelineArgs selects a school distribution.
type PipelineArgs struct {
	YearMin  int    `json:"year_min,omitempty" jsonschema:"First year to include (0 = dataset start)"`
	YearMax  int    `json:"year_max,omitempty" jsonschema:"Last year to include (0 = dataset end)"`
	Position string `json:"position,omitempty" jsonschema:"Position code; the view needs a concrete position"`
	Metric   string `json:"metric,omitempty" jsonschema:"Drill name (default forty)"`
}

// CompareArgs names the two compared players.
type CompareArgs struct {
	PlayerA string `json:"player_a,omitempty" jsonschema:"Reference player; the peer pool is this player's position (required)"`
	PlayerB string `json:"player_b,omitempty" jsonschema:"Second player (required)"`
}

// NoArgs is the input of parameterless tools.
type NoArgs struct{}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server owns the MCP server and its tool registry.
type Server struct {
	deps     Dependencies
	server   *sdk.Server
	registry []ToolInfo
	logger   logger.Logger
}

// NewServer builds an MCP server with every combine tool registered.
func NewServer(deps Dependencies) *Server {
	s := &Server{
		deps:   deps,
		server: sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: ServerVersion}, nil),
		logger: logger.Named("mcp"),
	}
	s.register()
	return s
}

// Tools returns the names and descriptions of the registered tools.
func (s *Server) Tools() []ToolInfo {
	return append([]ToolInfo(nil), s.registry...)
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return s.server
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// ToolsHandler lists the registered tools as JSON.
func (s *Server) ToolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{"tools": s.registry})
	}
}

// Run serves the tools over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func addTool[T any](s *Server, tool *sdk.Tool, handler func(context.Context, T) (any, error)) {
	s.registry = append(s.registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	name := tool.Name
	sdk.AddTool(s.server, tool, func(ctx context.Context, _ *sdk.CallToolRequest, args T) (*sdk.CallToolResult, any, error) {
		out, err := handler(ctx, args)
		if err != nil {
			metrics.RecordErrorByComponent("mcp", name)
			s.logger.Warn(ctx, "tool call failed", logger.String("tool", name), logger.Error(err))
			return toolError(err), nil, nil
		}
		return toolJSON(out)
	})
}

func (s *Server) register() {
	addTool(s, &sdk.Tool{
		Name:        "dataset_options",
		Description: "Positions, drills with their direction, year bounds, top-N bounds and players eligible for comparison",
	}, func(ctx context.Context, _ NoArgs) (any, error) {
		return s.deps.Options(ctx)
	})

	addTool(s, &sdk.Tool{
		Name:        "dataset_summary",
		Description: "Total players, unique schools and positions for a year range and position",
	}, func(ctx context.Context, args FilterArgs) (any, error) {
		return s.deps.Summary(ctx, args.query())
	})

	addTool(s, &sdk.Tool{
		Name:        "top_performers",
		Description: "Best results on one drill within a year range and position, best first",
	}, func(ctx context.Context, args RankingArgs) (any, error) {
		return s.deps.Top(ctx, types.Query{
			YearMin: args.YearMin, YearMax: args.YearMax, Position: args.Position, Metric: args.Metric, N: args.N,
		})
	})

	addTool(s, &sdk.Tool{
		Name:        "all_time_best",
		Description: "Best results on one drill across every year at a position",
	}, func(ctx context.Context, args AllTimeArgs) (any, error) {
		return s.deps.AllTime(ctx, types.Query{Position: args.Position, Metric: args.Metric, N: args.N})
	})

	addTool(s, &sdk.Tool{
		Name:        "compare_players",
		Description: "Percentile standing of two players on every drill against all records at the first player's position",
	}, func(ctx context.Context, args CompareArgs) (any, error) {
		if args.PlayerA == "" || args.PlayerB == "" {
			return nil, ErrMissingPlayer
		}
		return s.deps.Compare(ctx, args.PlayerA, args.PlayerB)
	})

	addTool(s, &sdk.Tool{
		Name:        "region_counts",
		Description: "Number of players per state of their school for a year range and position",
	}, func(ctx context.Context, args FilterArgs) (any, error) {
		return s.deps.Regions(ctx, args.query())
	})

	addTool(s, &sdk.Tool{
		Name:        "school_pipeline",
		Description: "Drill distribution (min, quartiles, median, max) for the schools producing the most players at a position",
	}, func(ctx context.Context, args PipelineArgs) (any, error) {
		return s.deps.Pipeline(ctx, types.Query{
			YearMin: args.YearMin, YearMax: args.YearMax, Position: args.Position, Metric: args.Metric,
		})
	})
}

func (a FilterArgs) query() types.Query {
	return types.Query{YearMin: a.YearMin, YearMax: a.YearMax, Position: a.Position}
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
