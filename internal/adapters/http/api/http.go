// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/combine/internal/adapters/repository"
	service "github.com/okian/combine/internal/app"
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/types"
	"github.com/okian/combine/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Options(ctx context.Context) (types.Options, error)
	Summary(ctx context.Context, q types.Query) (types.Summary, error)
	Top(ctx context.Context, q types.Query) (types.Ranking, error)
	AllTime(ctx context.Context, q types.Query) (types.Ranking, error)
	Compare(ctx context.Context, a, b string) (types.Comparison, error)
	Regions(ctx context.Context, q types.Query) (types.Regions, error)
	Pipeline(ctx context.Context, q types.Query) (types.Pipeline, error)
	Players(ctx context.Context) (types.Players, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	opsHandler       *OpsHandler
	catalogHandler   *CatalogHandler
	rankingHandler   *RankingHandler
	compareHandler   *CompareHandler
	viewsHandler     *ViewsHandler
	exportHandler    *ExportHandler
	chartHandler     *ChartHandler
	dashboardHandler *DashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		opsHandler:       NewOpsHandler(statsProvider),
		catalogHandler:   NewCatalogHandler(deps),
		rankingHandler:   NewRankingHandler(deps),
		compareHandler:   NewCompareHandler(deps),
		viewsHandler:     NewViewsHandler(deps),
		exportHandler:    NewExportHandler(deps),
		chartHandler:     NewChartHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.opsHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.opsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))

	mux.HandleFunc("/api/options", MetricsMiddleware(s.catalogHandler.HandleOptions, "options"))
	mux.HandleFunc("/api/players", MetricsMiddleware(s.catalogHandler.HandlePlayers, "players"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.viewsHandler.HandleSummary, "summary"))
	mux.HandleFunc("/api/top", MetricsMiddleware(s.rankingHandler.HandleTop, "top"))
	mux.HandleFunc("/api/alltime", MetricsMiddleware(s.rankingHandler.HandleAllTime, "alltime"))
	mux.HandleFunc("/api/compare", MetricsMiddleware(s.compareHandler.HandleCompare, "compare"))
	mux.HandleFunc("/api/regions", MetricsMiddleware(s.viewsHandler.HandleRegions, "regions"))
	mux.HandleFunc("/api/pipeline", MetricsMiddleware(s.viewsHandler.HandlePipeline, "pipeline"))
	mux.HandleFunc("/api/export/top.xlsx", MetricsMiddleware(s.exportHandler.HandleTopXLSX, "export_top"))
	mux.HandleFunc("/charts/compare.png", MetricsMiddleware(s.chartHandler.HandleComparePNG, "chart_compare"))
}

type errorResponse = types.ErrorResponse

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an upstream error to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrUnknownMetric):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, service.ErrIneligible),
		errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, repository.ErrNotLoaded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail writes err with the status classify assigns to it. Server-side
// failures are logged.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}

// parseQuery reads the shared filter parameters. Absent parameters stay
// zero so the service applies its defaults.
func parseQuery(r *http.Request) (types.Query, error) {
	v := r.URL.Query()
	q := types.Query{
		Position: v.Get("position"),
		Metric:   strings.TrimSpace(v.Get("metric")),
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"year_min", &q.YearMin},
		{"year_max", &q.YearMax},
		{"n", &q.N},
	} {
		raw := strings.TrimSpace(v.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return types.Query{}, WrapKind("api.parseQuery", ErrBadRequest, errors.New("invalid "+p.name))
		}
		*p.dst = n
	}

	if q.YearMin > 0 && q.YearMax > 0 && q.YearMin > q.YearMax {
		return types.Query{}, WrapKind("api.parseQuery", ErrBadRequest, errors.New("year_min is after year_max"))
	}
	return q, nil
}

// pair reads the two compared player names.
func pair(r *http.Request) (string, string, error) {
	a := strings.TrimSpace(r.URL.Query().Get("a"))
	b := strings.TrimSpace(r.URL.Query().Get("b"))
	switch {
	case a == "":
		return "", "", WrapKind("api.pair", ErrBadRequest, errors.New("missing player a"))
	case b == "":
		return "", "", WrapKind("api.pair", ErrBadRequest, errors.New("missing player b"))
	}
	return a, b, nil
}
