package api

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/okian/combine/internal/adapters/http/view"
)

// DashboardHandler renders the HTML dashboard.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests. Missing years fall back to
// the configured default window rather than the full dataset span.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()

	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	opts, err := h.deps.Options(ctx)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	if q.YearMin == 0 {
		q.YearMin = opts.DefaultYearMin
	}
	if q.YearMax == 0 {
		q.YearMax = opts.DefaultYearMax
	}

	data := view.DashboardData{Query: q, Options: opts}
	data.PlayerA, data.PlayerB = dashboardPair(r, opts.Players)
	if data.Summary, err = h.deps.Summary(ctx, q); err != nil {
		fail(w, r, op, err)
		return
	}
	if data.Top, err = h.deps.Top(ctx, q); err != nil {
		fail(w, r, op, err)
		return
	}
	if data.AllTime, err = h.deps.AllTime(ctx, q); err != nil {
		fail(w, r, op, err)
		return
	}
	if data.Regions, err = h.deps.Regions(ctx, q); err != nil {
		fail(w, r, op, err)
		return
	}
	if data.Pipeline, err = h.deps.Pipeline(ctx, q); err != nil {
		fail(w, r, op, err)
		return
	}

	if data.PlayerA != "" && data.PlayerB != "" {
		cmp, err := h.deps.Compare(ctx, data.PlayerA, data.PlayerB)
		switch status, _ := classify(err); {
		case err == nil:
			data.Comparison = &cmp
		case status == http.StatusNotFound:
			data.CompareError = err.Error()
		default:
			fail(w, r, op, err)
			return
		}
	}

	templ.Handler(view.Dashboard(data)).ServeHTTP(w, r)
}

// dashboardPair reads the compared players. A parameter left out of the query
// defaults to the first, then second, eligible player so the comparison is
// shown on first load; an explicitly empty one stays empty.
func dashboardPair(r *http.Request, players []string) (string, string) {
	v := r.URL.Query()
	pick := func(key string, i int) string {
		if v.Has(key) {
			return strings.TrimSpace(v.Get(key))
		}
		if i < len(players) {
			return players[i]
		}
		return ""
	}
	return pick("a", 0), pick("b", 1)
}
