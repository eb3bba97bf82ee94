package api

import (
	"context"
	"net/http"

	"github.com/okian/combine/internal/domain/types"
)

// RankingHandler serves the filtered and all-time rankings.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleTop handles GET /api/top requests.
func (h *RankingHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.top", h.deps.Top)
}

// HandleAllTime handles GET /api/alltime requests. Year parameters are
// accepted but ignored.
func (h *RankingHandler) HandleAllTime(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "api.alltime", h.deps.AllTime)
}

func (h *RankingHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	rank func(context.Context, types.Query) (types.Ranking, error),
) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	out, err := rank(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
