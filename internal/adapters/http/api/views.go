package api

import "net/http"

// ViewsHandler serves the summary, region and pipeline views of a filter.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleSummary handles GET /api/summary requests.
func (h *ViewsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	out, err := h.deps.Summary(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleRegions handles GET /api/regions requests.
func (h *ViewsHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	const op = "api.regions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	out, err := h.deps.Regions(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePipeline handles GET /api/pipeline requests. Without a concrete
// position the body reports the view as unavailable.
func (h *ViewsHandler) HandlePipeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.pipeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	out, err := h.deps.Pipeline(r.Context(), q)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
