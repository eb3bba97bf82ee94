package api

import "net/http"

// CompareHandler serves percentile comparisons of two players.
type CompareHandler struct {
	deps Dependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps Dependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompare handles GET /api/compare?a=<name>&b=<name> requests.
// A missing or ineligible name yields 404.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	a, b, err := pair(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	cmp, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
