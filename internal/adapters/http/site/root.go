// Package site serves the embedded static assets and the root redirect.
package site

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
)

// Paths served by Register.
const (
	StaticPrefix  = "/static/"
	DashboardPath = "/dashboard"
	staticMaxAge  = "public, max-age=86400"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded assets rooted at the static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Only reachable if the embed directive changes.
		panic(err)
	}
	return http.FS(sub)
}

// Register attaches /static/*, /robots.txt and the root redirect to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	files := http.FileServer(FS())

	mux.Handle(StaticPrefix, cached(http.StripPrefix(StaticPrefix, files)))
	mux.Handle("/robots.txt", files)
	mux.HandleFunc("/", HandleRoot)
}

// cached lets clients keep assets for a day; they only change with a release.
func cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticMaxAge)
		next.ServeHTTP(w, r)
	})
}

// HandleRoot redirects GET / to the dashboard. Any other unmatched path is
// not found.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, DashboardPath, http.StatusFound)
}
