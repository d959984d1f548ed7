package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/pipeline"
)

// layoutOptions builds pipeline options from the request's query
// parameters: collapsed (comma-separated person IDs), refresh, edges,
// detailed.
func layoutOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		TreeID:    chi.URLParam(r, "treeID"),
		Refresh:   q.Get("refresh") == "true" || q.Get("refresh") == "1",
		ShowEdges: q.Get("edges") == "true" || q.Get("edges") == "1",
		Detailed:  q.Get("detailed") == "true" || q.Get("detailed") == "1",
	}
	if c := q.Get("collapsed"); c != "" {
		opts.Collapsed = strings.Split(c, ",")
	}
	return opts
}

// handleLayout computes (or fetches from cache) the layout for a tree
// and returns it as JSON.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := layoutOptions(r)

	t, err := s.store.GetTree(r.Context(), opts.TreeID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), t, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("X-Cache", cacheHeader(hit))
	s.respondJSON(w, http.StatusOK, l)
}

// handleRender returns a rendered artifact for a tree. The format query
// parameter selects svg (default), png, or dot.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := layoutOptions(r)
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format"))
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
