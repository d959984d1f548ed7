// Package server exposes family trees over a REST API.
//
// Routes are mounted under /api:
//
//	GET    /health                          liveness and version
//	GET    /api/trees                       list tree summaries
//	POST   /api/trees                       create a tree
//	GET    /api/trees/{treeID}              fetch a full tree
//	PUT    /api/trees/{treeID}              replace a tree's contents
//	DELETE /api/trees/{treeID}              delete a tree
//	POST   /api/trees/{treeID}/persons      add a person
//	PUT    /api/trees/{treeID}/persons/{personID}
//	DELETE /api/trees/{treeID}/persons/{personID}
//	POST   /api/trees/{treeID}/relationships
//	DELETE /api/trees/{treeID}/relationships
//	GET    /api/trees/{treeID}/layout       computed positions (cached)
//	GET    /api/trees/{treeID}/render       svg/png/dot artifact (cached)
//
// Error responses carry a machine-readable code from pkg/errors:
//
//	{"error": "tree not found: x", "code": "TREE_NOT_FOUND"}
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/pipeline"
	"github.com/kintreehq/kintree/pkg/store"
)

// Server is the HTTP API over a tree store. It is an http.Handler and
// can be mounted into any mux or served directly.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by the given store and cache.
// A nil cache disables layout and artifact caching; a nil logger falls
// back to the default logger.
func New(st store.Store, c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:  st,
		runner: pipeline.NewRunner(st, c, logger),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api/trees", func(r chi.Router) {
		r.Get("/", s.handleListTrees)
		r.Post("/", s.handleCreateTree)

		r.Route("/{treeID}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Put("/", s.handleUpdateTree)
			r.Delete("/", s.handleDeleteTree)

			r.Post("/persons", s.handleAddPerson)
			r.Put("/persons/{personID}", s.handleUpdatePerson)
			r.Delete("/persons/{personID}", s.handleDeletePerson)

			r.Post("/relationships", s.handleAddRelationship)
			r.Delete("/relationships", s.handleDeleteRelationship)

			r.Get("/layout", s.handleLayout)
			r.Get("/render", s.handleRender)
		})
	})

	return r
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	s.respondJSON(w, errorStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

// errorStatus maps pkg/errors codes to HTTP status codes. Unknown
// errors are internal.
func errorStatus(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPerson,
		errors.ErrCodeInvalidRelationship, errors.ErrCodeInvalidTree,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGEDCOM,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
