// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/internal/metrics"
	"github.com/pdiddy/research-finder/internal/search"
	"github.com/pdiddy/research-finder/pkg/types"
)

// Searcher runs one aggregated search. *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) (types.SearchResponse, error)
}

// Server wires HTTP handlers to the search engine.
type Server struct {
	router   chi.Router
	searcher Searcher
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. When
// cfg.StaticDir is set, its files are served for every path not matched by
// an API route.
func NewServer(searcher Searcher, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{searcher: searcher, logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/search", s.search)
	r.Handle("/metrics", metrics.Handler())

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

const (
	msgQueryRequired = "Search query is required"
	msgFetchFailed   = "Failed to fetch results"
	msgInternal      = "internal error while aggregating sources"
)

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgQueryRequired}, s.logger)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("search panicked",
				zap.String("query", query),
				zap.String("request_id", requestID(r.Context())),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			writeJSON(w, http.StatusInternalServerError,
				errorBody{Error: msgFetchFailed, Message: msgInternal}, s.logger)
		}
	}()

	resp, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgQueryRequired}, s.logger)
			return
		}
		s.logger.Error("search failed",
			zap.String("query", query),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgFetchFailed, Message: msgInternal}, s.logger)
		return
	}

	if resp.Results == nil {
		resp.Results = []types.Record{}
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}
