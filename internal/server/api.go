// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/research-view/internal/search"
	"github.com/pdiddy/research-view/pkg/types"
)

// apiSearch answers GET /api/search with the standard response, or the
// legacy "<source>_results" shape when format=legacy.
func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.apiQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := s.store.SearchAll(r.Context(), q.CatalogOptions())
	s.metrics.RecordSearch("api", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", q.Keyword).Msg("catalog search failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "legacy" {
		writeJSON(w, http.StatusOK, types.LegacyFrom(resp.Keyword, resp.Sources))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// apiSource answers GET /api/{source} with the direct response for one
// source.
func (s *Server) apiSource(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if !slices.Contains(types.KnownSources, source) {
		writeError(w, http.StatusNotFound, "unknown source "+source)
		return
	}
	q, ok := s.apiQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	results, err := s.store.Search(r.Context(), source, q.CatalogOptions())
	s.metrics.RecordSearch("api", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("catalog search failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, types.DirectResponse{
		Keyword:      q.Keyword,
		Source:       source,
		TotalResults: len(results),
		Results:      results,
	})
}

// apiQuery parses and validates the request query, writing a 400 or 503
// answer when it cannot be served.
func (s *Server) apiQuery(w http.ResponseWriter, r *http.Request) (search.Query, bool) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not configured")
		return search.Query{}, false
	}
	q, err := search.ParseQuery(r.URL.Query())
	if err == nil {
		err = q.Validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, search.Reason(err))
		return search.Query{}, false
	}
	return q, true
}
