// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/internal/render"
	"github.com/pdiddy/research-view/internal/search"
)

var (
	scriptAsset     = []byte(render.Script)
	stylesheetAsset = []byte(render.Stylesheet)
)

// pageHandler serves the search form at / and result pages at /search.
// Invalid queries answer 400 and backend failures 502, each with the error
// view; a response that cannot be normalized renders the error view with
// 200 since the request itself succeeded.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	var opts []render.Option
	if base := strings.TrimRight(s.cfg.AssetBase, "/"); base != "" {
		opts = append(opts, render.WithAssetBase(base))
	}
	v := render.NewView(s.labels, opts...)
	status := http.StatusOK

	q, err := search.ParseQuery(r.URL.Query())
	if len(q.Sources) == 0 {
		q.Sources = s.defaultSources
	}
	v.SetForm(render.Form{
		Keyword:    q.Keyword,
		Sources:    q.RequestedSources(),
		Threshold:  q.Threshold,
		MaxResults: r.URL.Query().Get("max_results"),
	})

	switch {
	case r.URL.Path == "/" && q.Keyword == "":
		// Bare form.
	case err != nil:
		v.ShowError(search.Reason(err))
		status = http.StatusBadRequest
	default:
		status = s.runSearch(r, q, v)
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := v.WriteHTML(&buf); err != nil {
		s.logger.Error().Err(err).Msg("rendering page")
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordRender(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// runSearch fetches and renders q into v and returns the HTTP status.
func (s *Server) runSearch(r *http.Request, q search.Query, v *render.View) int {
	if err := q.Validate(); err != nil {
		v.ShowError(search.Reason(err))
		return http.StatusBadRequest
	}

	v.ShowLoading()
	out, err := search.Search(r.Context(), s.backend, q)
	v.HideLoading()

	switch {
	case err == nil:
		s.metrics.RecordResponse(out.Shape.String(), sectionCounts(out))
		v.Render(out.Sections, q.Keyword)
		return http.StatusOK
	case errors.Is(err, normalize.ErrNoData), errors.Is(err, normalize.ErrUnrecognizedFormat):
		s.metrics.RecordResponse(render.KindOf(err).String(), nil)
		s.logger.Warn().Err(err).Str("keyword", q.Keyword).Msg("response not usable")
		v.Fail(err)
		return http.StatusOK
	default:
		s.logger.Error().Err(err).Str("keyword", q.Keyword).Msg("search failed")
		v.Fail(err)
		return http.StatusBadGateway
	}
}

func sectionCounts(out search.Output) map[string]int {
	counts := make(map[string]int, len(out.Sections))
	for _, sec := range out.Sections {
		counts[sec.Key] = len(sec.Bucket.Results)
	}
	return counts
}

func staticHandler(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(body)
	}
}
