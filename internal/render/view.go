// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render holds the result page controller: the per-search view
// state, its transitions (render, toggle, expand/collapse all, error and
// loading) and the HTML it produces.
package render

import (
	"errors"

	"github.com/google/uuid"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

// Phase is the display state of the page.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResults
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseResults:
		return "results"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// ErrorKind classifies a failed search for display.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorNoData
	ErrorUnrecognizedFormat
	ErrorRequest
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNoData:
		return "no_data"
	case ErrorUnrecognizedFormat:
		return "unrecognized_format"
	case ErrorRequest:
		return "request"
	default:
		return "none"
	}
}

// KindOf maps err onto the display taxonomy. Errors other than the
// normalizer's are request failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, normalize.ErrNoData):
		return ErrorNoData
	case errors.Is(err, normalize.ErrUnrecognizedFormat):
		return ErrorUnrecognizedFormat
	default:
		return ErrorRequest
	}
}

// SectionState is one rendered source section.
type SectionState struct {
	Key        string
	Name       string
	Total      int
	SearchType string
	Records    []view.DisplayRecord
	Expanded   bool
}

// Form carries the values echoed back into the search form.
type Form struct {
	Keyword    string
	Sources    []string
	Threshold  string
	MaxResults string
}

// Has reports whether source is selected.
func (f Form) Has(source string) bool {
	for _, s := range f.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// View is the state of one result page. It is not safe for concurrent use;
// each page session owns its own View.
type View struct {
	sessionID string
	labels    view.Labels
	builder   view.Builder
	anim      *LoadingAnimationController

	phase     Phase
	query     string
	sections  []SectionState
	errMsg    string
	errKind   ErrorKind
	form      Form
	inline    bool
	assetBase string
}

// Option configures a View.
type Option func(*View)

// WithAnimation attaches a loading animation that ShowLoading starts and
// every search outcome stops.
func WithAnimation(c *LoadingAnimationController) Option {
	return func(v *View) { v.anim = c }
}

// WithInlineAssets embeds the script and stylesheet in the page so the
// HTML works as a standalone file.
func WithInlineAssets() Option {
	return func(v *View) { v.inline = true }
}

// WithAssetBase sets the URL prefix the page loads its assets from.
func WithAssetBase(base string) Option {
	return func(v *View) { v.assetBase = base }
}

// NewView returns an idle view with a fresh session id.
func NewView(labels view.Labels, opts ...Option) *View {
	v := &View{
		sessionID: uuid.NewString(),
		labels:    labels,
		builder:   view.Builder{Labels: labels},
		assetBase: "/static",
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SessionID identifies the page session.
func (v *View) SessionID() string { return v.sessionID }

// Phase returns the current display state.
func (v *View) Phase() Phase { return v.phase }

// Query returns the keyword of the last rendered search.
func (v *View) Query() string { return v.query }

// Error returns the message and kind of the error being shown.
func (v *View) Error() (string, ErrorKind) { return v.errMsg, v.errKind }

// Labels returns the label set the view renders with.
func (v *View) Labels() view.Labels { return v.labels }

// Sections returns a copy of the rendered sections.
func (v *View) Sections() []SectionState {
	out := make([]SectionState, len(v.sections))
	copy(out, v.sections)
	return out
}

// Expanded reports whether the section key is expanded; ok is false for
// keys that are not rendered.
func (v *View) Expanded(key string) (expanded, ok bool) {
	for _, s := range v.sections {
		if s.Key == key {
			return s.Expanded, true
		}
	}
	return false, false
}

// SetForm sets the values shown in the search form.
func (v *View) SetForm(f Form) { v.form = f }

// Render replaces the page with the given search result. Buckets without
// records are dropped; if nothing remains the page shows the no-results
// placeholder. Only the first section starts expanded.
func (v *View) Render(sections types.Sections, query string) {
	v.stopAnimation()
	v.reset()
	v.query = query

	for _, sec := range sections {
		if len(sec.Bucket.Results) == 0 {
			continue
		}
		total := len(sec.Bucket.Results)
		if sec.Bucket.TotalResults != nil && *sec.Bucket.TotalResults > total {
			total = *sec.Bucket.TotalResults
		}
		v.sections = append(v.sections, SectionState{
			Key:        sec.Key,
			Name:       view.SourceName(sec.Key),
			Total:      total,
			SearchType: sec.Bucket.SearchType,
			Records:    v.builder.BuildAll(sec.Bucket.Results),
			Expanded:   len(v.sections) == 0,
		})
	}

	if len(v.sections) == 0 {
		v.phase = PhaseEmpty
		return
	}
	v.phase = PhaseResults
}

// Toggle flips the section key between expanded and collapsed. Unknown keys
// are ignored.
func (v *View) Toggle(key string) {
	for i := range v.sections {
		if v.sections[i].Key == key {
			v.sections[i].Expanded = !v.sections[i].Expanded
			return
		}
	}
}

// ExpandAll expands every section.
func (v *View) ExpandAll() { v.setAll(true) }

// CollapseAll collapses every section.
func (v *View) CollapseAll() { v.setAll(false) }

func (v *View) setAll(expanded bool) {
	for i := range v.sections {
		v.sections[i].Expanded = expanded
	}
}

// ShowError replaces the page with an error message. No section is shown
// alongside it.
func (v *View) ShowError(message string) {
	v.showError(message, ErrorRequest)
}

// Fail shows err, classified with KindOf.
func (v *View) Fail(err error) {
	if err == nil {
		return
	}
	v.showError(err.Error(), KindOf(err))
}

func (v *View) showError(message string, kind ErrorKind) {
	v.stopAnimation()
	v.reset()
	v.phase = PhaseError
	v.errMsg = message
	v.errKind = kind
}

// ShowLoading starts a new search: prior results are discarded and the busy
// indicator is shown.
func (v *View) ShowLoading() {
	v.reset()
	v.phase = PhaseLoading
	if v.anim != nil {
		v.anim.Start()
	}
}

// HideLoading stops the busy indicator. A page still loading returns to
// idle; other phases are left as they are.
func (v *View) HideLoading() {
	v.stopAnimation()
	if v.phase == PhaseLoading {
		v.phase = PhaseIdle
	}
}

func (v *View) stopAnimation() {
	if v.anim != nil {
		v.anim.Stop()
	}
}

func (v *View) reset() {
	v.phase = PhaseIdle
	v.query = ""
	v.sections = nil
	v.errMsg = ""
	v.errKind = ErrorNone
}

// total sums the record counts of the rendered sections.
func (v *View) total() int {
	n := 0
	for _, s := range v.sections {
		n += len(s.Records)
	}
	return n
}

// frame returns the busy indicator's current frame.
func (v *View) frame() Frame {
	if v.anim != nil {
		return v.anim.Frame()
	}
	msg := ""
	if len(v.labels.LoadingMessages) > 0 {
		msg = v.labels.LoadingMessages[0]
	}
	return Frame{Emoji: LoadingEmojis[0], Message: msg}
}
