// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view turns article records into display-ready records: which
// action button a record gets, and the fallbacks for missing fields.
package view

import (
	"strings"

	"github.com/pdiddy/research-view/pkg/types"
)

// ActionKind is the affordance offered for a record.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCopyID
	ActionOpenDOI
	ActionOpenLink
)

func (k ActionKind) String() string {
	switch k {
	case ActionCopyID:
		return "copy_id"
	case ActionOpenDOI:
		return "open_doi"
	case ActionOpenLink:
		return "open_link"
	default:
		return "none"
	}
}

// Action is the one affordance chosen for a record. Value holds the thesis
// id, the DOI or the URL depending on Kind.
type Action struct {
	Kind  ActionKind
	Value string
}

// UnknownThesisID is copied when a thesis record carries no identifier.
const UnknownThesisID = "unknown"

const doiResolver = "https://doi.org/"

// Href returns the link target for DOI and link actions, "" otherwise.
func (a Action) Href() string {
	switch a.Kind {
	case ActionOpenDOI:
		return DOIURL(a.Value)
	case ActionOpenLink:
		return a.Value
	default:
		return ""
	}
}

// DOIURL resolves a bare DOI through doi.org. Values that are already URLs
// are returned unchanged.
func DOIURL(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return doi
	}
	if strings.HasPrefix(lower, "doi:") {
		doi = strings.TrimSpace(doi[len("doi:"):])
	}
	return doiResolver + doi
}

// noLinkPlaceholders are url values that mean "no link".
var noLinkPlaceholders = map[string]bool{
	"#":   true,
	"n/a": true,
	"nan": true,
}

// IsThesis reports whether a is a graduate thesis record. The stable slug
// and the identifier are checked before the free-text source label.
func IsThesis(a types.ArticleRecord) bool {
	return a.JournalSlug == types.SourceYokTez ||
		present(a.ThesisID) ||
		strings.Contains(a.Source, "YÖK Tez")
}

// IsDOISource reports whether a comes from a DOI-centric source.
func IsDOISource(a types.ArticleRecord) bool {
	return a.JournalSlug == types.SourceTRDizin ||
		strings.Contains(a.Source, "TRDizin") ||
		strings.Contains(a.Source, "TR Dizin")
}

// ClassifyAction picks exactly one action for a. Thesis records copy their
// id; DOI-source records with a DOI open it; otherwise a usable url opens
// the article. A DOI-source record without a DOI falls through to the url.
func ClassifyAction(a types.ArticleRecord) Action {
	if IsThesis(a) {
		id := strings.TrimSpace(a.ThesisID)
		if id == "" {
			id = UnknownThesisID
		}
		return Action{Kind: ActionCopyID, Value: id}
	}
	if IsDOISource(a) && present(a.DOI) {
		return Action{Kind: ActionOpenDOI, Value: strings.TrimSpace(a.DOI)}
	}
	if url := strings.TrimSpace(a.URL); url != "" && !noLinkPlaceholders[strings.ToLower(url)] {
		return Action{Kind: ActionOpenLink, Value: url}
	}
	return Action{Kind: ActionNone}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
