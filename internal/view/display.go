// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"math"
	"strings"

	"github.com/pdiddy/research-view/pkg/types"
)

// MaxKeywords caps the keyword chips shown per record.
const MaxKeywords = 5

// DisplayRecord is an article record with every field resolved for display.
type DisplayRecord struct {
	Title    string
	Authors  string
	Date     string
	Keywords []string

	// Similarity is the similarity score as a whole percentage, nil when
	// the record was not scored or the score is outside [0, 1].
	Similarity *int

	Volume string
	Issue  string
	Source string
	Rank   int
	Action Action
}

// missingValues are placeholder spellings that count as an absent field.
var missingValues = map[string]bool{
	"":        true,
	"unknown": true,
	"n/a":     true,
	"nan":     true,
	"none":    true,
}

// noKeywords are keyword strings that mean the record has none.
var noKeywords = map[string]bool{
	"n/a":         true,
	"no keywords": true,
	"none":        true,
	"nan":         true,
}

// Builder builds display records using one set of labels.
type Builder struct {
	Labels Labels
}

// BuildDisplayRecord builds a with the English labels.
func BuildDisplayRecord(a types.ArticleRecord) DisplayRecord {
	return Builder{Labels: English}.Build(a)
}

// Build resolves every field of a. It never fails: each field has a fallback.
func (b Builder) Build(a types.ArticleRecord) DisplayRecord {
	d := DisplayRecord{
		Title:    firstPresent(b.Labels.Untitled, a.Title, a.TitleTurkish, a.TitleEnglish),
		Authors:  firstPresent(b.Labels.UnknownAuthor, a.Authors),
		Date:     firstPresent(b.Labels.UnknownDate, a.PublicationDate, a.Year),
		Keywords: ParseKeywords(a.Keywords),
		Volume:   firstPresent("", a.Volume),
		Issue:    firstPresent("", a.Issue),
		Source:   strings.TrimSpace(a.Source),
		Rank:     a.Rank,
		Action:   ClassifyAction(a),
	}
	if score := a.SimilarityScore; score != nil && validScore(*score) {
		pct := int(math.Round(*score * 100))
		d.Similarity = &pct
	}
	return d
}

// validScore reports whether s is a finite score in [0, 1]. Anything else
// is shown as unscored.
func validScore(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s >= 0 && s <= 1
}

// BuildAll builds every record in order.
func (b Builder) BuildAll(records []types.ArticleRecord) []DisplayRecord {
	out := make([]DisplayRecord, len(records))
	for i, r := range records {
		out[i] = b.Build(r)
	}
	return out
}

// ParseKeywords splits a comma-separated keyword string, trims each entry,
// drops empty ones and keeps at most MaxKeywords in input order.
func ParseKeywords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || noKeywords[strings.ToLower(s)] {
		return []string{}
	}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
		if len(out) == MaxKeywords {
			break
		}
	}
	return out
}

func firstPresent(fallback string, values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !missingValues[strings.ToLower(v)] {
			return v
		}
	}
	return fallback
}
