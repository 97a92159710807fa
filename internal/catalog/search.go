// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/research-view/pkg/types"
)

// Relevance thresholds by name.
var thresholds = map[string]float64{
	"high":   0.8,
	"medium": 0.6,
	"low":    0.4,
}

// DefaultThreshold is used for empty or unknown threshold names.
const DefaultThreshold = "medium"

// Lexical scores of a phrase hit.
const (
	TitleScore     = 1.0
	SecondaryScore = 0.7
)

// AllResults as MaxResults returns every match.
const AllResults = -1

// SearchType is reported on every catalog bucket.
const SearchType = "exact_phrase"

// ThresholdValue maps a threshold name to its minimum score. Unknown names
// map to the medium threshold.
func ThresholdValue(name string) float64 {
	if v, ok := thresholds[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v
	}
	return thresholds[DefaultThreshold]
}

// ThresholdName returns name if it is a known threshold, DefaultThreshold
// otherwise.
func ThresholdName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := thresholds[name]; ok {
		return name
	}
	return DefaultThreshold
}

// SearchOptions holds the parameters of a catalog search.
type SearchOptions struct {
	Keyword string

	// Sources lists the source keys to search, in response order. Empty
	// means every known source.
	Sources []string

	// MaxResults caps results per source. Zero uses the store default;
	// AllResults disables the cap.
	MaxResults int

	// Threshold is high, medium or low. Empty uses the store default.
	Threshold string
}

// fieldSet names the fields matched for one source: title hits score
// TitleScore, secondary hits SecondaryScore.
type fieldSet struct {
	title     func(types.ArticleRecord) []string
	secondary func(types.ArticleRecord) []string
}

var sourceFields = map[string]fieldSet{
	types.SourceDergipark: {
		title:     func(r types.ArticleRecord) []string { return []string{r.Title} },
		secondary: func(r types.ArticleRecord) []string { return []string{r.Keywords} },
	},
	types.SourceTRDizin: {
		title:     func(r types.ArticleRecord) []string { return []string{r.TitleTurkish, r.TitleEnglish, r.Title} },
		secondary: func(r types.ArticleRecord) []string { return nil },
	},
	types.SourceYokTez: {
		title:     func(r types.ArticleRecord) []string { return []string{r.Title} },
		secondary: func(r types.ArticleRecord) []string { return []string{r.Authors} },
	},
}

var defaultFields = fieldSet{
	title:     func(r types.ArticleRecord) []string { return []string{r.Title, r.TitleTurkish, r.TitleEnglish} },
	secondary: func(r types.ArticleRecord) []string { return []string{r.Keywords, r.Authors} },
}

// sourceLabels are the free-text source labels of catalog hits.
var sourceLabels = map[string]string{
	types.SourceDergipark: "Dergipark (Local)",
	types.SourceTRDizin:   "TRDizin (Local)",
	types.SourceYokTez:    "YÖK Tez (Local)",
}

// folder lowercases with Turkish casing rules and folds dotless ı onto i so
// "ISTANBUL", "İstanbul" and "istanbul" all match. A folder is not safe for
// concurrent use.
type folder struct {
	lower cases.Caser
}

func newFolder() *folder {
	return &folder{lower: cases.Lower(language.Turkish)}
}

func (f *folder) fold(s string) string {
	s = f.lower.String(norm.NFC.String(s))
	return strings.ReplaceAll(s, "ı", "i")
}

// Search runs an exact-phrase search of keyword over one source. Matches
// keep insertion order and are ranked from 1.
func (s *Store) Search(ctx context.Context, source string, opts SearchOptions) ([]types.ArticleRecord, error) {
	keyword := strings.TrimSpace(opts.Keyword)
	if keyword == "" {
		return nil, fmt.Errorf("search: keyword is required")
	}

	stored, err := s.records(ctx, source)
	if err != nil {
		return nil, err
	}

	limit := opts.MaxResults
	if limit == 0 {
		limit = s.maxResults
	}
	threshold := opts.Threshold
	if threshold == "" {
		threshold = s.threshold
	}
	minScore := ThresholdValue(threshold)

	fields, ok := sourceFields[source]
	if !ok {
		fields = defaultFields
	}

	f := newFolder()
	phrase := f.fold(keyword)

	results := []types.ArticleRecord{}
	for _, sr := range stored {
		if limit > 0 && len(results) >= limit {
			break
		}
		score := matchScore(f, phrase, fields, sr.rec)
		if score == 0 || score < minScore {
			continue
		}
		rec := sr.rec
		rec.Source = label(source)
		rec.SimilarityScore = types.Float64Ptr(score)
		rec.SearchRelevance = SearchType
		rec.Rank = len(results) + 1
		results = append(results, rec)
	}
	return results, nil
}

func matchScore(f *folder, phrase string, fields fieldSet, rec types.ArticleRecord) float64 {
	for _, v := range fields.title(rec) {
		if v != "" && strings.Contains(f.fold(v), phrase) {
			return TitleScore
		}
	}
	for _, v := range fields.secondary(rec) {
		if v != "" && v != NoKeywords && strings.Contains(f.fold(v), phrase) {
			return SecondaryScore
		}
	}
	return 0
}

func label(source string) string {
	if l, ok := sourceLabels[source]; ok {
		return l
	}
	return source
}

// SearchAll searches every requested source and assembles the standard
// response with one bucket per source in request order.
func (s *Store) SearchAll(ctx context.Context, opts SearchOptions) (*types.StandardResponse, error) {
	start := time.Now()

	sources := opts.Sources
	if len(sources) == 0 {
		sources = types.KnownSources
	}
	threshold := opts.Threshold
	if threshold == "" {
		threshold = s.threshold
	}
	threshold = ThresholdName(threshold)
	opts.Threshold = threshold

	var sections types.Sections
	for _, src := range sources {
		results, err := s.Search(ctx, src, opts)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", src, err)
		}
		sections = append(sections, types.Section{Key: src, Bucket: types.SourceBucket{
			TotalResults: types.IntPtr(len(results)),
			SearchType:   SearchType,
			Results:      results,
		}})
	}

	elapsed := time.Since(start).Seconds()
	return &types.StandardResponse{
		Keyword:                strings.TrimSpace(opts.Keyword),
		SearchType:             SearchType,
		SimilarityThreshold:    ThresholdValue(threshold),
		SearchTimestamp:        start.Format(time.RFC3339),
		TotalSearchTimeSeconds: math.Round(elapsed*100) / 100,
		Sources:                sections,
		Summary:                types.SummaryOf(sections),
	}, nil
}
