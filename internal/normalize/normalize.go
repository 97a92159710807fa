// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a raw search API response into an ordered list of
// per-source buckets. Three response layouts are recognised and resolved
// once, here, so nothing downstream needs to know which one arrived.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/pdiddy/research-view/pkg/types"
)

// Shape identifies the layout of a raw response.
type Shape int

const (
	ShapeUnknown Shape = iota

	// ShapeStandard has a "sources" object mapping source key to bucket.
	ShapeStandard

	// ShapeDirect has a bare "results" list for a single source.
	ShapeDirect

	// ShapeLegacy has one "<source>_results" list per known source.
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeStandard:
		return "standard"
	case ShapeDirect:
		return "direct"
	case ShapeLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// UnknownSourceKey names the Direct bucket when no source was requested.
const UnknownSourceKey = "unknown"

// DirectSearchType is the search_type given to Direct buckets.
const DirectSearchType = "direct"

// LegacySearchType is the search_type given to Legacy buckets.
const LegacySearchType = "legacy"

// legacyFields maps legacy top-level fields to their source keys.
var legacyFields = map[string]string{
	"dergipark_results": types.SourceDergipark,
	"trdizin_results":   types.SourceTRDizin,
	"yoktez_results":    types.SourceYokTez,
}

var (
	// ErrNoData reports an absent or null response.
	ErrNoData = errors.New("search response contains no data")

	// ErrUnrecognizedFormat reports a response matching none of the known shapes.
	ErrUnrecognizedFormat = errors.New("unrecognized search response format")
)

// FormatError describes an unrecognised response. Keys lists the top-level
// keys that were present, sorted, for diagnostics.
type FormatError struct {
	Keys  []string
	Cause error
}

func (e *FormatError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", ErrUnrecognizedFormat, e.Cause)
	case len(e.Keys) == 0:
		return fmt.Sprintf("%s (no top-level keys)", ErrUnrecognizedFormat)
	default:
		return fmt.Sprintf("%s (top-level keys: %s)", ErrUnrecognizedFormat, strings.Join(e.Keys, ", "))
	}
}

// Unwrap lets errors.Is match ErrUnrecognizedFormat.
func (e *FormatError) Unwrap() error { return ErrUnrecognizedFormat }

// Response is a raw response resolved into one of the recognised shapes.
type Response struct {
	Shape    Shape
	Keyword  string
	Sections types.Sections
}

// Normalize resolves raw into ordered per-source buckets. requestedSources
// supplies the bucket key for the Direct shape. The returned error is
// ErrNoData or wraps ErrUnrecognizedFormat; callers must check it before
// rendering anything.
func Normalize(raw []byte, requestedSources []string) (types.Sections, error) {
	resp, err := Parse(raw, requestedSources)
	if err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

// Parse is Normalize plus the detected shape and echoed keyword.
func Parse(raw []byte, requestedSources []string) (Response, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Response{}, ErrNoData
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return Response{}, &FormatError{Cause: err}
	}
	if v.Type() == fastjson.TypeNull {
		return Response{}, ErrNoData
	}
	obj, err := v.Object()
	if err != nil {
		return Response{}, &FormatError{Cause: fmt.Errorf("top-level value is %s, not an object", v.Type())}
	}

	resp := Response{Keyword: stringField(v, "keyword")}

	// A null "sources" reads as absent.
	sources := v.Get("sources")
	if sources != nil && sources.Type() == fastjson.TypeNull {
		sources = nil
	}
	results := v.Get("results")

	switch {
	case sources != nil && sources.Type() == fastjson.TypeObject:
		resp.Shape = ShapeStandard
		resp.Sections = standardSections(sources)
	case sources == nil && results != nil && results.Type() == fastjson.TypeArray:
		resp.Shape = ShapeDirect
		resp.Sections = directSections(results, requestedSources)
	default:
		if secs := legacySections(obj); len(secs) > 0 {
			resp.Shape = ShapeLegacy
			resp.Sections = secs
			break
		}
		return Response{}, &FormatError{Keys: topLevelKeys(obj)}
	}

	return resp, nil
}

func standardSections(sources *fastjson.Value) types.Sections {
	obj, _ := sources.Object()
	secs := types.Sections{}
	obj.Visit(func(key []byte, v *fastjson.Value) {
		secs = put(secs, string(key), bucket(v))
	})
	return secs
}

// put sets key to b. A repeated key keeps its first position and takes the
// last bucket, the way JSON.parse resolves duplicates.
func put(secs types.Sections, key string, b types.SourceBucket) types.Sections {
	for i := range secs {
		if secs[i].Key == key {
			secs[i].Bucket = b
			return secs
		}
	}
	return append(secs, types.Section{Key: key, Bucket: b})
}

// bucket decodes a bucket-shaped object. A bare list is accepted as the
// results of the bucket; anything else yields an empty bucket.
func bucket(v *fastjson.Value) types.SourceBucket {
	b := types.SourceBucket{Results: []types.ArticleRecord{}}
	switch v.Type() {
	case fastjson.TypeArray:
		b.Results = records(v)
	case fastjson.TypeObject:
		if r := v.Get("results"); r != nil && r.Type() == fastjson.TypeArray {
			b.Results = records(r)
		}
		if t := v.Get("total_results"); t != nil && t.Type() == fastjson.TypeNumber {
			if n, err := t.Int(); err == nil {
				b.TotalResults = types.IntPtr(n)
			}
		}
		b.SearchType = stringField(v, "search_type")
	}
	return b
}

func directSections(results *fastjson.Value, requested []string) types.Sections {
	key := UnknownSourceKey
	if len(requested) > 0 {
		key = requested[0]
	}
	recs := records(results)
	return types.Sections{{
		Key: key,
		Bucket: types.SourceBucket{
			TotalResults: types.IntPtr(len(recs)),
			SearchType:   DirectSearchType,
			Results:      recs,
		},
	}}
}

func legacySections(obj *fastjson.Object) types.Sections {
	var secs types.Sections
	obj.Visit(func(key []byte, v *fastjson.Value) {
		source, ok := legacyFields[string(key)]
		if !ok || v.Type() != fastjson.TypeArray {
			return
		}
		recs := records(v)
		secs = put(secs, source, types.SourceBucket{
			TotalResults: types.IntPtr(len(recs)),
			SearchType:   LegacySearchType,
			Results:      recs,
		})
	})
	return secs
}

func topLevelKeys(obj *fastjson.Object) []string {
	var keys []string
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	sort.Strings(keys)
	return keys
}

// records decodes every element of a list. Elements that are not objects
// still count as (empty) records so per-source totals match the input.
func records(list *fastjson.Value) []types.ArticleRecord {
	items, _ := list.Array()
	out := make([]types.ArticleRecord, 0, len(items))
	for _, item := range items {
		out = append(out, record(item))
	}
	return out
}

func record(v *fastjson.Value) types.ArticleRecord {
	if v.Type() != fastjson.TypeObject {
		return types.ArticleRecord{}
	}
	r := types.ArticleRecord{
		Title:           stringField(v, "title"),
		TitleTurkish:    stringField(v, "title_turkish"),
		TitleEnglish:    stringField(v, "title_english"),
		Authors:         stringField(v, "authors"),
		PublicationDate: stringField(v, "publication_date"),
		Year:            stringField(v, "year"),
		Volume:          stringField(v, "volume"),
		Issue:           stringField(v, "issue"),
		Keywords:        stringField(v, "keywords"),
		URL:             stringField(v, "url"),
		DOI:             stringField(v, "doi"),
		ThesisID:        stringField(v, "thesis_id"),
		ArticleID:       stringField(v, "article_id"),
		Source:          stringField(v, "source"),
		JournalSlug:     stringField(v, "journal_slug"),
		SearchRelevance: stringField(v, "search_relevance"),
		SimilarityScore: floatField(v, "similarity_score"),
	}
	if rank := v.Get("rank"); rank != nil && rank.Type() == fastjson.TypeNumber {
		r.Rank, _ = rank.Int()
	}
	return r
}

// stringField reads key as text. Numbers keep their JSON spelling, string
// lists are joined with ", ", and null or other types read as "".
func stringField(v *fastjson.Value, key string) string {
	f := v.Get(key)
	if f == nil {
		return ""
	}
	switch f.Type() {
	case fastjson.TypeString:
		b, _ := f.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		return string(f.MarshalTo(nil))
	case fastjson.TypeArray:
		items, _ := f.Array()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			switch item.Type() {
			case fastjson.TypeString:
				b, _ := item.StringBytes()
				if s := strings.TrimSpace(string(b)); s != "" {
					parts = append(parts, s)
				}
			case fastjson.TypeNumber:
				parts = append(parts, string(item.MarshalTo(nil)))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// floatField reads key as a finite number; numeric strings are accepted.
// NaN and infinities read as absent.
func floatField(v *fastjson.Value, key string) *float64 {
	f := v.Get(key)
	if f == nil {
		return nil
	}
	var (
		n   float64
		err error
	)
	switch f.Type() {
	case fastjson.TypeNumber:
		n, err = f.Float64()
	case fastjson.TypeString:
		b, _ := f.StringBytes()
		n, err = strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	default:
		return nil
	}
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return types.Float64Ptr(n)
}
