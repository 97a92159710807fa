// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the catalog, the search API,
// the response normalizer and the result renderer.
package types

import (
	"bytes"
	"encoding/json"
)

// Source keys for the three known bibliographic sources.
const (
	SourceDergipark = "dergipark"
	SourceTRDizin   = "trdizin"
	SourceYokTez    = "yoktez"
)

// KnownSources lists the source keys in their canonical display order.
var KnownSources = []string{SourceDergipark, SourceTRDizin, SourceYokTez}

// ArticleRecord is a single search hit. Every field is optional; upstream
// APIs fill different subsets depending on the source.
type ArticleRecord struct {
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	TitleTurkish    string `json:"title_turkish,omitempty" yaml:"title_turkish,omitempty"`
	TitleEnglish    string `json:"title_english,omitempty" yaml:"title_english,omitempty"`
	Authors         string `json:"authors,omitempty" yaml:"authors,omitempty"`
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	Year            string `json:"year,omitempty" yaml:"year,omitempty"`
	Volume          string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue           string `json:"issue,omitempty" yaml:"issue,omitempty"`

	// Keywords is a comma-separated list as delivered by the source.
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	DOI       string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ThesisID  string `json:"thesis_id,omitempty" yaml:"thesis_id,omitempty"`
	ArticleID string `json:"article_id,omitempty" yaml:"article_id,omitempty"`

	// Source is a free-text label such as "YÖK Tez (Local)".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// JournalSlug is the stable identifier ("yoktez", "trdizin", or a journal slug).
	JournalSlug string `json:"journal_slug,omitempty" yaml:"journal_slug,omitempty"`

	// SimilarityScore is in [0,1] when the backend scored the hit.
	SimilarityScore *float64 `json:"similarity_score,omitempty" yaml:"similarity_score,omitempty"`

	SearchRelevance string `json:"search_relevance,omitempty" yaml:"search_relevance,omitempty"`
	Rank            int    `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// SourceBucket holds the records one source returned, in display order.
type SourceBucket struct {
	TotalResults *int            `json:"total_results,omitempty" yaml:"total_results,omitempty"`
	SearchType   string          `json:"search_type,omitempty" yaml:"search_type,omitempty"`
	Results      []ArticleRecord `json:"results" yaml:"results"`
}

// Section pairs a source key with its bucket.
type Section struct {
	Key    string
	Bucket SourceBucket
}

// Sections is an ordered source-key → bucket mapping. Order is the order in
// which the keys were encountered and is the display order.
type Sections []Section

// Get returns the bucket stored under key.
func (s Sections) Get(key string) (SourceBucket, bool) {
	for _, sec := range s {
		if sec.Key == key {
			return sec.Bucket, true
		}
	}
	return SourceBucket{}, false
}

// Keys returns the source keys in order.
func (s Sections) Keys() []string {
	keys := make([]string, len(s))
	for i, sec := range s {
		keys[i] = sec.Key
	}
	return keys
}

// TotalRecords sums the record counts across all buckets.
func (s Sections) TotalRecords() int {
	n := 0
	for _, sec := range s {
		n += len(sec.Bucket.Results)
	}
	return n
}

// MarshalJSON encodes the sections as a JSON object, keeping key order.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Key)
		if err != nil {
			return nil, err
		}
		bucket := sec.Bucket
		if bucket.Results == nil {
			bucket.Results = []ArticleRecord{}
		}
		val, err := json.Marshal(bucket)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }
