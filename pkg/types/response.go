// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
)

// StandardResponse is the current search API response: one bucket per
// source under "sources".
type StandardResponse struct {
	Keyword                string   `json:"keyword"`
	SearchType             string   `json:"search_type,omitempty"`
	SimilarityThreshold    float64  `json:"similarity_threshold,omitempty"`
	SearchTimestamp        string   `json:"search_timestamp"`
	TotalSearchTimeSeconds float64  `json:"total_search_time_seconds"`
	Sources                Sections `json:"sources"`
	Summary                Summary  `json:"summary"`
}

// Summary reports the total hit count and one "<source>_count" per source.
type Summary struct {
	TotalArticlesFound int
	Counts             []SourceCount
}

// SourceCount is the hit count of one source.
type SourceCount struct {
	Source string
	Count  int
}

// SummaryOf computes a Summary from sections.
func SummaryOf(s Sections) Summary {
	sum := Summary{TotalArticlesFound: s.TotalRecords()}
	for _, sec := range s {
		sum.Counts = append(sum.Counts, SourceCount{Source: sec.Key, Count: len(sec.Bucket.Results)})
	}
	return sum
}

// MarshalJSON flattens the per-source counts into "<source>_count" fields.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"total_articles_found":`)
	total, _ := json.Marshal(s.TotalArticlesFound)
	buf.Write(total)
	for _, c := range s.Counts {
		key, err := json.Marshal(c.Source + "_count")
		if err != nil {
			return nil, err
		}
		n, _ := json.Marshal(c.Count)
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(n)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DirectResponse is the single-source response served by the per-source
// endpoints: a bare "results" list.
type DirectResponse struct {
	Keyword      string          `json:"keyword"`
	Source       string          `json:"source"`
	TotalResults int             `json:"total_results"`
	Results      []ArticleRecord `json:"results"`
}

// LegacyResponse is the pre-"sources" response format with one
// "<source>_results" list per source.
type LegacyResponse struct {
	Keyword          string           `json:"keyword"`
	DergiparkResults *[]ArticleRecord `json:"dergipark_results,omitempty"`
	TRDizinResults   *[]ArticleRecord `json:"trdizin_results,omitempty"`
	YokTezResults    *[]ArticleRecord `json:"yoktez_results,omitempty"`
}

// LegacyFrom converts sections into the legacy format. Sources other than
// the three known ones have no legacy field and are dropped.
func LegacyFrom(keyword string, s Sections) LegacyResponse {
	resp := LegacyResponse{Keyword: keyword}
	for _, sec := range s {
		results := sec.Bucket.Results
		if results == nil {
			results = []ArticleRecord{}
		}
		switch sec.Key {
		case SourceDergipark:
			resp.DergiparkResults = &results
		case SourceTRDizin:
			resp.TRDizinResults = &results
		case SourceYokTez:
			resp.YokTezResults = &results
		}
	}
	return resp
}
