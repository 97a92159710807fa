// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk representation of a search query and the raw
// response it produced. A saved search can be re-rendered later without
// re-querying.
type QueryFile struct {
	Query    QueryParams  `yaml:"query"`
	Backend  string       `yaml:"backend,omitempty"`
	Summary  QuerySummary `yaml:"summary"`
	Response string       `yaml:"response"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Keyword    string   `yaml:"keyword"`
	Sources    []string `yaml:"sources,omitempty"`
	MaxResults string   `yaml:"max_results,omitempty"`
	Threshold  string   `yaml:"similarity_threshold,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Shape     string         `yaml:"shape"`
	Total     int            `yaml:"total"`
	PerSource map[string]int `yaml:"per_source,omitempty"`
	Timestamp time.Time      `yaml:"timestamp"`
}

// NewQueryFile builds the file form of out.
func NewQueryFile(out Output) QueryFile {
	qf := QueryFile{
		Query: QueryParams{
			Keyword:    out.Query.Keyword,
			Sources:    out.Query.Sources,
			MaxResults: out.Query.Values().Get("max_results"),
			Threshold:  out.Query.Threshold,
		},
		Backend: out.Backend,
		Summary: QuerySummary{
			Shape:     out.Shape.String(),
			Total:     out.Total(),
			Timestamp: time.Now().UTC(),
		},
		Response: string(out.Raw),
	}
	if len(out.Sections) > 0 {
		qf.Summary.PerSource = make(map[string]int, len(out.Sections))
		for _, sec := range out.Sections {
			qf.Summary.PerSource[sec.Key] = len(sec.Bucket.Results)
		}
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, out.Raw, "", "  ") == nil {
		qf.Response = pretty.String()
	}
	return qf
}

// WriteQueryFile saves the query and raw response of out to a YAML file.
func WriteQueryFile(path string, out Output) error {
	qf := NewQueryFile(out)
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{
		Keyword:   p.Keyword,
		Sources:   p.Sources,
		Threshold: p.Threshold,
	}
	n, err := ParseMaxResults(p.MaxResults)
	if err != nil {
		return q, err
	}
	q.MaxResults = n
	return q, nil
}

// Output re-resolves the stored response. The returned error is the
// normalizer's when the stored response is unusable.
func (qf *QueryFile) Output() (Output, error) {
	q, err := qf.Query.ToQuery()
	if err != nil {
		return Output{}, fmt.Errorf("invalid stored query: %w", err)
	}
	return Resolve(Output{Query: q, Backend: qf.Backend, Raw: []byte(qf.Response)})
}
