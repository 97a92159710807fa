// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/pkg/types"
)

// ExportEntry is one stored record with the catalog source it belongs to.
type ExportEntry struct {
	CatalogSource       string `json:"catalog_source" yaml:"catalog_source"`
	types.ArticleRecord `yaml:",inline"`
}

// ExportYAML writes the stored records of source, or of every source when
// source is empty, to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, source string) error {
	entries, err := s.exportEntries(ctx, source)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// ExportJSON writes the stored records as an indented JSON list.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, source string) error {
	entries, err := s.exportEntries(ctx, source)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context, source string) ([]ExportEntry, error) {
	stored, err := s.records(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]ExportEntry, len(stored))
	for i, sr := range stored {
		entries[i] = ExportEntry{CatalogSource: sr.source, ArticleRecord: sr.rec}
	}
	return entries, nil
}

// ImportFile reads a record list from path and imports it under source.
// YAML files hold a list of records. JSON files hold a list of records or
// any recognised search response, from which the bucket for source is
// taken. A one-line summary is written to w.
func (s *Store) ImportFile(ctx context.Context, source, path string, w io.Writer) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading %s: %w", path, err)
	}

	records, err := DecodeRecords(data, filepath.Ext(path), source)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	summary, err := s.Import(ctx, source, records)
	if err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "%s: imported %d, updated %d, skipped %d from %s\n",
		source, summary.Imported, summary.Updated, summary.Skipped, path)
	return summary, nil
}

// DecodeRecords parses a record file. ext selects JSON (".json") or YAML
// (anything else).
func DecodeRecords(data []byte, ext, source string) ([]types.ArticleRecord, error) {
	if !strings.EqualFold(ext, ".json") {
		var records []types.ArticleRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		wrapped := make([]byte, 0, len(trimmed)+13)
		wrapped = append(wrapped, `{"results":`...)
		wrapped = append(wrapped, trimmed...)
		wrapped = append(wrapped, '}')
		trimmed = wrapped
	}

	sections, err := normalize.Normalize(trimmed, []string{source})
	if err != nil {
		return nil, err
	}
	if b, ok := sections.Get(source); ok {
		return b.Results, nil
	}
	if len(sections) == 1 {
		return sections[0].Bucket.Results, nil
	}
	return nil, fmt.Errorf("response has no %q bucket (found %s)", source, strings.Join(sections.Keys(), ", "))
}
