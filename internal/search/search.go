// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs a keyword search against a backend, either the local
// catalog or a remote search API, and resolves the raw response into
// per-source sections. It also writes results as a table, JSON, CSL-YAML
// or an HTML page, and saves searches to query files.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/research-view/internal/catalog"
	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/pkg/types"
)

// Backend answers a search with a raw response body. Each backend (local
// catalog, remote API) implements this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]byte, error)
}

// Output holds a resolved search.
type Output struct {
	Query    Query
	Backend  string
	Raw      []byte
	Shape    normalize.Shape
	Sections types.Sections
	Elapsed  time.Duration
}

// Total returns the number of records across all sections.
func (o Output) Total() int { return o.Sections.TotalRecords() }

// Search validates q, fetches a raw response from b and normalizes it. The
// Direct shape is keyed by the first source q names. On a normalization
// error the returned Output still carries the raw body.
func Search(ctx context.Context, b Backend, q Query) (Output, error) {
	if err := q.Validate(); err != nil {
		return Output{}, err
	}

	start := time.Now()
	raw, err := b.Fetch(ctx, q)
	out := Output{Query: q, Backend: b.Name(), Raw: raw, Elapsed: time.Since(start)}
	if err != nil {
		return out, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return Resolve(out)
}

// Resolve normalizes out.Raw into out.Sections.
func Resolve(out Output) (Output, error) {
	resp, err := normalize.Parse(out.Raw, out.Query.Sources)
	if err != nil {
		return out, err
	}
	out.Shape = resp.Shape
	out.Sections = resp.Sections
	return out, nil
}

// CatalogBackend answers searches from the local catalog in process.
type CatalogBackend struct {
	Store *catalog.Store
}

// Name returns the backend identifier.
func (b *CatalogBackend) Name() string { return "catalog" }

// Fetch runs q against the catalog and returns the standard response.
func (b *CatalogBackend) Fetch(ctx context.Context, q Query) ([]byte, error) {
	resp, err := b.Store.SearchAll(ctx, q.CatalogOptions())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshaling response: %w", err)
	}
	return data, nil
}

// CatalogOptions converts q to catalog search options.
func (q Query) CatalogOptions() catalog.SearchOptions {
	return catalog.SearchOptions{
		Keyword:    q.Keyword,
		Sources:    q.RequestedSources(),
		MaxResults: q.MaxResults,
		Threshold:  q.Threshold,
	}
}
