// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/research-view/internal/render"
	"github.com/pdiddy/research-view/internal/view"
)

// FormatTable writes results as a human-readable table, one block per
// source, to w.
func FormatTable(out Output, labels view.Labels, w io.Writer) {
	if out.Total() == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	b := view.Builder{Labels: labels}
	for _, sec := range out.Sections {
		if len(sec.Bucket.Results) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", view.SourceName(sec.Key), len(sec.Bucket.Results))
		fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-10s  %-5s  %s\n",
			"Rank", "Title", "Authors", "Date", "Score", "Action")
		fmt.Fprintln(w, strings.Repeat("-", 120))

		for i, d := range b.BuildAll(sec.Bucket.Results) {
			rank := d.Rank
			if rank == 0 {
				rank = i + 1
			}
			score := ""
			if d.Similarity != nil {
				score = fmt.Sprintf("%d%%", *d.Similarity)
			}
			fmt.Fprintf(w, "%-4d  %s  %s  %s  %-5s  %s\n",
				rank, pad(truncate(d.Title, 60), 60), pad(truncate(d.Authors, 20), 20),
				pad(truncate(d.Date, 10), 10), score, actionText(d.Action))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d results", out.Total())
	if out.Elapsed > 0 {
		fmt.Fprintf(w, " in %.2fs", out.Elapsed.Seconds())
	}
	fmt.Fprintln(w)
}

func actionText(a view.Action) string {
	switch a.Kind {
	case view.ActionCopyID:
		return "thesis " + a.Value
	case view.ActionOpenDOI, view.ActionOpenLink:
		return a.Href()
	default:
		return ""
	}
}

// pad right-pads s to width characters. fmt pads by bytes, which
// misaligns Turkish text.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// jsonSection is the JSON form of one source section.
type jsonSection struct {
	Source       string       `json:"source"`
	Name         string       `json:"name"`
	TotalResults int          `json:"total_results"`
	SearchType   string       `json:"search_type,omitempty"`
	Records      []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Title      string     `json:"title"`
	Authors    string     `json:"authors"`
	Date       string     `json:"date"`
	Keywords   []string   `json:"keywords"`
	Similarity *int       `json:"similarity,omitempty"`
	Volume     string     `json:"volume,omitempty"`
	Issue      string     `json:"issue,omitempty"`
	Source     string     `json:"source,omitempty"`
	Rank       int        `json:"rank,omitempty"`
	Action     jsonAction `json:"action"`
}

type jsonAction struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
	Href  string `json:"href,omitempty"`
}

// FormatJSON writes the display records of every section as indented
// JSON to w.
func FormatJSON(out Output, labels view.Labels, w io.Writer) error {
	b := view.Builder{Labels: labels}
	sections := make([]jsonSection, 0, len(out.Sections))
	for _, sec := range out.Sections {
		js := jsonSection{
			Source:       sec.Key,
			Name:         view.SourceName(sec.Key),
			TotalResults: len(sec.Bucket.Results),
			SearchType:   sec.Bucket.SearchType,
			Records:      []jsonRecord{},
		}
		if sec.Bucket.TotalResults != nil {
			js.TotalResults = *sec.Bucket.TotalResults
		}
		for _, d := range b.BuildAll(sec.Bucket.Results) {
			js.Records = append(js.Records, jsonRecord{
				Title:      d.Title,
				Authors:    d.Authors,
				Date:       d.Date,
				Keywords:   d.Keywords,
				Similarity: d.Similarity,
				Volume:     d.Volume,
				Issue:      d.Issue,
				Source:     d.Source,
				Rank:       d.Rank,
				Action: jsonAction{
					Kind:  d.Action.Kind.String(),
					Value: d.Action.Value,
					Href:  d.Action.Href(),
				},
			})
		}
		sections = append(sections, js)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sections)
}

// FormatHTML writes a standalone result page to w. A normalization error
// in resolveErr renders the error view instead of results.
func FormatHTML(out Output, resolveErr error, labels view.Labels, w io.Writer) error {
	v := render.NewView(labels, render.WithInlineAssets())
	v.SetForm(render.Form{
		Keyword:    out.Query.Keyword,
		Sources:    out.Query.RequestedSources(),
		Threshold:  out.Query.Threshold,
		MaxResults: out.Query.Values().Get("max_results"),
	})
	if resolveErr != nil {
		v.Fail(resolveErr)
	} else {
		v.Render(out.Sections, out.Query.Keyword)
	}
	return v.WriteHTML(w)
}
