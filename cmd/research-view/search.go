// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-view/internal/catalog"
	"github.com/pdiddy/research-view/internal/render"
	"github.com/pdiddy/research-view/internal/search"
	"github.com/pdiddy/research-view/internal/view"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search the catalog or the remote search API",
	Long: `Search runs an exact-phrase keyword search across the requested sources
and prints the results grouped by source. The local catalog answers unless
upstream.base_url is set or --remote is given.

Output formats: table (default), json (display records), csl (CSL-YAML for
reference managers) and html (a standalone result page). Use --save to keep
the query and its raw response for "render".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}

	remote, _ := cmd.Flags().GetBool("remote")
	aggregate, _ := cmd.Flags().GetBool("aggregate")
	backend, cleanup, err := backendFor(remote, aggregate)
	if err != nil {
		return err
	}
	defer cleanup()

	labels := view.LabelsFor(cfg.View.Language)
	quiet, _ := cmd.Flags().GetBool("quiet")
	var anim *render.LoadingAnimationController
	if !quiet {
		anim = render.NewLoadingAnimationController(labels.LoadingMessages, os.Stderr)
		anim.Start()
	}

	out, err := search.Search(cmd.Context(), backend, q)
	if anim != nil {
		anim.Stop()
	}
	if err != nil && out.Raw == nil {
		return err
	}
	resolveErr := err

	if path, _ := cmd.Flags().GetString("save"); path != "" && out.Raw != nil {
		if err := search.WriteQueryFile(path, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query to %s\n", path)
	}

	format, _ := cmd.Flags().GetString("format")
	if resolveErr != nil && format != "html" {
		return resolveErr
	}
	w, closeOut, err := outputFile(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return writeOutput(format, out, resolveErr, labels, w)
}

// writeOutput writes out in the named format.
func writeOutput(format string, out search.Output, resolveErr error, labels view.Labels, w io.Writer) error {
	switch format {
	case "table", "":
		search.FormatTable(out, labels, w)
		return nil
	case "json":
		return search.FormatJSON(out, labels, w)
	case "csl":
		return search.FormatCSL(out, w)
	case "html":
		return search.FormatHTML(out, resolveErr, labels, w)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, csl or html", format)
	}
}

func queryFromFlags(cmd *cobra.Command, args []string) (search.Query, error) {
	sources, _ := cmd.Flags().GetStringSlice("sources")
	threshold, _ := cmd.Flags().GetString("threshold")
	maxResults, _ := cmd.Flags().GetString("max-results")

	q := search.Query{
		Keyword:   strings.TrimSpace(strings.Join(args, " ")),
		Threshold: strings.ToLower(threshold),
	}
	for _, s := range sources {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			q.Sources = append(q.Sources, s)
		}
	}
	if len(q.Sources) == 0 {
		q.Sources = cfg.View.DefaultSources
	}
	n, err := search.ParseMaxResults(maxResults)
	if err != nil {
		return q, err
	}
	q.MaxResults = n
	return q, nil
}

// backendFor picks the search backend: the remote API when remote is set
// or upstream.base_url is configured, the catalog otherwise. The returned
// cleanup closes the catalog.
func backendFor(remote, aggregate bool) (search.Backend, func(), error) {
	if remote || cfg.Upstream.BaseURL != "" {
		if cfg.Upstream.BaseURL == "" {
			return nil, nil, errors.New("--remote needs upstream.base_url")
		}
		client := search.NewClient(cfg.Upstream)
		if aggregate {
			return client.Aggregated(), func() {}, nil
		}
		return client, func() {}, nil
	}
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	return &search.CatalogBackend{Store: store}, func() { store.Close() }, nil
}

// outputFile returns the --out file, or stdout when unset.
func outputFile(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("out")
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func init() {
	searchCmd.Flags().StringSlice("sources", nil, "sources to search: dergipark, trdizin, yoktez (default: view.default_sources)")
	searchCmd.Flags().String("max-results", "", `maximum results per source, or "all"`)
	searchCmd.Flags().String("threshold", "", "similarity threshold: high, medium or low")
	searchCmd.Flags().String("format", "table", "output format: table, json, csl or html")
	searchCmd.Flags().String("out", "", "write output to a file instead of stdout")
	searchCmd.Flags().String("save", "", "save the query and raw response to a YAML query file")
	searchCmd.Flags().Bool("remote", false, "query the remote search API (upstream.base_url)")
	searchCmd.Flags().Bool("aggregate", false, "use /api/search even for a single source (remote only)")
	searchCmd.Flags().BoolP("quiet", "q", false, "no loading animation")

	rootCmd.AddCommand(searchCmd)
}
