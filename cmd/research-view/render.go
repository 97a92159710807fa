// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-view/internal/search"
	"github.com/pdiddy/research-view/internal/view"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a saved search or a raw response as an HTML page",
	Long: `Render reads a query file written by "search --save", or a raw JSON
response from any search API, and writes the result page. Responses that
cannot be normalized produce the error page rather than partial results.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, _ := cmd.Flags().GetString("format")

	var (
		out        search.Output
		resolveErr error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		qf, err := search.ReadQueryFile(path)
		if err != nil {
			return err
		}
		out, resolveErr = qf.Output()
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		keyword, _ := cmd.Flags().GetString("keyword")
		sources, _ := cmd.Flags().GetStringSlice("sources")
		q := search.Query{Keyword: keyword, Sources: sources}
		out, resolveErr = search.Resolve(search.Output{Query: q, Backend: "file", Raw: raw})
	}

	if resolveErr != nil && format != "html" {
		return resolveErr
	}

	w, closeOut, err := outputFile(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return writeOutput(format, out, resolveErr, view.LabelsFor(cfg.View.Language), w)
}

func init() {
	renderCmd.Flags().String("keyword", "", "keyword to show for a raw response")
	renderCmd.Flags().StringSlice("sources", nil, "requested sources; the first names a single-source response")
	renderCmd.Flags().String("format", "html", "output format: html, table, json or csl")
	renderCmd.Flags().String("out", "", "write output to a file instead of stdout")

	rootCmd.AddCommand(renderCmd)
}
