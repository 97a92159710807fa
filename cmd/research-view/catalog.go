// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-view/internal/catalog"
	"github.com/pdiddy/research-view/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local article catalog (import, export, stats)",
	Long: `Catalog manages the local SQLite catalog that answers searches when no
remote search API is configured. Records are cleaned on import: titles are
unescaped, author separators normalized and keyword labels stripped.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import <source> <file>...",
	Short: "Import records for a source from YAML or JSON files",
	Long: `Import reads record lists (YAML or JSON) or saved search API responses
(JSON) and upserts them into the catalog under source. Records already
present with the same identifier are updated.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	if !slices.Contains(types.KnownSources, source) {
		return fmt.Errorf("unknown source %q: use dergipark, trdizin or yoktez", source)
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var total catalog.ImportSummary
	for _, path := range args[1:] {
		summary, err := store.ImportFile(cmd.Context(), source, path, os.Stdout)
		if err != nil {
			return err
		}
		total.Imported += summary.Imported
		total.Updated += summary.Updated
		total.Skipped += summary.Skipped
	}
	if len(args) > 2 {
		fmt.Printf("Total: %d records (%d new, %d updated, %d skipped)\n",
			total.Total(), total.Imported, total.Updated, total.Skipped)
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalog records to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	source, _ := cmd.Flags().GetString("source")

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	w, closeOut, err := outputFile(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	switch format {
	case "yaml", "":
		return store.ExportYAML(cmd.Context(), w, source)
	case "json":
		return store.ExportJSON(cmd.Context(), w, source)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts per source",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("Catalog is empty.")
			return nil
		}
		total := 0
		for _, s := range stats {
			fmt.Printf("%-10s  %6d\n", s.Source, s.Articles)
			total += s.Articles
		}
		fmt.Printf("%-10s  %6d\n", "total", total)
		return nil
	},
}

func init() {
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("source", "", "export only this source")
	catalogExportCmd.Flags().String("out", "", "write to a file instead of stdout")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogStatsCmd)

	rootCmd.AddCommand(catalogCmd)
}
