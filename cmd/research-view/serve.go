// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-view/internal/cache"
	"github.com/pdiddy/research-view/internal/catalog"
	"github.com/pdiddy/research-view/internal/observability"
	"github.com/pdiddy/research-view/internal/search"
	"github.com/pdiddy/research-view/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page and JSON API",
	Long: `Serve starts the HTTP server. The JSON API (/api/search, /api/{source})
answers from the local catalog. Result pages (/search) come from the
remote search API when upstream.base_url is set, otherwise from the
catalog. Raw responses are cached according to the cache section.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := cache.NewCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	deps := server.Deps{
		Store:   store,
		Cache:   c,
		Metrics: observability.NewMetrics("research_view"),
		Logger:  logger,
	}
	if cfg.Upstream.BaseURL != "" {
		deps.Backend = search.NewClient(cfg.Upstream)
		logger.Info().Str("upstream", cfg.Upstream.BaseURL).Msg("result pages use the remote search API")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.address)")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
