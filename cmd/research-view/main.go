// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-view CLI: it serves the
// search API and result pages, runs searches from the terminal, renders
// saved searches, and manages the local article catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-view/internal/config"
	"github.com/pdiddy/research-view/internal/observability"
	"github.com/pdiddy/research-view/internal/secrets"
	"github.com/pdiddy/research-view/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the loaded configuration, set before any subcommand runs.
	cfg *types.Config

	logger zerolog.Logger
)

// rootCmd is the base command for the research-view CLI.
var rootCmd = &cobra.Command{
	Use:   "research-view",
	Short: "Search Turkish academic sources and view the results",
	Long: `research-view searches DergiPark, TRDizin and YÖK Tez records, either in
a local SQLite catalog or through a remote search API, and presents the
results grouped by source.

Use "serve" for the web page and JSON API, "search" for the terminal,
"render" to turn a saved search into an HTML page, and "catalog" to
import or export catalog records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
			cfg.View.Language = lang
		}

		logger = observability.NewLogger(cfg.Logging)
		s, err := secrets.Load(cfg.SecretsDir, logger)
		if err != nil {
			return err
		}
		if used := secrets.Apply(cfg, s); len(used) > 0 {
			logger.Debug().Strs("secrets", used).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-view.yaml or ~/.config/research-view/config.yaml)")
	rootCmd.PersistentFlags().String("lang", "", "label language: en or tr (overrides view.language)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog database path (overrides catalog.path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides logging.level)")

	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-view")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-view"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
