// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-finder CLI. It serves the
// aggregated search endpoint and runs one-off searches from the terminal.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/internal/config"
	"github.com/pdiddy/research-finder/internal/logging"
	"github.com/pdiddy/research-finder/internal/search"
	"github.com/pdiddy/research-finder/internal/secrets"
	"github.com/pdiddy/research-finder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg    types.Config
	logger = zap.NewNop()
)

// rootCmd is the base command for the research-finder CLI.
var rootCmd = &cobra.Command{
	Use:   "research-finder",
	Short: "Search many academic sources at once",
	Long: `research-finder sends one query to arXiv, CORE, PubMed, Europe PMC, DOAJ,
OpenAlex, BASE, ERIC, PMC, Semantic Scholar, Google Books, Dataverse, PLOS,
OpenCitations and ResearchGate in parallel, then merges the answers into one
deduplicated list ordered newest first.

Run "serve" to expose GET /search?q= over HTTP, or "search" for a one-off
query in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win over it.
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		dev, _ := cmd.Flags().GetBool("dev")
		l, err := logging.New(loaded.Logging.Development || dev)
		if err != nil {
			return err
		}

		secretsDir, _ := cmd.Flags().GetString("secrets")
		s, err := secrets.Load(secretsDir, l)
		if err != nil {
			return err
		}
		if used := secrets.Apply(&loaded.Keys, s); len(used) > 0 {
			l.Info("loaded secrets", zap.Strings("keys", used))
		}

		cfg = loaded
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults and RESEARCH_FINDER_* env vars apply without one)")
	rootCmd.PersistentFlags().String("secrets", ".secrets/", "directory of key files (core-api-key, google-books-api-key, ...)")
	rootCmd.PersistentFlags().Bool("dev", false, "human-readable development logging")
}

// newEngine builds the adapters enabled in cfg and binds them to an Engine.
func newEngine(cfg types.Config, logger *zap.Logger) (*search.Engine, error) {
	client := &http.Client{Timeout: cfg.HTTP.Timeout()}
	adapters, err := search.NewAdapters(cfg, client, logger)
	if err != nil {
		return nil, err
	}
	return search.NewEngine(adapters,
		search.WithAdapterTimeout(cfg.HTTP.Timeout()),
		search.WithRequestDeadline(cfg.Server.RequestTimeout),
		search.WithLogger(logger),
	), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
