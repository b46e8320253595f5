// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-finder/internal/search"
	"github.com/pdiddy/research-finder/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one aggregated search and print the results",
	Long: `Search queries every enabled source in parallel for papers matching the
query. Results are deduplicated on title and link and ordered newest first.

Output is a table by default, the JSON envelope with --json, or CSL-YAML
(for pandoc and reference managers) with --csl. --source keeps only the
results from one source.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		if query == "" {
			query = strings.Join(args, " ")
		}
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("a query is required: use --query or pass it as arguments")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		asCSL, _ := cmd.Flags().GetBool("csl")
		if asJSON && asCSL {
			return fmt.Errorf("--json and --csl are mutually exclusive")
		}
		source, _ := cmd.Flags().GetString("source")
		if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
			cfg.Sources.MaxResults = n
		}

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Searching %d sources for %q\n", len(engine.Sources()), query)
		out, err := engine.Search(cmd.Context(), query)
		if err != nil {
			return err
		}

		format := formatTable
		switch {
		case asJSON:
			format = formatJSON
		case asCSL:
			format = formatCSL
		}
		return writeResults(out, source, format, cmd.OutOrStdout())
	},
}

type outputFormat int

const (
	formatTable outputFormat = iota
	formatJSON
	formatCSL
)

// writeResults narrows out to one source, when asked, and prints it.
func writeResults(out types.SearchResponse, source string, format outputFormat, w io.Writer) error {
	if source != "" && !strings.EqualFold(source, "all") {
		out = search.Process(search.FilterBySource(out.Results, source))
	}

	switch format {
	case formatJSON:
		return search.FormatJSON(out, w)
	case formatCSL:
		return search.FormatCSL(out, w)
	default:
		search.FormatTable(out, w)
		return nil
	}
}

func init() {
	searchCmd.Flags().StringP("query", "q", "", "free-text query")
	searchCmd.Flags().String("source", "", "only show results from this source (e.g. arXiv)")
	searchCmd.Flags().Int("max-results", 0, "results requested per source (overrides sources.max_results)")
	searchCmd.Flags().Bool("json", false, "output the JSON envelope")
	searchCmd.Flags().Bool("csl", false, "output CSL-YAML")

	rootCmd.AddCommand(searchCmd)
}
