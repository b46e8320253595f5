// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-finder/internal/search"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered sources in dispatch order",
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled := make(map[string]bool)
		for _, name := range cfg.Sources.Enabled {
			enabled[strings.ToLower(strings.TrimSpace(name))] = true
		}
		all := len(cfg.Sources.Enabled) == 0 || enabled["all"]

		w := cmd.OutOrStdout()
		for _, name := range search.Names() {
			mark := " "
			if all || enabled[strings.ToLower(name)] {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s\n", mark, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
