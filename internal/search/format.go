// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/research-finder/pkg/types"
)

// FormatTable writes results as a human-readable table to w, followed by a
// per-source tally.
func FormatTable(out types.SearchResponse, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
		"#", "Title", "Authors", "Year", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range out.Results {
		year := ""
		if v := r.YearValue(); v > 0 {
			year = fmt.Sprintf("%d", v)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, r.Source)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results))
	if counts := formatCounts(out); counts != "" {
		fmt.Fprintf(w, " (%s)", counts)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the response envelope as indented JSON to w.
func FormatJSON(out types.SearchResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatCounts renders CountBySource in the order sources first appear.
func formatCounts(out types.SearchResponse) string {
	counts := CountBySource(out.Results)
	order := out.Sources
	if len(order) != len(counts) {
		order = make([]string, 0, len(counts))
		for s := range counts {
			order = append(order, s)
		}
		sort.Strings(order)
	}
	parts := make([]string, 0, len(order))
	for _, s := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	return strings.Join(parts, ", ")
}

func formatAuthors(authors string) string {
	names := strings.Split(authors, ",")
	if len(names) <= 1 {
		return truncate(strings.TrimSpace(authors), 20)
	}
	return truncate(strings.TrimSpace(names[0]), 14) + " et al."
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
