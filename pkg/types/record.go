// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-finder pipeline.
package types

import "strings"

// UnknownAuthors is the author string used when a source provides none.
const UnknownAuthors = "Unknown Authors"

// Record is a normalized search hit. Every source adapter emits records of
// this shape regardless of the provider's wire format.
type Record struct {
	// Title is the work title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors is a free-form, comma-joined author list.
	Authors string `json:"authors" yaml:"authors"`

	// Link is the URL a reader follows to view the work.
	Link string `json:"link" yaml:"link"`

	// Year is the publication year as the source reported it (e.g. "2021",
	// "2021-03-04"). Empty when unknown.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Snippet is an abstract or description excerpt.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Source names the adapter that produced the record (e.g. "arXiv", "PubMed").
	Source string `json:"source" yaml:"source"`
}

// YearValue returns the leading decimal integer of Year, or 0 when Year does
// not start with a digit. "2020-05" yields 2020 and "N/A" yields 0.
func (r Record) YearValue() int {
	s := strings.TrimSpace(r.Year)
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > 1_000_000 {
			return 0
		}
	}
	return n
}

// SearchResponse is the envelope returned for one query. Sources lists the
// distinct Source values present in Results, in order of first appearance.
type SearchResponse struct {
	Results []Record `json:"results" yaml:"results"`
	Sources []string `json:"sources" yaml:"sources"`
}
