// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"strconv"

	"github.com/pdiddy/research-finder/internal/httputil"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,url,abstract,authors,year,externalIds"

// semanticMaxRetries is the 429 retry budget for Semantic Scholar, whose
// unauthenticated pool throttles aggressively.
const semanticMaxRetries = 3

var semanticMapping = mapping{
	Source:  SourceSemanticScholar,
	Items:   "data",
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"authors"}, Join: ", "},
	Link:    field{From: []string{"url", "https://doi.org/{externalIds.DOI}"}},
	Year:    field{From: []string{"year"}},
	Snippet: field{From: []string{"abstract"}},
}

// NewSemanticScholar returns the Semantic Scholar adapter. The key is
// optional and raises the rate limit when present.
func NewSemanticScholar(opts Options, apiKey string) Adapter {
	return &jsonAdapter{Options: opts, m: semanticMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"query":  {q},
			"limit":  {strconv.Itoa(opts.limit())},
			"fields": {semanticFields},
		}
		h := opts.header()
		if apiKey != "" {
			h.Set("x-api-key", apiKey)
		}
		retries := opts.MaxRetries
		if retries < semanticMaxRetries {
			retries = semanticMaxRetries
		}
		return httputil.Request{
			URL:        semanticAPIBase + "?" + params.Encode(),
			Header:     h,
			MaxRetries: retries,
		}, nil
	}}
}
