// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// openCitationsAPIBase is the COCI REST root. Declared as a var so tests
// can substitute an httptest server.
var openCitationsAPIBase = "https://opencitations.net/index/coci/api/v1/"

// openCitationsSeedWorks is how many OpenAlex works seed the citation lookup.
const openCitationsSeedWorks = 5

var openCitationsMapping = mapping{
	Source:  SourceOpenCitations,
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"author"}},
	Link:    field{From: []string{"https://doi.org/{doi}"}},
	Year:    field{From: []string{"year"}},
}

// cociCitation is one edge from the COCI citations endpoint.
type cociCitation struct {
	Citing string `json:"citing"`
	Cited  string `json:"cited"`
}

// OpenCitationsAdapter returns the works that cite the query's top OpenAlex
// matches. It runs three steps: OpenAlex search for seed DOIs, COCI
// citations for each seed, then COCI metadata for the citing DOIs.
type OpenCitationsAdapter struct {
	Options
	Email string
}

// Name returns the adapter identifier.
func (a *OpenCitationsAdapter) Name() string { return SourceOpenCitations }

// Search performs the lookup. No seeds or no citing works means no metadata
// request.
func (a *OpenCitationsAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	works, err := fetchOpenAlexWorks(ctx, a.Options, a.Email, query, openCitationsSeedWorks)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving DOIs: %w", SourceOpenCitations, err)
	}

	var seeds []string
	for _, w := range works {
		if d := bareDOI(w.DOI); d != "" {
			seeds = append(seeds, d)
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	citing, err := a.citingDOIs(ctx, seeds)
	if err != nil {
		return nil, err
	}
	if len(citing) == 0 {
		return nil, nil
	}

	req := httputil.Request{
		URL:        openCitationsAPIBase + "metadata/" + strings.Join(citing, "__"),
		Header:     a.header(),
		MaxRetries: a.MaxRetries,
	}
	var body any
	if err := httputil.GetJSON(ctx, a.client(), req, &body, a.logger()); err != nil {
		return nil, fmt.Errorf("%s metadata: %w", SourceOpenCitations, err)
	}
	return openCitationsMapping.apply(body)
}

// citingDOIs fetches the citations of every seed concurrently and returns
// the distinct citing DOIs in seed order, capped at the result limit. Seeds
// themselves are excluded. A failed seed is skipped; an error is returned
// only when every seed fails.
func (a *OpenCitationsAdapter) citingDOIs(ctx context.Context, seeds []string) ([]string, error) {
	slots := make([][]cociCitation, len(seeds))
	errs := make([]error, len(seeds))

	var g errgroup.Group
	for i, doi := range seeds {
		i, doi := i, doi
		g.Go(func() error {
			req := httputil.Request{
				URL:        openCitationsAPIBase + "citations/" + doi,
				Header:     a.header(),
				MaxRetries: a.MaxRetries,
			}
			if err := httputil.GetJSON(ctx, a.client(), req, &slots[i], a.logger()); err != nil {
				errs[i] = err
				a.logger().Debug("citations lookup failed", zap.String("doi", doi), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(seeds) {
		return nil, fmt.Errorf("%s citations: %w", SourceOpenCitations, errs[0])
	}

	seen := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		seen[strings.ToLower(s)] = true
	}
	limit := a.limit()
	var out []string
	for _, edges := range slots {
		for _, e := range edges {
			d := cociDOI(e.Citing)
			if d == "" || seen[strings.ToLower(d)] {
				continue
			}
			seen[strings.ToLower(d)] = true
			out = append(out, d)
			if len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// cociDOI extracts the DOI from a COCI identifier field, which is either a
// bare DOI ("10.1/x") or a prefixed list ("coci => 10.1/x", "omid:br/1 doi:10.1/x").
func cociDOI(s string) string {
	for _, tok := range strings.Fields(s) {
		if d := bareDOI(tok); strings.HasPrefix(d, "10.") {
			return d
		}
	}
	return ""
}
