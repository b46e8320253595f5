// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

const doiPrefix = "https://doi.org/"

// OpenAlexAdapter queries the OpenAlex API.
type OpenAlexAdapter struct {
	Options
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the adapter identifier.
func (a *OpenAlexAdapter) Name() string { return SourceOpenAlex }

// Search queries the OpenAlex API and returns records.
func (a *OpenAlexAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	works, err := fetchOpenAlexWorks(ctx, a.Options, a.Email, query, a.limit())
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(works))
	for _, work := range works {
		r := types.Record{
			Title:   strings.TrimSpace(work.Title),
			Authors: joinAuthors(work.authorNames()),
			Link:    normalizeDOI(work.DOI),
			Snippet: reconstructAbstract(work.AbstractInvertedIndex),
			Source:  SourceOpenAlex,
		}
		if r.Link == "" && work.PrimaryLocation != nil {
			r.Link = work.PrimaryLocation.LandingPageURL
		}
		if work.PublicationYear > 0 {
			r.Year = strconv.Itoa(work.PublicationYear)
		}
		if !usable(r.Title) || !usable(r.Link) {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// fetchOpenAlexWorks runs one Works search. OpenCitations reuses it to
// discover DOIs.
func fetchOpenAlexWorks(ctx context.Context, opts Options, email, query string, perPage int) ([]openAlexWork, error) {
	if perPage > 200 {
		perPage = 200
	}
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(perPage)},
	}
	if email != "" {
		params.Set("mailto", email)
	}

	req := httputil.Request{
		URL:        openAlexSearchBase + "?" + params.Encode(),
		Header:     opts.header(),
		MaxRetries: opts.MaxRetries,
	}
	var oar openAlexResponse
	if err := httputil.GetJSON(ctx, opts.client(), req, &oar, opts.logger()); err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	if oar.Results == nil {
		return nil, fmt.Errorf("OpenAlex: %w: missing \"results\"", errUnexpectedShape)
	}
	return oar.Results, nil
}

// normalizeDOI returns a resolvable doi.org URL for doi, which OpenAlex
// usually reports as a URL already and other sources report bare.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	switch {
	case doi == "":
		return ""
	case strings.HasPrefix(doi, "http://"), strings.HasPrefix(doi, "https://"):
		return doi
	default:
		return doiPrefix + doi
	}
}

// bareDOI strips any resolver prefix from doi.
func bareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, p)
	}
	return doi
}

// joinAuthors renders an author list, falling back to UnknownAuthors.
func joinAuthors(names []string) string {
	var kept []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return types.UnknownAuthors
	}
	return strings.Join(kept, ", ")
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       *openAlexLocation    `json:"primary_location"`
}

func (w openAlexWork) authorNames() []string {
	names := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		names = append(names, a.Author.DisplayName)
	}
	return names
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
}
