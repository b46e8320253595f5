// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// errMissingKey is returned by adapters whose provider requires an API key
// that has not been configured.
var errMissingKey = errors.New("API key not configured")

// Provider endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	coreAPIBase        = "https://api.core.ac.uk/v3/search/works"
	europePMCAPIBase   = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"
	doajAPIBase        = "https://doaj.org/api/v2/search/articles/"
	baseAPIBase        = "https://api.base-search.net/cgi-bin/BaseHttpSearchInterface.fcgi"
	ericAPIBase        = "https://api.ies.ed.gov/eric/"
	googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"
	dataverseAPIBase   = "https://demo.dataverse.org/api/search"
	plosAPIBase        = "https://api.plos.org/search"
)

// Source names as they appear in Record.Source.
const (
	SourceArxiv           = "arXiv"
	SourceCORE            = "CORE"
	SourcePubMed          = "PubMed"
	SourceEuropePMC       = "Europe PMC"
	SourceDOAJ            = "DOAJ"
	SourceOpenAlex        = "OpenAlex"
	SourceBASE            = "BASE"
	SourceERIC            = "ERIC"
	SourcePMC             = "PMC"
	SourceSemanticScholar = "Semantic Scholar"
	SourceGoogleBooks     = "Google Books"
	SourceDataverse       = "Dataverse"
	SourcePLOS            = "PLOS"
	SourceOpenCitations   = "OpenCitations"
	SourceResearchGate    = "ResearchGate"
)

var coreMapping = mapping{
	Source:  SourceCORE,
	Items:   "results",
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"authors"}, Join: ", ", Fallback: types.UnknownAuthors},
	Link:    field{From: []string{"downloadUrl", "sourceFulltextUrl", "https://doi.org/{doi}"}},
	Year:    field{From: []string{"yearPublished"}},
	Snippet: field{From: []string{"abstract"}, Fallback: "No abstract available"},
}

// NewCORE returns the CORE adapter. CORE requires a bearer key; without one
// every search fails with errMissingKey.
func NewCORE(opts Options, apiKey string) Adapter {
	return &jsonAdapter{Options: opts, m: coreMapping, request: func(q string) (httputil.Request, error) {
		if apiKey == "" {
			return httputil.Request{}, fmt.Errorf("%s: %w", SourceCORE, errMissingKey)
		}
		h := opts.header()
		h.Set("Authorization", "Bearer "+apiKey)
		params := url.Values{
			"q":     {q},
			"limit": {strconv.Itoa(opts.limit())},
		}
		return httputil.Request{URL: coreAPIBase + "?" + params.Encode(), Header: h}, nil
	}}
}

var europePMCMapping = mapping{
	Source:  SourceEuropePMC,
	Items:   "resultList.result",
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"authorString"}},
	Link:    field{From: []string{"https://europepmc.org/article/{source}/{id}"}},
	Year:    field{From: []string{"pubYear"}},
	Snippet: field{From: []string{"abstractText"}},
}

// NewEuropePMC returns the Europe PMC adapter.
func NewEuropePMC(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: europePMCMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"query":    {q},
			"format":   {"json"},
			"pageSize": {strconv.Itoa(opts.limit())},
		}
		return httputil.Request{URL: europePMCAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}

var doajMapping = mapping{
	Source:  SourceDOAJ,
	Items:   "results",
	Title:   field{From: []string{"bibjson.title"}},
	Authors: field{From: []string{"bibjson.author[]"}, Join: ", ", Fallback: types.UnknownAuthors},
	Link:    field{From: []string{"bibjson.link[0].url"}},
	Year:    field{From: []string{"bibjson.year"}},
	Snippet: field{From: []string{"bibjson.abstract"}},
}

// NewDOAJ returns the Directory of Open Access Journals adapter. DOAJ takes
// the query as a path segment.
func NewDOAJ(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: doajMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{"pageSize": {strconv.Itoa(opts.limit())}}
		return httputil.Request{
			URL:    doajAPIBase + url.PathEscape(q) + "?" + params.Encode(),
			Header: opts.header(),
		}, nil
	}}
}

var baseMapping = mapping{
	Source:  SourceBASE,
	Items:   "response.docs",
	Title:   field{From: []string{"dctitle"}},
	Authors: field{From: []string{"dccontributor", "dccreator"}, Join: ", "},
	Link:    field{From: []string{"dcidentifier", "dclink"}},
	Year:    field{From: []string{"dcyear"}},
	Snippet: field{From: []string{"dcdescription"}},
}

// NewBASE returns the Bielefeld Academic Search Engine adapter.
func NewBASE(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: baseMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"func":   {"PerformSearch"},
			"query":  {q},
			"format": {"json"},
			"hits":   {strconv.Itoa(opts.limit())},
		}
		return httputil.Request{URL: baseAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}

var ericMapping = mapping{
	Source:  SourceERIC,
	Items:   "response.docs",
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"author"}, Join: ", ", Fallback: types.UnknownAuthors},
	Link:    field{From: []string{"url", "https://eric.ed.gov/?id={id}"}},
	Year:    field{From: []string{"publicationDateTime", "publicationdateyear"}},
	Snippet: field{From: []string{"description"}},
}

// NewERIC returns the Education Resources Information Center adapter.
func NewERIC(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: ericMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"search": {q},
			"format": {"json"},
			"rows":   {strconv.Itoa(opts.limit())},
		}
		return httputil.Request{URL: ericAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}

var googleBooksMapping = mapping{
	Source:  SourceGoogleBooks,
	Items:   "items",
	Sparse:  true,
	Title:   field{From: []string{"volumeInfo.title"}},
	Authors: field{From: []string{"volumeInfo.authors"}, Join: ", ", Fallback: types.UnknownAuthors},
	Link:    field{From: []string{"volumeInfo.infoLink", "volumeInfo.canonicalVolumeLink"}},
	Year:    field{From: []string{"volumeInfo.publishedDate"}},
	Snippet: field{From: []string{"volumeInfo.description", "searchInfo.textSnippet"}},
}

// NewGoogleBooks returns the Google Books adapter. A key is required.
func NewGoogleBooks(opts Options, apiKey string) Adapter {
	return &jsonAdapter{Options: opts, m: googleBooksMapping, request: func(q string) (httputil.Request, error) {
		if apiKey == "" {
			return httputil.Request{}, fmt.Errorf("%s: %w", SourceGoogleBooks, errMissingKey)
		}
		limit := opts.limit()
		if limit > 40 {
			limit = 40
		}
		params := url.Values{
			"q":          {q},
			"key":        {apiKey},
			"maxResults": {strconv.Itoa(limit)},
		}
		return httputil.Request{URL: googleBooksAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}

var dataverseMapping = mapping{
	Source:  SourceDataverse,
	Items:   "data.items",
	Title:   field{From: []string{"name"}},
	Authors: field{From: []string{"authors"}, Join: ", "},
	Link:    field{From: []string{"url"}},
	Year:    field{From: []string{"published_at"}},
	Snippet: field{From: []string{"description"}},
}

// NewDataverse returns the Dataverse dataset search adapter.
func NewDataverse(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: dataverseMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"q":        {q},
			"type":     {"dataset"},
			"per_page": {strconv.Itoa(opts.limit())},
		}
		return httputil.Request{URL: dataverseAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}

const plosFields = "id,title_display,author_display,publication_date,abstract"

var plosMapping = mapping{
	Source:  SourcePLOS,
	Items:   "response.docs",
	Title:   field{From: []string{"title_display"}},
	Authors: field{From: []string{"author_display"}, Join: ", "},
	Link:    field{From: []string{"https://journals.plos.org/plosone/article?id={id}"}},
	Year:    field{From: []string{"publication_date"}},
	Snippet: field{From: []string{"abstract[0]"}},
}

// NewPLOS returns the Public Library of Science adapter.
func NewPLOS(opts Options) Adapter {
	return &jsonAdapter{Options: opts, m: plosMapping, request: func(q string) (httputil.Request, error) {
		params := url.Values{
			"q":    {q},
			"wt":   {"json"},
			"rows": {strconv.Itoa(opts.limit())},
			"fl":   {plosFields},
		}
		return httputil.Request{URL: plosAPIBase + "?" + params.Encode(), Header: opts.header()}, nil
	}}
}
