// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// eutilsAPIBase is the NCBI E-utilities root shared by PubMed and PMC.
// Declared as a var so tests can substitute an httptest server.
var eutilsAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// EutilsAdapter searches one NCBI database in two steps: esearch returns
// matching IDs, esummary returns their document summaries.
type EutilsAdapter struct {
	Options
	source string
	db     string
	link   func(uid string) string
}

// NewPubMed returns the PubMed adapter.
func NewPubMed(opts Options) *EutilsAdapter {
	return &EutilsAdapter{Options: opts, source: SourcePubMed, db: "pubmed", link: func(uid string) string {
		return "https://pubmed.ncbi.nlm.nih.gov/" + uid
	}}
}

// NewPMC returns the PubMed Central adapter.
func NewPMC(opts Options) *EutilsAdapter {
	return &EutilsAdapter{Options: opts, source: SourcePMC, db: "pmc", link: func(uid string) string {
		return "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC" + uid + "/"
	}}
}

// Name returns the adapter identifier.
func (a *EutilsAdapter) Name() string { return a.source }

// Search runs esearch then esummary. An empty ID list returns no records
// without calling esummary.
func (a *EutilsAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	ids, err := a.searchIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"db":      {a.db},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}
	var sr esummaryResponse
	if err := httputil.GetJSON(ctx, a.client(), a.request("esummary.fcgi", params), &sr, a.logger()); err != nil {
		return nil, fmt.Errorf("%s esummary: %w", a.source, err)
	}
	if sr.Result == nil {
		return nil, fmt.Errorf("%s esummary: %w: missing \"result\"", a.source, errUnexpectedShape)
	}

	// The result object is keyed by UID plus a "uids" list giving the order.
	order := ids
	if raw, ok := sr.Result["uids"]; ok {
		var uids []string
		if err := json.Unmarshal(raw, &uids); err == nil {
			order = uids
		}
	}

	records := make([]types.Record, 0, len(order))
	for _, uid := range order {
		raw, ok := sr.Result[uid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			a.logger().Debug("skipping malformed summary",
				zap.String("source", a.source), zap.String("uid", uid), zap.Error(err))
			continue
		}
		if doc.UID == "" {
			doc.UID = uid
		}

		names := make([]string, 0, len(doc.Authors))
		for _, au := range doc.Authors {
			names = append(names, au.Name)
		}
		r := types.Record{
			Title:   strings.TrimSpace(doc.Title),
			Authors: joinAuthors(names),
			Link:    a.link(doc.UID),
			Year:    yearOf(doc.PubDate),
			Source:  a.source,
		}
		if !usable(r.Title) {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (a *EutilsAdapter) searchIDs(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"db":      {a.db},
		"term":    {query},
		"retmax":  {strconv.Itoa(a.limit())},
		"retmode": {"json"},
	}
	var er esearchResponse
	if err := httputil.GetJSON(ctx, a.client(), a.request("esearch.fcgi", params), &er, a.logger()); err != nil {
		return nil, fmt.Errorf("%s esearch: %w", a.source, err)
	}
	if er.Result == nil {
		return nil, fmt.Errorf("%s esearch: %w: missing \"esearchresult\"", a.source, errUnexpectedShape)
	}
	return er.Result.IDList, nil
}

func (a *EutilsAdapter) request(endpoint string, params url.Values) httputil.Request {
	return httputil.Request{
		URL:        eutilsAPIBase + endpoint + "?" + params.Encode(),
		Header:     a.header(),
		MaxRetries: a.MaxRetries,
	}
}

// E-utilities JSON structures.
type esearchResponse struct {
	Result *struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	UID     string `json:"uid"`
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}
