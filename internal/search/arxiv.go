// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv Atom API.
type ArxivAdapter struct {
	Options
}

// Name returns the adapter identifier.
func (a *ArxivAdapter) Name() string { return SourceArxiv }

// Search queries arXiv across all fields and returns records.
func (a *ArxivAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(a.limit())},
	}
	h := a.header()
	h.Set("Accept", "application/atom+xml")

	body, err := httputil.Get(ctx, a.client(), httputil.Request{
		URL:        arxivAPIBase + "?" + params.Encode(),
		Header:     h,
		MaxRetries: a.MaxRetries,
	}, a.logger())
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	// gofeed parsers keep per-document state, so each search gets its own.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		r := types.Record{
			Title:   collapseSpace(item.Title),
			Link:    item.Link,
			Snippet: collapseSpace(item.Description),
			Source:  SourceArxiv,
		}
		if r.Link == "" {
			if id := extractArxivID(item.GUID); id != "" {
				r.Link = "https://arxiv.org/abs/" + id
			}
		}

		names := make([]string, 0, len(item.Authors))
		for _, p := range item.Authors {
			names = append(names, p.Name)
		}
		r.Authors = joinAuthors(names)

		if item.PublishedParsed != nil {
			r.Year = strconv.Itoa(item.PublishedParsed.Year())
		} else {
			r.Year = yearOf(item.Published)
		}

		if !usable(r.Title) || !usable(r.Link) {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// collapseSpace folds the hard line wrapping arXiv puts in titles and
// abstracts.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
