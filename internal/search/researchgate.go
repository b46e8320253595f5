// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/pdiddy/research-finder/pkg/types"
)

// researchGateBase is the ResearchGate site root. Declared as a var so tests
// can substitute an httptest server.
var researchGateBase = "https://www.researchgate.net"

// ResearchGate serves its search page only to browser-like clients.
const researchGateUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ResearchGateAdapter scrapes the ResearchGate publication search page.
type ResearchGateAdapter struct {
	Options
}

// Name returns the adapter identifier.
func (a *ResearchGateAdapter) Name() string { return SourceResearchGate }

// Search fetches and parses one results page.
func (a *ResearchGateAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	collector := colly.NewCollector(colly.UserAgent(researchGateUserAgent))
	if client := a.client(); client.Transport != nil {
		collector.WithTransport(client.Transport)
	}
	if a.client().Timeout > 0 {
		collector.SetRequestTimeout(a.client().Timeout)
	}

	var (
		records  []types.Record
		fetchErr error
	)
	limit := a.limit()

	collector.OnHTML(".search-results-item", func(e *colly.HTMLElement) {
		if len(records) >= limit {
			return
		}
		r := types.Record{
			Title:   collapseSpace(e.ChildText(".publication-title")),
			Authors: collapseSpace(e.ChildText(".authors")),
			Link:    researchGateLink(e.ChildAttr("a", "href")),
			Snippet: collapseSpace(e.ChildText(".publication-abstract")),
			Source:  SourceResearchGate,
		}
		if !usable(r.Title) || !usable(r.Link) {
			return
		}
		if r.Authors == "" {
			r.Authors = types.UnknownAuthors
		}
		records = append(records, r)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	searchURL := researchGateBase + "/search/publication?q=" + url.QueryEscape(query)
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(searchURL)
	}()

	// colly's Visit takes no context. On cancellation the goroutine runs on
	// until the collector's request timeout; done is buffered so it never
	// blocks, and records is not read after that point.
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("ResearchGate scrape canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("ResearchGate visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("ResearchGate response failed: %w", fetchErr)
		}
		return records, nil
	}
}

func researchGateLink(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "" || href == "#":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return researchGateBase + href
	default:
		return researchGateBase + "/" + href
	}
}
