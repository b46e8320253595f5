// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fans a query out to academic literature APIs and merges the
// normalized records into one deduplicated, recency-ordered result list.
package search

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/research-finder/pkg/types"
)

// ErrEmptyQuery is returned when the query contains no searchable text.
var ErrEmptyQuery = errors.New("search query is required")

// errUnexpectedShape marks a provider response whose top-level container is
// missing or of the wrong type.
var errUnexpectedShape = errors.New("unexpected response shape")

// Adapter searches a single provider. Each provider (arXiv, PubMed, DOAJ,
// ...) implements this interface; Isolate guarantees its errors never reach
// the dispatcher.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string) ([]types.Record, error)
}

// Options carries the settings every adapter draws from configuration.
type Options struct {
	Client     *http.Client
	UserAgent  string
	MaxResults int
	MaxRetries int
	Logger     *zap.Logger
}

func (o Options) limit() int {
	if o.MaxResults <= 0 {
		return 10
	}
	return o.MaxResults
}

func (o Options) client() *http.Client {
	if o.Client == nil {
		return http.DefaultClient
	}
	return o.Client
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) header() http.Header {
	h := http.Header{"Accept": {"application/json"}}
	if o.UserAgent != "" {
		h.Set("User-Agent", o.UserAgent)
	}
	return h
}

// Dispatch runs every adapter concurrently and concatenates their results in
// the order the adapters were given, not the order they finished. Adapters
// are expected to be isolated; an error from one is dropped here as well.
func Dispatch(ctx context.Context, adapters []Adapter, query string) []types.Record {
	slots := make([][]types.Record, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			records, err := a.Search(ctx, query)
			if err == nil {
				slots[i] = records
			}
			return nil
		})
	}
	_ = g.Wait()

	var all []types.Record
	for _, s := range slots {
		all = append(all, s...)
	}
	return all
}

// Process filters records lacking a title or link, drops later duplicates
// sharing an exact title or link with a kept record, and orders the rest by
// year descending. Records with an unparseable year sort last; ties keep
// their input order.
func Process(records []types.Record) types.SearchResponse {
	kept := deduplicate(filterIncomplete(records))

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].YearValue() > kept[j].YearValue()
	})

	return types.SearchResponse{
		Results: kept,
		Sources: distinctSources(kept),
	}
}

func filterIncomplete(records []types.Record) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Link) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// deduplicate keeps the first record for each title and each link. Titles
// compare exactly, so "Untitled" placeholders from different sources
// collapse into one.
func deduplicate(records []types.Record) []types.Record {
	titles := make(map[string]struct{}, len(records))
	links := make(map[string]struct{}, len(records))
	out := make([]types.Record, 0, len(records))

	for _, r := range records {
		_, dupTitle := titles[r.Title]
		_, dupLink := links[r.Link]
		if dupTitle || dupLink {
			continue
		}
		titles[r.Title] = struct{}{}
		links[r.Link] = struct{}{}
		out = append(out, r)
	}
	return out
}

func distinctSources(records []types.Record) []string {
	seen := make(map[string]struct{})
	sources := []string{}
	for _, r := range records {
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		sources = append(sources, r.Source)
	}
	return sources
}

// FilterBySource returns the records from source. An empty source or "all"
// returns records unchanged.
func FilterBySource(records []types.Record, source string) []types.Record {
	if source == "" || strings.EqualFold(source, "all") {
		return records
	}
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}

// CountBySource tallies records per source.
func CountBySource(records []types.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Source]++
	}
	return counts
}

// Engine binds a fixed adapter set to the dispatch and merge stages.
type Engine struct {
	adapters []Adapter
	isolated []Adapter
	timeout  time.Duration
	deadline time.Duration
	logger   *zap.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithAdapterTimeout bounds each adapter's provider calls.
func WithAdapterTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.timeout = d }
}

// WithRequestDeadline bounds one whole search across all adapters.
func WithRequestDeadline(d time.Duration) EngineOption {
	return func(e *Engine) { e.deadline = d }
}

// WithLogger sets the logger used for adapter failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an Engine over adapters, in the given order.
func NewEngine(adapters []Adapter, opts ...EngineOption) *Engine {
	e := &Engine{
		adapters: adapters,
		timeout:  10 * time.Second,
		deadline: 30 * time.Second,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.isolated = make([]Adapter, len(adapters))
	for i, a := range adapters {
		i, a := i, a
		e.isolated[i] = Isolate(a, e.timeout, e.logger)
	}
	return e
}

// Sources returns the adapter names in dispatch order.
func (e *Engine) Sources() []string {
	names := make([]string, len(e.adapters))
	for i, a := range e.adapters {
		names[i] = a.Name()
	}
	return names
}

// Search runs query against every adapter and returns the merged envelope.
// The only error is ErrEmptyQuery.
func (e *Engine) Search(ctx context.Context, query string) (types.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchResponse{}, ErrEmptyQuery
	}

	if e.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.deadline)
		defer cancel()
	}

	start := time.Now()
	raw := Dispatch(ctx, e.isolated, query)
	out := Process(raw)

	e.logger.Info("search completed",
		zap.String("query", query),
		zap.Int("raw", len(raw)),
		zap.Int("results", len(out.Results)),
		zap.Strings("sources", out.Sources),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}
