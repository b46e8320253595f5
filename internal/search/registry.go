// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/pkg/types"
)

type registration struct {
	name string
	make func(opts Options, keys types.KeysConfig) Adapter
}

// registry lists every adapter in dispatch order. When two sources return
// the same title or link, the earlier one here is kept.
var registry = []registration{
	{SourceArxiv, func(o Options, _ types.KeysConfig) Adapter { return &ArxivAdapter{Options: o} }},
	{SourceCORE, func(o Options, k types.KeysConfig) Adapter { return NewCORE(o, k.CoreAPIKey) }},
	{SourcePubMed, func(o Options, _ types.KeysConfig) Adapter { return NewPubMed(o) }},
	{SourceEuropePMC, func(o Options, _ types.KeysConfig) Adapter { return NewEuropePMC(o) }},
	{SourceDOAJ, func(o Options, _ types.KeysConfig) Adapter { return NewDOAJ(o) }},
	{SourceOpenAlex, func(o Options, k types.KeysConfig) Adapter {
		return &OpenAlexAdapter{Options: o, Email: k.OpenAlexEmail}
	}},
	{SourceBASE, func(o Options, _ types.KeysConfig) Adapter { return NewBASE(o) }},
	{SourceERIC, func(o Options, _ types.KeysConfig) Adapter { return NewERIC(o) }},
	{SourcePMC, func(o Options, _ types.KeysConfig) Adapter { return NewPMC(o) }},
	{SourceSemanticScholar, func(o Options, k types.KeysConfig) Adapter {
		return NewSemanticScholar(o, k.SemanticScholarAPIKey)
	}},
	{SourceGoogleBooks, func(o Options, k types.KeysConfig) Adapter { return NewGoogleBooks(o, k.GoogleBooksAPIKey) }},
	{SourceDataverse, func(o Options, _ types.KeysConfig) Adapter { return NewDataverse(o) }},
	{SourcePLOS, func(o Options, _ types.KeysConfig) Adapter { return NewPLOS(o) }},
	{SourceOpenCitations, func(o Options, k types.KeysConfig) Adapter {
		return &OpenCitationsAdapter{Options: o, Email: k.OpenAlexEmail}
	}},
	{SourceResearchGate, func(o Options, _ types.KeysConfig) Adapter { return &ResearchGateAdapter{Options: o} }},
}

// Names returns every registered source name in dispatch order.
func Names() []string {
	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.name
	}
	return names
}

// NewAdapters builds the adapters enabled in cfg, in registration order.
// An empty sources.enabled list enables everything. Names match
// case-insensitively; an unknown name is an error.
func NewAdapters(cfg types.Config, client *http.Client, logger *zap.Logger) ([]Adapter, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTP.Timeout()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	enabled := make(map[string]bool, len(cfg.Sources.Enabled))
	for _, name := range cfg.Sources.Enabled {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || key == "all" {
			continue
		}
		if !known(key) {
			return nil, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		enabled[key] = true
	}

	opts := Options{
		Client:     client,
		UserAgent:  cfg.HTTP.UserAgent,
		MaxResults: cfg.Sources.MaxResults,
		MaxRetries: cfg.HTTP.MaxRetries,
	}

	var adapters []Adapter
	for _, r := range registry {
		if len(enabled) > 0 && !enabled[strings.ToLower(r.name)] {
			continue
		}
		o := opts
		o.Logger = logger.With(zap.String("source", r.name))
		adapters = append(adapters, r.make(o, cfg.Keys))
	}
	return adapters, nil
}

func known(lower string) bool {
	for _, r := range registry {
		if strings.ToLower(r.name) == lower {
			return true
		}
	}
	return false
}
