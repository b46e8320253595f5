// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"
	"testing"

	"github.com/pdiddy/research-finder/pkg/types"
)

func TestNamesOrder(t *testing.T) {
	want := []string{
		"arXiv", "CORE", "PubMed", "Europe PMC", "DOAJ", "OpenAlex", "BASE", "ERIC",
		"PMC", "Semantic Scholar", "Google Books", "Dataverse", "PLOS", "OpenCitations", "ResearchGate",
	}
	if got := Names(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Names() = %v\nwant %v", got, want)
	}
}

func TestNewAdaptersAll(t *testing.T) {
	adapters, err := NewAdapters(types.Config{}, nil, nil)
	if err != nil {
		t.Fatalf("NewAdapters: %v", err)
	}
	if len(adapters) != len(Names()) {
		t.Fatalf("len = %d, want %d", len(adapters), len(Names()))
	}
	for i, a := range adapters {
		if a.Name() != Names()[i] {
			t.Errorf("adapters[%d] = %q, want %q", i, a.Name(), Names()[i])
		}
	}
}

func TestNewAdaptersEnabledSubset(t *testing.T) {
	cfg := types.Config{Sources: types.SourcesConfig{Enabled: []string{"pubmed", "arXiv", " doaj "}}}

	adapters, err := NewAdapters(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewAdapters: %v", err)
	}

	var got []string
	for _, a := range adapters {
		got = append(got, a.Name())
	}
	// Registration order wins over the order in the config.
	if strings.Join(got, ",") != "arXiv,PubMed,DOAJ" {
		t.Errorf("adapters = %v", got)
	}
}

func TestNewAdaptersAllKeyword(t *testing.T) {
	adapters, err := NewAdapters(types.Config{Sources: types.SourcesConfig{Enabled: []string{"all"}}}, nil, nil)
	if err != nil {
		t.Fatalf("NewAdapters: %v", err)
	}
	if len(adapters) != len(Names()) {
		t.Errorf("len = %d, want every adapter", len(adapters))
	}
}

func TestNewAdaptersUnknownSource(t *testing.T) {
	_, err := NewAdapters(types.Config{Sources: types.SourcesConfig{Enabled: []string{"Scopus"}}}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), `unknown source "Scopus"`) {
		t.Errorf("err = %v", err)
	}
}

func TestNewAdaptersPassesKeys(t *testing.T) {
	cfg := types.Config{
		Sources: types.SourcesConfig{Enabled: []string{"OpenAlex", "OpenCitations"}},
		Keys:    types.KeysConfig{OpenAlexEmail: "me@example.org"},
	}
	adapters, err := NewAdapters(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewAdapters: %v", err)
	}

	oa, ok := adapters[0].(*OpenAlexAdapter)
	if !ok || oa.Email != "me@example.org" {
		t.Errorf("OpenAlex adapter = %#v", adapters[0])
	}
	oc, ok := adapters[1].(*OpenCitationsAdapter)
	if !ok || oc.Email != "me@example.org" {
		t.Errorf("OpenCitations adapter = %#v", adapters[1])
	}
}
