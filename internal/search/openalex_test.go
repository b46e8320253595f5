// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/research-finder/pkg/types"
)

// --- reconstructAbstract ---

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{
			name:  "empty map",
			index: map[string][]int{},
			want:  "",
		},
		{
			name:  "nil map",
			index: nil,
			want:  "",
		},
		{
			name:  "single word",
			index: map[string][]int{"hello": {0}},
			want:  "hello",
		},
		{
			name: "multi-word ordered",
			index: map[string][]int{
				"We":      {0},
				"propose": {1},
				"a":       {2},
				"new":     {3},
				"method":  {4},
			},
			want: "We propose a new method",
		},
		{
			name: "words with shared positions (word appearing multiple times)",
			index: map[string][]int{
				"the": {0, 4},
				"cat": {1},
				"sat": {2},
				"on":  {3},
				"mat": {5},
			},
			want: "the cat sat on the mat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reconstructAbstract(tt.index); got != tt.want {
				t.Errorf("reconstructAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- DOI helpers ---

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://doi.org/10.1/x", "https://doi.org/10.1/x"},
		{"10.1/x", "https://doi.org/10.1/x"},
		{" 10.1/x ", "https://doi.org/10.1/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDOI(tt.in); got != tt.want {
			t.Errorf("normalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBareDOI(t *testing.T) {
	for _, in := range []string{"https://doi.org/10.1/x", "http://doi.org/10.1/x", "https://dx.doi.org/10.1/x", "doi:10.1/x", "10.1/x"} {
		if got := bareDOI(in); got != "10.1/x" {
			t.Errorf("bareDOI(%q) = %q", in, got)
		}
	}
}

func TestJoinAuthors(t *testing.T) {
	if got := joinAuthors([]string{"A", " ", "B"}); got != "A, B" {
		t.Errorf("joinAuthors = %q", got)
	}
	if got := joinAuthors(nil); got != types.UnknownAuthors {
		t.Errorf("joinAuthors(nil) = %q", got)
	}
}

// --- OpenAlexAdapter ---

const sampleOpenAlexJSON = `{
	"meta": {"count": 3},
	"results": [
		{
			"id": "https://openalex.org/W1",
			"title": "Attention Is All You Need",
			"doi": "https://doi.org/10.48550/arxiv.1706.03762",
			"publication_year": 2017,
			"authorships": [
				{"author": {"display_name": "Ashish Vaswani"}},
				{"author": {"display_name": "Noam Shazeer"}}
			],
			"abstract_inverted_index": {"The": [0], "dominant": [1], "models": [2]},
			"primary_location": {"landing_page_url": "https://arxiv.org/abs/1706.03762"}
		},
		{
			"id": "https://openalex.org/W2",
			"title": "No DOI",
			"doi": null,
			"publication_year": null,
			"authorships": [],
			"primary_location": {"landing_page_url": "https://example.org/w2"}
		},
		{
			"id": "https://openalex.org/W3",
			"title": "Nowhere to link",
			"doi": null,
			"primary_location": null
		}
	]
}`

func TestOpenAlexSearch(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleOpenAlexJSON)
	}))
	defer ts.Close()
	withBase(t, &openAlexSearchBase, ts.URL)

	a := &OpenAlexAdapter{Options: testOptions(ts.Client()), Email: "me@example.org"}
	records, err := a.Search(context.Background(), "attention")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	want := types.Record{
		Title:   "Attention Is All You Need",
		Authors: "Ashish Vaswani, Noam Shazeer",
		Link:    "https://doi.org/10.48550/arxiv.1706.03762",
		Year:    "2017",
		Snippet: "The dominant models",
		Source:  SourceOpenAlex,
	}
	if records[0] != want {
		t.Errorf("records[0] = %+v\nwant %+v", records[0], want)
	}

	second := records[1]
	if second.Link != "https://example.org/w2" {
		t.Errorf("landing page fallback = %q", second.Link)
	}
	if second.Year != "" || second.Authors != types.UnknownAuthors {
		t.Errorf("second = %+v", second)
	}

	q := captured.URL.Query()
	if q.Get("search") != "attention" || q.Get("per_page") != "7" || q.Get("mailto") != "me@example.org" {
		t.Errorf("query = %v", q)
	}
}

func TestOpenAlexSearchMissingResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error": "Invalid query parameters"}`)
	}))
	defer ts.Close()
	withBase(t, &openAlexSearchBase, ts.URL)

	a := &OpenAlexAdapter{Options: testOptions(ts.Client())}
	_, err := a.Search(context.Background(), "x")
	if !errors.Is(err, errUnexpectedShape) {
		t.Errorf("err = %v, want errUnexpectedShape", err)
	}
}

func TestOpenAlexSearchPerPageCap(t *testing.T) {
	var perPage string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		perPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer ts.Close()
	withBase(t, &openAlexSearchBase, ts.URL)

	opts := testOptions(ts.Client())
	opts.MaxResults = 500
	if _, err := (&OpenAlexAdapter{Options: opts}).Search(context.Background(), "x"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if perPage != "200" {
		t.Errorf("per_page = %q, want 200", perPage)
	}
}
