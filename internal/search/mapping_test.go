// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pdiddy/research-finder/pkg/types"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestFieldEval(t *testing.T) {
	item := decode(t, `{
		"title": "  Deep Learning  ",
		"doi": "10.1000/xyz",
		"year": 2021,
		"empty": "",
		"authors": ["Ada Lovelace", {"name": "Alan Turing"}, {"id": 3}],
		"bibjson": {"link": [{"url": "https://first"}, {"url": "https://second"}]},
		"abstract": ["Para one.", "Para two."]
	}`)

	tests := []struct {
		name string
		f    field
		want string
	}{
		{"plain path trims", field{From: []string{"title"}}, "Deep Learning"},
		{"number", field{From: []string{"year"}}, "2021"},
		{"first non-empty candidate", field{From: []string{"empty", "missing", "doi"}}, "10.1000/xyz"},
		{"template", field{From: []string{"https://doi.org/{doi}"}}, "https://doi.org/10.1000/xyz"},
		{"template with missing key is skipped", field{From: []string{"https://x/{nope}", "title"}}, "Deep Learning"},
		{"fallback", field{From: []string{"missing"}, Fallback: "Unknown"}, "Unknown"},
		{"join mixed strings and objects", field{From: []string{"authors"}, Join: ", "}, "Ada Lovelace, Alan Turing"},
		{"first value without join", field{From: []string{"authors"}}, "Ada Lovelace"},
		{"index", field{From: []string{"bibjson.link[1].url"}}, "https://second"},
		{"index out of range", field{From: []string{"bibjson.link[5].url"}, Fallback: "#"}, "#"},
		{"fan out", field{From: []string{"bibjson.link[].url"}, Join: " | "}, "https://first | https://second"},
		{"array element", field{From: []string{"abstract[0]"}}, "Para one."},
		{"path through scalar", field{From: []string{"title.inner"}, Fallback: "x"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.eval(item); got != tt.want {
				t.Errorf("eval() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2021", "2021"},
		{"2021-03-04", "2021"},
		{"2019 Mar 5", "2019"},
		{" 1999 ", "1999"},
		{"N/A", ""},
		{"", ""},
		{"c. 1850", ""},
	}
	for _, tt := range tests {
		if got := yearOf(tt.in); got != tt.want {
			t.Errorf("yearOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var testMapping = mapping{
	Source:  "Test",
	Items:   "response.docs",
	Title:   field{From: []string{"title"}},
	Authors: field{From: []string{"authors"}, Join: ", "},
	Link:    field{From: []string{"url", "https://example.org/{id}"}},
	Year:    field{From: []string{"date"}},
	Snippet: field{From: []string{"abstract"}},
}

func TestMappingApply(t *testing.T) {
	body := decode(t, `{"response": {"docs": [
		{"title": "Full", "authors": ["A", "B"], "url": "https://full", "date": "2020-01-02", "abstract": "S"},
		{"title": "By id", "id": "42"},
		{"title": "No link"},
		{"url": "https://no-title"},
		{"title": "Untitled", "url": "https://placeholder-title"},
		{"title": "Hash link", "url": "#"}
	]}}`)

	records, err := testMapping.apply(body)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2: %+v", len(records), records)
	}

	want := types.Record{Title: "Full", Authors: "A, B", Link: "https://full", Year: "2020", Snippet: "S", Source: "Test"}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	if records[1].Link != "https://example.org/42" {
		t.Errorf("templated link = %q", records[1].Link)
	}
	if records[1].Authors != types.UnknownAuthors {
		t.Errorf("missing authors = %q, want %q", records[1].Authors, types.UnknownAuthors)
	}
}

func TestMappingApplyShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing container", `{"response": {}}`},
		{"container not a list", `{"response": {"docs": {"title": "x"}}}`},
		{"error payload", `{"error": "bad request"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testMapping.apply(decode(t, tt.body))
			if !errors.Is(err, errUnexpectedShape) {
				t.Errorf("err = %v, want errUnexpectedShape", err)
			}
		})
	}
}

func TestMappingApplyRootArray(t *testing.T) {
	m := mapping{
		Source: "Root",
		Title:  field{From: []string{"title"}},
		Link:   field{From: []string{"https://doi.org/{doi}"}},
	}
	records, err := m.apply(decode(t, `[{"title": "T", "doi": "10.1/a"}]`))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(records) != 1 || records[0].Link != "https://doi.org/10.1/a" {
		t.Errorf("records = %+v", records)
	}

	if _, err := m.apply(decode(t, `{"title": "T"}`)); !errors.Is(err, errUnexpectedShape) {
		t.Errorf("object body err = %v, want errUnexpectedShape", err)
	}
}

func TestMappingApplySparse(t *testing.T) {
	m := testMapping
	m.Sparse = true

	records, err := m.apply(decode(t, `{"kind": "books#volumes", "totalItems": 0}`))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}
