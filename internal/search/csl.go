// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-finder/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	DOI      string    `yaml:"DOI,omitempty"`
	URL      string    `yaml:"URL"`
	Source   string    `yaml:"source"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes search results as a CSL-YAML list to w.
func FormatCSL(out types.SearchResponse, w io.Writer) error {
	items := make([]CSLItem, len(out.Results))
	for i, r := range out.Results {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Record to a CSLItem.
func toCSLItem(r types.Record) CSLItem {
	item := CSLItem{
		ID:       cslID(r.Link),
		Type:     cslType(r.Source),
		Title:    r.Title,
		Abstract: r.Snippet,
		URL:      r.Link,
		Source:   r.Source,
	}

	if r.Authors != types.UnknownAuthors && r.Authors != "Unknown" {
		for _, a := range splitAuthors(r.Authors) {
			item.Author = append(item.Author, parseAuthorName(a))
		}
	}

	if y := r.YearValue(); y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}

	if doi := bareDOI(r.Link); strings.HasPrefix(doi, "10.") {
		item.DOI = doi
	}

	return item
}

// cslID derives a stable citation key from the record link.
func cslID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("rf-%x", h[:6])
}

func cslType(source string) string {
	switch source {
	case SourceGoogleBooks:
		return "book"
	case SourceDataverse:
		return "dataset"
	default:
		return "article"
	}
}

// splitAuthors splits a joined author list. OpenCitations separates authors
// with semicolons (each "Family, Given"); every other source uses commas.
func splitAuthors(authors string) []string {
	sep := ","
	if strings.Contains(authors, ";") {
		sep = ";"
	}
	var out []string
	for _, a := range strings.Split(authors, sep) {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// parseAuthorName splits a full name string into CSL family/given parts.
// "Family, Given" is honored; otherwise it splits on the last space:
// everything before is given, the last token is family. Single-token names
// use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
