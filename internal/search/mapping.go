// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/research-finder/internal/httputil"
	"github.com/pdiddy/research-finder/pkg/types"
)

// field lists the candidate sources for one Record field. A candidate is a
// path ("bibjson.title") or a template with {path} placeholders
// ("https://doi.org/{doi}"). The first candidate that resolves to a
// non-empty value wins; Fallback applies when none do.
//
// Path syntax: segments separated by '.', "name[]" fans out over an array,
// "name[2]" selects one element. Objects reached at the end of a path
// collapse to their "name" member, which covers author lists that mix plain
// strings and {name: ...} objects.
type field struct {
	From     []string
	Fallback string
	// Join, when set, joins every value the winning candidate yields.
	// Otherwise only the first value is used.
	Join string
}

// mapping describes how one provider's JSON response becomes records.
type mapping struct {
	Source string
	// Items is the path to the result array. Empty means the response body
	// itself is the array.
	Items string
	// Sparse providers omit Items entirely when nothing matches, so a
	// missing container is an empty result rather than a shape error.
	Sparse  bool
	Title   field
	Authors field
	Link    field
	Year    field
	Snippet field
}

// placeholders are values some providers (and the original UI) use in place
// of a real title or link. They are never emitted.
var placeholders = map[string]bool{"#": true, "Untitled": true, "N/A": true}

// apply maps a decoded response body to records.
func (m mapping) apply(body any) ([]types.Record, error) {
	container := body
	if m.Items != "" {
		vals := resolve(body, m.Items)
		if len(vals) == 0 && m.Sparse {
			return nil, nil
		}
		if len(vals) != 1 {
			return nil, fmt.Errorf("%s: %w: missing %q", m.Source, errUnexpectedShape, m.Items)
		}
		container = vals[0]
	}
	items, ok := container.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q is not a list", m.Source, errUnexpectedShape, m.Items)
	}

	records := make([]types.Record, 0, len(items))
	for _, item := range items {
		r := types.Record{
			Title:   m.Title.eval(item),
			Authors: m.Authors.eval(item),
			Link:    m.Link.eval(item),
			Year:    yearOf(m.Year.eval(item)),
			Snippet: m.Snippet.eval(item),
			Source:  m.Source,
		}
		if !usable(r.Title) || !usable(r.Link) {
			continue
		}
		if r.Authors == "" {
			r.Authors = types.UnknownAuthors
		}
		records = append(records, r)
	}
	return records, nil
}

func usable(s string) bool {
	return s != "" && !placeholders[s]
}

func (f field) eval(item any) string {
	for _, c := range f.From {
		if v := f.candidate(item, c); v != "" {
			return v
		}
	}
	return f.Fallback
}

func (f field) candidate(item any, c string) string {
	if !strings.Contains(c, "{") {
		vals := texts(resolve(item, c))
		if len(vals) == 0 {
			return ""
		}
		if f.Join != "" {
			return strings.Join(vals, f.Join)
		}
		return vals[0]
	}

	var b strings.Builder
	rest := c
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return ""
		}
		vals := texts(resolve(item, rest[open+1:open+end]))
		if len(vals) == 0 {
			return ""
		}
		b.WriteString(rest[:open])
		b.WriteString(vals[0])
		rest = rest[open+end+1:]
	}
}

// resolve walks path from v and returns every value it reaches.
func resolve(v any, path string) []any {
	cur := []any{v}
	for _, seg := range strings.Split(path, ".") {
		name, index, fan := parseSegment(seg)
		var next []any
		for _, c := range cur {
			if name != "" {
				obj, ok := c.(map[string]any)
				if !ok {
					continue
				}
				c, ok = obj[name]
				if !ok || c == nil {
					continue
				}
			}
			switch {
			case fan:
				if arr, ok := c.([]any); ok {
					next = append(next, arr...)
				}
			case index >= 0:
				if arr, ok := c.([]any); ok && index < len(arr) {
					next = append(next, arr[index])
				}
			default:
				next = append(next, c)
			}
		}
		cur = next
		if len(cur) == 0 {
			return nil
		}
	}
	return cur
}

// parseSegment splits "name[]" or "name[3]" into its parts. index is -1
// when the segment has no numeric selector.
func parseSegment(seg string) (name string, index int, fan bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, -1, false
	}
	name = seg[:open]
	inner := seg[open+1 : len(seg)-1]
	if inner == "" {
		return name, -1, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return seg, -1, false
	}
	return name, n, false
}

// texts converts resolved values to trimmed, non-empty strings.
func texts(vals []any) []string {
	var out []string
	for _, v := range vals {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case json.Number:
			out = append(out, t.String())
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case []any:
			out = append(out, texts(t)...)
		case map[string]any:
			out = append(out, texts([]any{t["name"]})...)
		}
	}
	return out
}

// yearOf keeps the leading run of digits of s: "2021-03-04" → "2021",
// "2019 Mar 5" → "2019", "N/A" → "".
func yearOf(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// jsonAdapter is an Adapter driven entirely by a mapping and a request
// builder.
type jsonAdapter struct {
	Options
	m       mapping
	request func(query string) (httputil.Request, error)
}

func (a *jsonAdapter) Name() string { return a.m.Source }

func (a *jsonAdapter) Search(ctx context.Context, query string) ([]types.Record, error) {
	req, err := a.request(query)
	if err != nil {
		return nil, err
	}
	if req.MaxRetries == 0 {
		req.MaxRetries = a.MaxRetries
	}

	var body any
	if err := httputil.GetJSON(ctx, a.client(), req, &body, a.logger()); err != nil {
		return nil, fmt.Errorf("%s API request: %w", a.m.Source, err)
	}
	return a.m.apply(body)
}
