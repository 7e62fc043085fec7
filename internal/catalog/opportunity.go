// Package catalog defines the opportunity record and the normalization that
// turns raw spreadsheet rows into well-typed values. Rows are human-edited, so
// the normalizer is deliberately forgiving: inconsistent header casing, stray
// columns, missing fields, and odd date formats all degrade gracefully instead
// of failing the row.
package catalog

import (
	"strings"
	"time"
)

// NoTitle is the placeholder used when a row has no title.
const NoTitle = "No title"

// Opportunity is one catalog row.
type Opportunity struct {
	Category    string
	Title       string
	Benefit     string
	Criteria    string
	Requirement string

	// Deadline is the parsed calendar date (UTC midnight). Zero means no
	// deadline: the row never expires.
	Deadline time.Time
	// DeadlineRaw preserves the original cell text for rendering.
	DeadlineRaw string

	Link   string
	Posted bool
}

// Expired reports whether the deadline has passed relative to today
// (a UTC-midnight calendar date). Rows without a parsed deadline never expire.
func (o Opportunity) Expired(today time.Time) bool {
	return !o.Deadline.IsZero() && o.Deadline.Before(today)
}

// Item is an Opportunity together with its sheet row position. Position is the
// row's identity for write-backs: a row read at position N must be mutated at
// position N within the same operation.
type Item struct {
	// Row is the 1-based sheet row index; row 1 is the header, so data rows
	// start at 2.
	Row int
	Opp Opportunity
}

// Catalog is one consistent read of the sheet: the header plus all data rows
// in store order. It is never cached across operations; every pipeline run
// re-reads, so staleness is explicit.
type Catalog struct {
	Columns []string
	Items   []Item
}

// ColumnIndex resolves a canonical column name (e.g. "posted", "dateposted")
// to its 1-based sheet column, matching case- and spacing-insensitively.
func (c *Catalog) ColumnIndex(name string) (int, bool) {
	want := canonicalKey(name)
	for i, h := range c.Columns {
		if canonicalKey(h) == want {
			return i + 1, true
		}
	}
	return 0, false
}

// truthyTokens are the accepted spellings of "posted". Anything else is false.
var truthyTokens = map[string]struct{}{
	"true": {}, "t": {}, "1": {}, "yes": {}, "y": {},
}

// Truthy reports whether a raw cell value represents true.
func Truthy(v string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// canonicalKey lowercases and strips everything that isn't a letter or digit,
// so "Date Posted", "date_posted" and "DatePosted" all collapse to the same
// key.
func canonicalKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
