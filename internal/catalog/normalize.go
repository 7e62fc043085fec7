package catalog

import "strings"

// timestampKeywords mark incidental columns (e.g. a form's "Timestamp" or
// "Submitted At") that must never be mistaken for a real field. Any column
// whose name contains one of these is dropped before mapping.
var timestampKeywords = []string{"timestamp", "submitted", "created"}

func timestampLike(header string) bool {
	h := strings.ToLower(header)
	for _, kw := range timestampKeywords {
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// Normalize maps one raw record against the header row into an Opportunity.
// Lookup is case- and spacing-insensitive; records shorter than the header are
// padded, extra cells are ignored.
func Normalize(header, record []string) Opportunity {
	fields := make(map[string]string, len(header))
	for i, h := range header {
		if timestampLike(h) {
			continue
		}
		key := canonicalKey(h)
		if key == "" {
			continue
		}
		var v string
		if i < len(record) {
			v = strings.TrimSpace(record[i])
		}
		// First occurrence wins when headers repeat.
		if _, seen := fields[key]; !seen {
			fields[key] = v
		}
	}

	o := Opportunity{
		Category:    fields["category"],
		Title:       fields["title"],
		Benefit:     fields["benefit"],
		Criteria:    fields["criteria"],
		Requirement: fields["requirement"],
		DeadlineRaw: fields["deadline"],
		Link:        fields["link"],
		Posted:      Truthy(fields["posted"]),
	}
	if o.Title == "" {
		o.Title = NoTitle
	}
	// An unparsable deadline disables expiration for the row rather than
	// blocking it from posting.
	if d, ok := ParseDate(o.DeadlineRaw); ok {
		o.Deadline = d
	}
	return o
}

// FromRows builds a Catalog from a header row and data rows in store order.
// Data rows are numbered from sheet row 2.
func FromRows(header []string, rows [][]string) *Catalog {
	c := &Catalog{Columns: header, Items: make([]Item, 0, len(rows))}
	for i, rec := range rows {
		c.Items = append(c.Items, Item{Row: i + 2, Opp: Normalize(header, rec)})
	}
	return c
}
