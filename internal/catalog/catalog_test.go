package catalog

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-14", date(2025, 3, 14), true},
		{"14-03-2025", date(2025, 3, 14), true},
		{"14/03/2025", date(2025, 3, 14), true},
		{"2025/03/14", date(2025, 3, 14), true},
		{"  2025-03-14  ", date(2025, 3, 14), true},
		{"Mar 14, 2025", date(2025, 3, 14), true},
		{"14 March 2025", date(2025, 3, 14), true},
		{"2025-03-14 10:30:00", date(2025, 3, 14), true},
		{"", time.Time{}, false},
		{"soon", time.Time{}, false},
		{"ongoing", time.Time{}, false},
		{"31/31/2025", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateOfCrossesZones(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	// 23:30 UTC on the 14th is already the 15th in Lagos (UTC+1).
	instant := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	if got := DateOf(instant, lagos); !got.Equal(date(2025, 3, 15)) {
		t.Fatalf("DateOf in Lagos = %v, want 2025-03-15", got)
	}
	if got := DateOf(instant, time.UTC); !got.Equal(date(2025, 3, 14)) {
		t.Fatalf("DateOf in UTC = %v, want 2025-03-14", got)
	}
}

func TestExpired(t *testing.T) {
	today := date(2025, 3, 14)

	past := Opportunity{Deadline: date(2025, 3, 13)}
	if !past.Expired(today) {
		t.Fatalf("deadline before today should be expired")
	}
	sameDay := Opportunity{Deadline: today}
	if sameDay.Expired(today) {
		t.Fatalf("deadline equal to today must still be eligible")
	}
	future := Opportunity{Deadline: date(2025, 3, 15)}
	if future.Expired(today) {
		t.Fatalf("future deadline should not be expired")
	}
	none := Opportunity{}
	if none.Expired(today) {
		t.Fatalf("row without a deadline must never expire")
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"TRUE", "true", " True ", "t", "1", "yes", "Y"} {
		if !Truthy(v) {
			t.Fatalf("Truthy(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "false", "0", "no", "posted", "TRUEish"} {
		if Truthy(v) {
			t.Fatalf("Truthy(%q) = true, want false", v)
		}
	}
}

func TestNormalizeMapsHeaderInsensitively(t *testing.T) {
	header := []string{"Timestamp", " CATEGORY ", "Title", "benefit", "Criteria", "Requirement", "Dead Line", "Link", "Posted"}
	record := []string{"2025/01/01 10:00:00", "nigeria", "NNPC Scholarship", "Full tuition", "Undergraduates", "Transcript", "2025-03-14", "https://example.com/apply", "FALSE"}

	o := Normalize(header, record)
	if o.Category != "nigeria" {
		t.Fatalf("category = %q", o.Category)
	}
	if o.Title != "NNPC Scholarship" {
		t.Fatalf("title = %q", o.Title)
	}
	if o.Benefit != "Full tuition" || o.Criteria != "Undergraduates" || o.Requirement != "Transcript" {
		t.Fatalf("fields mismapped: %+v", o)
	}
	if o.DeadlineRaw != "2025-03-14" || !o.Deadline.Equal(date(2025, 3, 14)) {
		t.Fatalf("deadline = %q / %v", o.DeadlineRaw, o.Deadline)
	}
	if o.Link != "https://example.com/apply" {
		t.Fatalf("link = %q", o.Link)
	}
	if o.Posted {
		t.Fatalf("posted should be false")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	header := []string{"Category", "Title", "Deadline", "Posted"}

	// Short record: missing cells read as empty, title gets the placeholder.
	o := Normalize(header, []string{"tech"})
	if o.Title != NoTitle {
		t.Fatalf("title = %q, want %q", o.Title, NoTitle)
	}
	if !o.Deadline.IsZero() {
		t.Fatalf("missing deadline should stay zero")
	}

	// Unparsable deadline keeps the raw text and never expires.
	o = Normalize(header, []string{"tech", "X", "rolling basis", "true"})
	if o.DeadlineRaw != "rolling basis" {
		t.Fatalf("raw deadline = %q", o.DeadlineRaw)
	}
	if !o.Deadline.IsZero() {
		t.Fatalf("unparsable deadline should stay zero")
	}
	if !o.Posted {
		t.Fatalf("posted should be true")
	}
}

func TestNormalizeDuplicateHeaderFirstWins(t *testing.T) {
	header := []string{"Category", "Title", "Title"}
	o := Normalize(header, []string{"tech", "First", "Second"})
	if o.Title != "First" {
		t.Fatalf("title = %q, want first occurrence", o.Title)
	}
}

func TestFromRowsNumbersFromTwo(t *testing.T) {
	header := []string{"Category", "Title"}
	rows := [][]string{{"a", "one"}, {"b", "two"}, {"c", "three"}}
	c := FromRows(header, rows)
	if len(c.Items) != 3 {
		t.Fatalf("items = %d", len(c.Items))
	}
	for i, it := range c.Items {
		if it.Row != i+2 {
			t.Fatalf("item %d row = %d, want %d", i, it.Row, i+2)
		}
	}
}

func TestColumnIndex(t *testing.T) {
	c := &Catalog{Columns: []string{"Category", "Title", "Date Posted", "POSTED"}}
	if col, ok := c.ColumnIndex("posted"); !ok || col != 4 {
		t.Fatalf("posted = (%d,%v), want (4,true)", col, ok)
	}
	if col, ok := c.ColumnIndex("dateposted"); !ok || col != 3 {
		t.Fatalf("dateposted = (%d,%v), want (3,true)", col, ok)
	}
	if _, ok := c.ColumnIndex("missing"); ok {
		t.Fatalf("missing column resolved")
	}
}
