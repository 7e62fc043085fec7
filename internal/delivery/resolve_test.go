package delivery

import (
	"testing"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
)

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"nigeria", "nigeria", 1, 1},
		{"Nigeria", "nigeria ", 1, 1},
		{"Nigerai", "nigeria", 0.8, 1},  // transposition typo still matches
		{"internatonal", "international", 0.8, 1},
		{"xyz", "nigeria", 0, 0.5},
		{"", "", 1, 1},
	}
	for _, tc := range cases {
		got := Similarity(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Fatalf("Similarity(%q,%q) = %v, want in [%v,%v]", tc.a, tc.b, got, tc.min, tc.max)
		}
	}
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Columns: []string{"Category", "Title", "Posted"},
		Items: []catalog.Item{
			{Row: 2, Opp: catalog.Opportunity{Category: "nigeria", Title: "A"}},
			{Row: 3, Opp: catalog.Opportunity{Category: "tech", Title: "B"}},
			{Row: 4, Opp: catalog.Opportunity{Category: "Nigeria", Title: "C", Posted: true}},
			{Row: 5, Opp: catalog.Opportunity{Category: "nigeria ", Title: "D"}},
		},
	}
}

func TestResolveVariantsMatchSameRows(t *testing.T) {
	cat := testCatalog()
	for _, req := range []string{"nigeria", "Nigeria", " nigeria ", "Nigerai"} {
		got := Resolve(cat, req, DefaultSimilarityThreshold)
		if len(got) != 3 {
			t.Fatalf("Resolve(%q) matched %d rows, want 3", req, len(got))
		}
		if got[0].Row != 2 || got[1].Row != 4 || got[2].Row != 5 {
			t.Fatalf("Resolve(%q) rows = %d,%d,%d; want catalog order 2,4,5", req, got[0].Row, got[1].Row, got[2].Row)
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	if got := Resolve(testCatalog(), "xyz", DefaultSimilarityThreshold); len(got) != 0 {
		t.Fatalf("Resolve(xyz) matched %d rows, want 0", len(got))
	}
}

func TestSelectNextSkipsPosted(t *testing.T) {
	cat := testCatalog()
	it, ok := SelectNext(cat, "nigeria", DefaultSimilarityThreshold)
	if !ok || it.Row != 2 {
		t.Fatalf("SelectNext = (%d,%v), want first unposted row 2", it.Row, ok)
	}

	cat.Items[0].Opp.Posted = true
	it, ok = SelectNext(cat, "nigeria", DefaultSimilarityThreshold)
	if !ok || it.Row != 5 {
		t.Fatalf("SelectNext after first posted = (%d,%v), want row 5", it.Row, ok)
	}

	cat.Items[3].Opp.Posted = true
	if _, ok := SelectNext(cat, "nigeria", DefaultSimilarityThreshold); ok {
		t.Fatalf("SelectNext with all matches posted should report none")
	}
}
