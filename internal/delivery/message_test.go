package delivery

import (
	"strings"
	"testing"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
)

func TestRenderFullRow(t *testing.T) {
	o := catalog.Opportunity{
		Category:    "nigeria",
		Title:       "NNPC Scholarship",
		Benefit:     "Full tuition",
		Criteria:    "Undergraduates",
		Requirement: "Transcript",
		DeadlineRaw: "2025-03-14",
		Link:        "https://example.com/apply",
	}
	got := Render(o, "join us")

	for _, want := range []string{
		"🎓 <b>NNPC Scholarship</b>",
		"📌 <b>Benefit:</b> Full tuition",
		"📌 <b>Criteria:</b> Undergraduates",
		"📌 <b>Requirement:</b> Transcript",
		"⏳ <b>Deadline:</b> 2025-03-14",
		"🔗 Apply here: https://example.com/apply",
		"join us",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered message missing %q:\n%s", want, got)
		}
	}
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	o := catalog.Opportunity{Title: "Minimal"}
	got := Render(o, "footer")

	for _, absent := range []string{"Benefit:", "Criteria:", "Requirement:", "Deadline:", "Apply here"} {
		if strings.Contains(got, absent) {
			t.Fatalf("empty field %q should be omitted:\n%s", absent, got)
		}
	}
	if !strings.HasPrefix(got, "🎓 <b>Minimal</b>") {
		t.Fatalf("unexpected prefix: %s", got)
	}
}

func TestRenderEscapesCellText(t *testing.T) {
	o := catalog.Opportunity{
		Title:   "A <b>bold</b> & risky title",
		Benefit: "1 < 2",
	}
	got := Render(o, "<footer>")

	if strings.Contains(got, "<b>bold</b>") {
		t.Fatalf("cell markup must be escaped:\n%s", got)
	}
	for _, want := range []string{"&lt;b&gt;bold&lt;/b&gt; &amp; risky", "1 &lt; 2", "&lt;footer&gt;"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing escaped text %q:\n%s", want, got)
		}
	}
}

func TestRenderDefaultFooter(t *testing.T) {
	got := Render(catalog.Opportunity{Title: "X"}, "  ")
	if !strings.Contains(got, "Share to your friends") {
		t.Fatalf("blank footer should fall back to the default:\n%s", got)
	}
}
