package telegram

import (
	"strings"
	"testing"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

func TestSplitTextShort(t *testing.T) {
	got := splitText("hello", 100)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("splitText = %v", got)
	}
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	text := strings.Repeat("line one\n", 10)
	got := splitText(text, 50)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len([]rune(c)) > 50 {
			t.Fatalf("chunk %d exceeds limit: %d runes", i, len([]rune(c)))
		}
		if strings.HasSuffix(c, "\n") {
			t.Fatalf("chunk %d keeps a trailing newline: %q", i, c)
		}
	}
	// Nothing is lost across the split.
	joined := strings.Join(got, "\n") + "\n"
	if strings.ReplaceAll(joined, "\n", "") != strings.ReplaceAll(text, "\n", "") {
		t.Fatalf("content lost across chunks")
	}
}

func TestSplitTextHardBreakWithoutNewlines(t *testing.T) {
	text := strings.Repeat("x", 120)
	got := splitText(text, 50)
	if len(got) != 3 {
		t.Fatalf("chunks = %d, want 3", len(got))
	}
	total := 0
	for _, c := range got {
		total += len(c)
	}
	if total != 120 {
		t.Fatalf("total runes = %d, want 120", total)
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(Config{}, logx.Nop()); err == nil {
		t.Fatalf("empty token accepted")
	}
}
