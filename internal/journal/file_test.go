package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

func openTestJournal(t *testing.T) Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpenDisabled(t *testing.T) {
	for _, driver := range []string{"", "none"} {
		j, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil || j != nil {
			t.Fatalf("Open(%q) = %v, %v; want nil,nil", driver, j, err)
		}
	}
}

func TestFileAppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := Entry{
			At:       base.Add(time.Duration(i) * time.Minute),
			Outcome:  OutcomeDelivered,
			Category: "nigeria",
			Row:      i + 2,
			ChatID:   -100123,
			Title:    fmt.Sprintf("Opportunity %d", i),
		}
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	got, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d entries, want 3", len(got))
	}
	// Newest first: rows 6, 5, 4.
	for i, wantRow := range []int{6, 5, 4} {
		if got[i].Row != wantRow {
			t.Fatalf("entry %d row = %d, want %d", i, got[i].Row, wantRow)
		}
	}
	if got[0].Outcome != OutcomeDelivered || got[0].Category != "nigeria" {
		t.Fatalf("entry = %+v", got[0])
	}
	if !got[0].At.Equal(base.Add(4 * time.Minute)) {
		t.Fatalf("at = %v", got[0].At)
	}
}

func TestFileRecentEmpty(t *testing.T) {
	j := openTestJournal(t)
	got, err := j.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entries = %d, want 0", len(got))
	}
}

func TestFileAppendPreservesError(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	e := Entry{
		Outcome:  OutcomeUnconfirmed,
		Category: "tech",
		Row:      7,
		ChatID:   42,
		Title:    "X",
		Error:    "write refused",
	}
	if err := j.Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := j.Recent(ctx, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("Recent = %v, %v", got, err)
	}
	if got[0].Outcome != OutcomeUnconfirmed || got[0].Error != "write refused" {
		t.Fatalf("entry = %+v", got[0])
	}
	if got[0].At.IsZero() {
		t.Fatalf("append must stamp a time when none is given")
	}
}
