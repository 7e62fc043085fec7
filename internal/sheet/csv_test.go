package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func openTestCSV(t *testing.T, content string) Store {
	t.Helper()
	st, err := Open(Config{Driver: "csv", Path: writeCSV(t, content)}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

func TestCSVReadAll(t *testing.T) {
	st := openTestCSV(t, "Category,Title,Posted\nnigeria,A,\ntech,B,TRUE\n")
	header, rows, err := st.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(header) != 3 || header[0] != "Category" {
		t.Fatalf("header = %v", header)
	}
	if len(rows) != 2 || rows[1][1] != "B" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestCSVWriteCell(t *testing.T) {
	st := openTestCSV(t, "Category,Title,Posted\nnigeria,A,\ntech,B,\n")

	if err := st.WriteCell(context.Background(), 2, 3, "TRUE"); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}
	_, rows, err := st.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if rows[0][2] != "TRUE" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][2] != "" {
		t.Fatalf("neighbor row mutated: %v", rows)
	}
}

func TestCSVWriteCellPadsShortRecord(t *testing.T) {
	// Row 2 has fewer cells than the target column.
	st := openTestCSV(t, "Category,Title,Posted\nnigeria,A\n")

	if err := st.WriteCell(context.Background(), 2, 3, "TRUE"); err != nil {
		t.Fatalf("WriteCell: %v", err)
	}
	_, rows, err := st.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows[0]) != 3 || rows[0][2] != "TRUE" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestCSVWriteCellBounds(t *testing.T) {
	st := openTestCSV(t, "Category\nnigeria\n")
	if err := st.WriteCell(context.Background(), 0, 1, "x"); err == nil {
		t.Fatalf("row 0 accepted")
	}
	if err := st.WriteCell(context.Background(), 9, 1, "x"); err == nil {
		t.Fatalf("out-of-range row accepted")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "excel"}, logx.Nop()); err == nil {
		t.Fatalf("unknown driver accepted")
	}
}

func TestOpenCSVMissingFile(t *testing.T) {
	if _, err := Open(Config{Driver: "csv", Path: filepath.Join(t.TempDir(), "absent.csv")}, logx.Nop()); err == nil {
		t.Fatalf("missing file accepted")
	}
}
