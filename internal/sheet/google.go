package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// googleStore reads and writes one tab of a Google Spreadsheet through the
// Sheets API, authenticated with a service-account key.
type googleStore struct {
	svc *sheets.Service
	id  string
	tab string
	log logx.Logger

	timeout time.Duration
}

func openGoogle(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheet: spreadsheet id is required")
	}
	if strings.TrimSpace(cfg.CredentialsJSON) == "" {
		return nil, errors.New("sheet: service account credentials are required")
	}
	tab := strings.TrimSpace(cfg.Range)
	if tab == "" {
		tab = "Sheet1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	svc, err := sheets.NewService(context.Background(),
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheet: init sheets client: %w", err)
	}

	log.Info("google sheet opened", logx.String("spreadsheet_id", cfg.SpreadsheetID), logx.String("tab", tab))
	return &googleStore{svc: svc, id: cfg.SpreadsheetID, tab: tab, log: log, timeout: timeout}, nil
}

func (g *googleStore) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.id, g.tab).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("sheet: read %s: %w", g.tab, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}
	return header, rows, nil
}

func (g *googleStore) WriteCell(ctx context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("sheet: invalid cell position (%d,%d)", row, col)
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rng := fmt.Sprintf("%s!%s%d", g.tab, columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]any{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.id, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet: write %s: %w", rng, err)
	}
	return nil
}

func (g *googleStore) Close() error { return nil }

func toStrings(raw []any) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

// columnLetter converts a 1-based column index to A1 notation (1 → A,
// 27 → AA).
func columnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
