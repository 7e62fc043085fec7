// Package sheet provides the catalog row store: an ordered table of rows with
// a header, addressed by 1-based (row, column) position. Row 1 is the header;
// data rows start at 2. The delivery engine consumes only this contract, so
// the backing store can be a Google Sheet in production or a CSV file locally.
package sheet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// Store is the row-store contract the delivery engine consumes.
type Store interface {
	// ReadAll returns the header row and all data rows in store order. The
	// order is stable within one read but may change between reads: rows can
	// be appended concurrently by humans.
	ReadAll(ctx context.Context) (header []string, rows [][]string, err error)

	// WriteCell writes value at the 1-based (row, col) position, where row 1
	// is the header row.
	WriteCell(ctx context.Context, row, col int, value string) error

	Close() error
}

// Config selects and configures a store driver.
type Config struct {
	Driver string

	// google driver
	SpreadsheetID   string
	CredentialsJSON string
	Range           string

	// csv driver
	Path string

	Timeout time.Duration
}

// Open initializes the configured store. Missing identity or credentials are
// fatal here: a half-configured store must refuse to initialize.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "google":
		return openGoogle(cfg, log)
	case "csv":
		return openCSV(cfg, log)
	default:
		return nil, errors.New("unknown sheet driver: " + cfg.Driver)
	}
}
