// Package journal records delivery outcomes locally, independent of the
// remote catalog. Its main job is reconciliation: when a message was sent but
// the posted-state write-back failed, the journal holds the only durable
// record of that row being live in the destination chat.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

var ErrDisabled = errors.New("journal disabled")

// Outcome classifies one pipeline result for a row.
type Outcome string

const (
	// OutcomeDelivered: sent and posted-state recorded.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSendFailed: send did not confirm; row left unposted.
	OutcomeSendFailed Outcome = "send_failed"
	// OutcomeUnconfirmed: sent, but the write-back failed. The row is live in
	// the chat but still unposted in the catalog; needs manual reconciliation.
	OutcomeUnconfirmed Outcome = "unconfirmed"
	// OutcomeExpired: retired by the expiration sweep.
	OutcomeExpired Outcome = "expired"
)

// Entry is one journal record. Keep it compact and schema-stable.
type Entry struct {
	At       time.Time
	Outcome  Outcome
	Category string
	Row      int
	ChatID   int64
	Title    string
	Error    string
}

// Journal is the minimal persistence API used by the delivery engine.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Config configures the journal.
//
// Driver values:
//   - "file": dependency-free jsonl backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", journaling is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Open initializes the configured journal.
// It returns (nil, nil) if journaling is disabled.
func Open(cfg Config, log logx.Logger) (Journal, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown journal driver: " + driver)
	}
}
