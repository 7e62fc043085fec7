package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
	"github.com/Abubakarusba/scorelaship-bot/internal/journal"
	"github.com/Abubakarusba/scorelaship-bot/internal/sheet"
	"github.com/Abubakarusba/scorelaship-bot/internal/transport"
	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// Status classifies the outcome of one pipeline invocation for one category.
type Status int

const (
	// StatusDelivered: one row was sent and its posted state committed.
	StatusDelivered Status = iota
	// StatusNoneAvailable: no eligible row for the category; a normal
	// terminal state, not a failure.
	StatusNoneAvailable
	// StatusSendFailed: the transport did not confirm the send; the row stays
	// unposted and will be retried by a future trigger.
	StatusSendFailed
)

func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusNoneAvailable:
		return "none_available"
	case StatusSendFailed:
		return "send_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result reports what one Deliver call did.
type Result struct {
	Status   Status
	Category string
	Row      int
	Title    string
	// Err carries the send error for StatusSendFailed, or the write-back
	// error when the row was sent but could not be recorded (the delivery
	// still counts as StatusDelivered in that case; the journal holds the
	// unconfirmed entry).
	Err error
}

// Sender is the slice of the chat transport the engine needs.
type Sender interface {
	SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) error
}

// Service runs the delivery pipeline: sweep, resolve, select, post.
type Service struct {
	// mu serializes pipeline invocations across manual and scheduled
	// triggers. The read-then-write span against the remote store is not
	// atomic, so without this two concurrent triggers could select and post
	// the same row.
	mu sync.Mutex

	store   sheet.Store
	sender  Sender
	journal journal.Journal // may be nil
	log     logx.Logger

	cfgMu     sync.Mutex
	threshold float64
	footer    string

	loc *time.Location
	now func() time.Time
}

func NewService(store sheet.Store, sender Sender, jnl journal.Journal, loc *time.Location, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:     store,
		sender:    sender,
		journal:   jnl,
		log:       log,
		threshold: DefaultSimilarityThreshold,
		loc:       loc,
		now:       time.Now,
	}
}

// Apply updates the tunables that may change on config reload.
func (s *Service) Apply(threshold float64, footer string) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	if threshold > 0 {
		s.threshold = threshold
	} else {
		s.threshold = DefaultSimilarityThreshold
	}
	s.footer = footer
}

func (s *Service) tunables() (float64, string) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.threshold, s.footer
}

// Deliver runs one full pipeline invocation for a category: re-read the
// catalog, sweep expired rows, select the first eligible row, post it. The
// returned error is non-nil only when the catalog could not be read at all;
// that aborts this run and the next trigger retries.
func (s *Service) Deliver(ctx context.Context, category string, to transport.ChatTarget) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category = strings.TrimSpace(category)
	res := Result{Status: StatusNoneAvailable, Category: category}

	header, rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return res, fmt.Errorf("read catalog: %w", err)
	}
	cat := catalog.FromRows(header, rows)
	if len(cat.Columns) == 0 {
		return res, fmt.Errorf("catalog is empty (no header row)")
	}

	today := catalog.DateOf(s.now(), s.loc)
	s.sweepAndJournal(ctx, cat, today)

	threshold, footer := s.tunables()
	it, ok := SelectNext(cat, category, threshold)
	if !ok {
		s.log.Info("no eligible opportunity", logx.String("category", category))
		return res, nil
	}

	return s.post(ctx, cat, it, to, today, footer), nil
}

// DeliverAll runs Deliver for each category in order, one row per category,
// continuing past per-category failures.
func (s *Service) DeliverAll(ctx context.Context, categories []string, to transport.ChatTarget) []Result {
	out := make([]Result, 0, len(categories))
	for _, c := range categories {
		res, err := s.Deliver(ctx, c, to)
		if err != nil {
			s.log.Error("delivery run aborted", logx.String("category", c), logx.Err(err))
			res.Err = err
		}
		out = append(out, res)
	}
	return out
}

func (s *Service) sweepAndJournal(ctx context.Context, cat *catalog.Catalog, today time.Time) {
	for _, ch := range Sweep(ctx, s.store, cat, today, s.log) {
		s.appendJournal(ctx, journal.Entry{
			Outcome:  journal.OutcomeExpired,
			Category: ch.Category,
			Row:      ch.Row,
			Title:    ch.Title,
		})
	}
}

func (s *Service) appendJournal(ctx context.Context, e journal.Entry) {
	if s.journal == nil {
		return
	}
	e.At = s.now()
	if err := s.journal.Append(ctx, e); err != nil {
		s.log.Warn("journal append failed", logx.String("outcome", string(e.Outcome)), logx.Err(err))
	}
}
