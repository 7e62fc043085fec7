package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
	"github.com/Abubakarusba/scorelaship-bot/internal/journal"
	"github.com/Abubakarusba/scorelaship-bot/internal/transport"
	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

var errColumnMissing = errors.New("posted column not found in header")

// post renders and sends one selected row, then commits the posted state.
// The ordering is load-bearing: the send happens first, and the write-back
// only after the transport confirmed it. A failed send leaves the row
// unposted so the same row is retried by the next trigger; a failed
// write-back after a confirmed send is journaled as unconfirmed for manual
// reconciliation.
func (s *Service) post(ctx context.Context, cat *catalog.Catalog, it catalog.Item, to transport.ChatTarget, today time.Time, footer string) Result {
	res := Result{Category: it.Opp.Category, Row: it.Row, Title: it.Opp.Title}

	text := Render(it.Opp, footer)
	err := s.sender.SendText(ctx, to, text, &transport.SendOptions{ParseMode: "HTML"})
	if err != nil {
		s.log.Error("send failed; row left unposted",
			logx.Int("row", it.Row),
			logx.String("category", it.Opp.Category),
			logx.Int64("chat_id", to.ChatID),
			logx.Err(err),
		)
		s.appendJournal(ctx, journal.Entry{
			Outcome:  journal.OutcomeSendFailed,
			Category: it.Opp.Category,
			Row:      it.Row,
			ChatID:   to.ChatID,
			Title:    it.Opp.Title,
			Error:    err.Error(),
		})
		res.Status = StatusSendFailed
		res.Err = err
		return res
	}

	res.Status = StatusDelivered

	postedCol, ok := cat.ColumnIndex("posted")
	if !ok {
		// Should not happen: Sweep already warned. Without the column the
		// send cannot be recorded at all.
		s.unconfirmed(ctx, it, to, errColumnMissing)
		res.Err = errColumnMissing
		return res
	}
	if err := s.store.WriteCell(ctx, it.Row, postedCol, "TRUE"); err != nil {
		s.unconfirmed(ctx, it, to, err)
		res.Err = err
		return res
	}

	// DatePosted travels with the posted flag in the same write-back step;
	// the column is optional.
	if dateCol, ok := cat.ColumnIndex("dateposted"); ok {
		if err := s.store.WriteCell(ctx, it.Row, dateCol, today.Format("2006-01-02")); err != nil {
			s.log.Warn("date-posted write failed",
				logx.Int("row", it.Row),
				logx.Err(err),
			)
		}
	}

	s.log.Info("opportunity posted",
		logx.Int("row", it.Row),
		logx.String("category", it.Opp.Category),
		logx.String("title", it.Opp.Title),
		logx.Int64("chat_id", to.ChatID),
	)
	s.appendJournal(ctx, journal.Entry{
		Outcome:  journal.OutcomeDelivered,
		Category: it.Opp.Category,
		Row:      it.Row,
		ChatID:   to.ChatID,
		Title:    it.Opp.Title,
	})
	return res
}

// unconfirmed surfaces the posted-in-destination-but-not-recorded condition
// with enough detail (row, category, chat, time) for manual reconciliation.
func (s *Service) unconfirmed(ctx context.Context, it catalog.Item, to transport.ChatTarget, err error) {
	s.log.Error("sent but posted-state write-back failed; needs reconciliation",
		logx.Int("row", it.Row),
		logx.String("category", it.Opp.Category),
		logx.String("title", it.Opp.Title),
		logx.Int64("chat_id", to.ChatID),
		logx.Err(err),
	)
	s.appendJournal(ctx, journal.Entry{
		Outcome:  journal.OutcomeUnconfirmed,
		Category: it.Opp.Category,
		Row:      it.Row,
		ChatID:   to.ChatID,
		Title:    it.Opp.Title,
		Error:    err.Error(),
	})
}
