package delivery

import (
	"context"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
	"github.com/Abubakarusba/scorelaship-bot/internal/sheet"
	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// SweepChange records one row retired by the sweep (posted false → true).
type SweepChange struct {
	Row      int
	Category string
	Title    string
	Deadline time.Time
}

// Sweep retires every unposted row whose deadline is before today, writing
// each row back immediately so a mid-sweep failure leaves earlier rows
// correctly updated. A write failure skips the row and continues; it will be
// retried on the next pipeline run. Sweep also updates the in-memory catalog
// so selection on the same read can never observe a stale expired row.
func Sweep(ctx context.Context, store sheet.Store, cat *catalog.Catalog, today time.Time, log logx.Logger) []SweepChange {
	postedCol, ok := cat.ColumnIndex("posted")
	if !ok {
		log.Warn("posted column not found; skipping expiration sweep")
		return nil
	}

	var changes []SweepChange
	for i := range cat.Items {
		it := &cat.Items[i]
		if it.Opp.Posted || !it.Opp.Expired(today) {
			continue
		}
		if err := store.WriteCell(ctx, it.Row, postedCol, "TRUE"); err != nil {
			log.Warn("sweep write-back failed; row left for next run",
				logx.Int("row", it.Row),
				logx.String("deadline", it.Opp.DeadlineRaw),
				logx.Err(err),
			)
			continue
		}
		it.Opp.Posted = true
		changes = append(changes, SweepChange{
			Row:      it.Row,
			Category: it.Opp.Category,
			Title:    it.Opp.Title,
			Deadline: it.Opp.Deadline,
		})
		log.Info("expired row retired",
			logx.Int("row", it.Row),
			logx.String("deadline", it.Opp.DeadlineRaw),
		)
	}
	return changes
}
