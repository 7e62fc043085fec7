package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/internal/delivery"
	"github.com/Abubakarusba/scorelaship-bot/internal/transport"
	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
	"github.com/Abubakarusba/scorelaship-bot/pkg/tghtml"
)

const commandTimeout = 60 * time.Second

func (a *App) commandLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-a.updates:
			if !ok {
				return
			}
			a.handleMessage(ctx, msg)
		}
	}
}

func (a *App) handleMessage(ctx context.Context, msg transport.Message) {
	cmd, args := splitCommand(msg.Text)
	if cmd == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch cmd {
	case "/start", "/help":
		a.cmdStart(ctx, msg)
	case "/getid":
		a.cmdGetID(ctx, msg)
	case "/post":
		a.ownerOnly(ctx, msg, func() { a.cmdPost(ctx, msg, args) })
	case "/postall":
		a.ownerOnly(ctx, msg, func() { a.cmdPostAll(ctx, msg) })
	case "/status":
		a.cmdStatus(ctx, msg)
	case "/recent":
		a.ownerOnly(ctx, msg, func() { a.cmdRecent(ctx, msg, args) })
	case "/debuginfo":
		a.ownerOnly(ctx, msg, func() { a.cmdDebugInfo(ctx, msg) })
	default:
		// Unknown commands are ignored; the bot shares groups with humans.
	}
}

// splitCommand extracts the command and argument tail from a message. The
// "@botname" suffix Telegram appends in groups is stripped.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd = text
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		cmd = text[:i]
		args = strings.TrimSpace(text[i:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), args
}

// ownerOnly gates posting and inspection commands to the configured owner
// user IDs. An empty owner list leaves the gate open (single-admin setups
// that rely on the bot being in a private group).
func (a *App) ownerOnly(ctx context.Context, msg transport.Message, fn func()) {
	a.mu.Lock()
	owners := a.owners
	a.mu.Unlock()

	if len(owners) > 0 {
		allowed := false
		for _, id := range owners {
			if id == msg.FromID {
				allowed = true
				break
			}
		}
		if !allowed {
			a.log.Warn("command denied",
				logx.String("text", msg.Text),
				logx.Int64("from", msg.FromID),
				logx.String("username", msg.FromUsername),
			)
			a.reply(ctx, msg, "⛔ You are not allowed to use this command.")
			return
		}
	}
	fn()
}

func (a *App) cmdStart(ctx context.Context, msg transport.Message) {
	a.mu.Lock()
	cats := strings.Join(a.categories, ", ")
	on := a.schedulerOn
	a.mu.Unlock()

	var b strings.Builder
	b.WriteString("👋 Scholarship bot is running.\n\n")
	b.WriteString("Commands:\n")
	b.WriteString("/post <category> - post the next opportunity here\n")
	b.WriteString("/postall - post one opportunity per category here\n")
	b.WriteString("/status - scheduler state\n")
	b.WriteString("/recent [n] - last delivery outcomes\n")
	b.WriteString("/debuginfo - sheet header check\n")
	b.WriteString("/getid - show this chat's id\n\n")
	b.WriteString("Categories: " + cats + "\n")
	if on {
		b.WriteString("Scheduled posting is enabled.")
	} else {
		b.WriteString("Scheduled posting is disabled; use /post.")
	}
	a.reply(ctx, msg, b.String())
}

func (a *App) cmdGetID(ctx context.Context, msg transport.Message) {
	kind := "private"
	if msg.IsGroup {
		kind = "group"
	}
	a.reply(ctx, msg, fmt.Sprintf("Chat ID: %d (%s)\nYour user ID: %d", msg.ChatID, kind, msg.FromID))
}

func (a *App) cmdPost(ctx context.Context, msg transport.Message, args string) {
	category := strings.TrimSpace(args)
	if category == "" {
		a.reply(ctx, msg, "Usage: /post <category>\nExample: /post nigeria")
		return
	}
	res, err := a.pipeline.Deliver(ctx, category, transport.ChatTarget{ChatID: msg.ChatID})
	if err != nil {
		a.reply(ctx, msg, "❌ Could not read the opportunity sheet: "+err.Error())
		return
	}
	a.reportResult(ctx, msg, res)
}

func (a *App) cmdPostAll(ctx context.Context, msg transport.Message) {
	a.mu.Lock()
	cats := append([]string(nil), a.categories...)
	a.mu.Unlock()

	results := a.pipeline.DeliverAll(ctx, cats, transport.ChatTarget{ChatID: msg.ChatID})
	delivered := 0
	for _, res := range results {
		if res.Status == delivery.StatusDelivered {
			delivered++
			continue
		}
		a.reportResult(ctx, msg, res)
	}
	a.reply(ctx, msg, fmt.Sprintf("✅ Done: %d of %d categories posted.", delivered, len(results)))
}

func (a *App) reportResult(ctx context.Context, msg transport.Message, res delivery.Result) {
	switch res.Status {
	case delivery.StatusDelivered:
		// The posted message itself is the feedback.
	case delivery.StatusNoneAvailable:
		a.reply(ctx, msg, fmt.Sprintf("⚠️ No more %s opportunities available.", res.Category))
	case delivery.StatusSendFailed:
		a.reply(ctx, msg, fmt.Sprintf("❌ Sending the %s opportunity failed; it stays queued for retry.", res.Category))
	}
}

func (a *App) cmdStatus(ctx context.Context, msg transport.Message) {
	a.mu.Lock()
	on := a.schedulerOn
	a.mu.Unlock()

	var b strings.Builder
	if on {
		b.WriteString("Scheduler: enabled\n")
	} else {
		b.WriteString("Scheduler: disabled\n")
	}
	snap := a.sched.Snapshot()
	if len(snap) == 0 {
		b.WriteString("No triggers configured.")
	}
	for _, t := range snap {
		fired := "never"
		if !t.LastFired.IsZero() {
			fired = t.LastFired.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "• %s at %s: %s (last fired %s)\n", t.Name, t.At, t.State, fired)
	}
	a.reply(ctx, msg, strings.TrimRight(b.String(), "\n"))
}

func (a *App) cmdRecent(ctx context.Context, msg transport.Message, args string) {
	if a.jnl == nil {
		a.reply(ctx, msg, "Delivery journal is disabled.")
		return
	}
	n := 10
	if args != "" {
		if v, err := strconv.Atoi(strings.Fields(args)[0]); err == nil && v > 0 && v <= 50 {
			n = v
		}
	}
	entries, err := a.jnl.Recent(ctx, n)
	if err != nil {
		a.reply(ctx, msg, "❌ Could not read the journal: "+err.Error())
		return
	}
	if len(entries) == 0 {
		a.reply(ctx, msg, "Journal is empty.")
		return
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Last %d delivery outcomes:\n", len(entries)))
	for _, e := range entries {
		fmt.Fprintf(&b, "• %s %s row %d %s", e.At.Format("01-02 15:04"), e.Outcome, e.Row, e.Category)
		if e.Title != "" {
			fmt.Fprintf(&b, " (%s)", e.Title)
		}
		b.WriteString("\n")
	}
	a.reply(ctx, msg, strings.TrimRight(b.String(), "\n"))
}

func (a *App) cmdDebugInfo(ctx context.Context, msg transport.Message) {
	header, rows, err := a.store.ReadAll(ctx)
	if err != nil {
		a.reply(ctx, msg, "❌ Sheet read failed: "+err.Error())
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet columns (%d): %s\n", len(header), strings.Join(header, ", "))
	fmt.Fprintf(&b, "Data rows: %d\n", len(rows))
	if missing := missingColumns(header); len(missing) > 0 {
		fmt.Fprintf(&b, "⚠️ Missing required columns: %s", strings.Join(missing, ", "))
	} else {
		b.WriteString("✅ All required columns present.")
	}
	a.reply(ctx, msg, b.String())
}

func (a *App) reply(ctx context.Context, msg transport.Message, text string) {
	err := a.adapter.SendText(ctx, transport.ChatTarget{ChatID: msg.ChatID}, tghtml.Esc(text).String(), &transport.SendOptions{ParseMode: "HTML", DisablePreview: true})
	if err != nil {
		a.log.Warn("reply failed", logx.Int64("chat_id", msg.ChatID), logx.Err(err))
	}
}
