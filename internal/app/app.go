// Package app wires the bot together: config, logging, the sheet store, the
// delivery pipeline, the trigger scheduler, and the Telegram command surface.
package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/internal/config"
	"github.com/Abubakarusba/scorelaship-bot/internal/delivery"
	"github.com/Abubakarusba/scorelaship-bot/internal/journal"
	"github.com/Abubakarusba/scorelaship-bot/internal/scheduler"
	"github.com/Abubakarusba/scorelaship-bot/internal/sheet"
	"github.com/Abubakarusba/scorelaship-bot/internal/transport"
	"github.com/Abubakarusba/scorelaship-bot/internal/transport/telegram"
	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// defaultCategories is the posting order when no triggers are configured.
var defaultCategories = []string{"nigeria", "tech", "international"}

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	adapter  *telegram.Adapter
	store    sheet.Store
	jnl      journal.Journal
	pipeline *delivery.Service
	sched    *scheduler.Scheduler

	mu          sync.Mutex
	owners      []int64
	defaultChat int64
	categories  []string
	schedulerOn bool

	updates chan transport.Message
	wg      sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	mgr.Commit(cfg)

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}

	boot := logx.NewConsole(cfg.Logging.Level)
	adapter, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, boot.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, fmt.Errorf("telegram adapter: %w", err)
	}

	logSvc, log := logx.New(logxConfig(cfg), adapter)
	mgr.SetLogger(log.With(logx.String("comp", "config")))
	mgr.SetValidator(func(c *config.Config) error {
		applyEnvOverrides(c)
		return config.Validate(c)
	})

	store, err := sheet.Open(sheet.Config{
		Driver:          cfg.Sheet.Driver,
		SpreadsheetID:   cfg.Sheet.SpreadsheetID,
		CredentialsJSON: cfg.Sheet.CredentialsJSON,
		Range:           cfg.Sheet.Range,
		Path:            cfg.Sheet.Path,
	}, log.With(logx.String("comp", "sheet")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("open sheet store: %w", err)
	}

	jnl, err := journal.Open(journalConfig(cfg), log.With(logx.String("comp", "journal")))
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}

	loc, err := loadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, err
	}

	pipeline := delivery.NewService(store, adapter, jnl, loc, log.With(logx.String("comp", "delivery")))
	pipeline.Apply(cfg.Delivery.SimilarityThreshold, cfg.Delivery.Footer)

	a := &App{
		cfgMgr:   mgr,
		logSvc:   logSvc,
		log:      log,
		adapter:  adapter,
		store:    store,
		jnl:      jnl,
		pipeline: pipeline,
	}
	a.sched = scheduler.New(schedulerConfig(cfg, loc), a.runTrigger, log.With(logx.String("comp", "scheduler")))
	a.applyRuntime(cfg)
	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	a.updates = make(chan transport.Message, 64)
	if err := a.adapter.Start(ctx, a.updates); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.commandLoop(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sched.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgMgr.Watch(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.reloadLoop(ctx)
	}()

	// Startup sanity pass over the sheet: log the header and any missing
	// required columns so a misconfigured sheet is visible immediately.
	go a.verifyHeader(ctx)

	a.log.Info("bot started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	err := a.adapter.Stop(ctx)
	a.wg.Wait()
	if a.jnl != nil {
		_ = a.jnl.Close()
	}
	_ = a.store.Close()
	_ = a.logSvc.Close()
	return err
}

// runTrigger is the scheduler's RunFunc: one pipeline run per configured
// (category, destination) binding, in order.
func (a *App) runTrigger(ctx context.Context, t scheduler.Trigger) {
	a.mu.Lock()
	defaultChat := a.defaultChat
	a.mu.Unlock()

	for _, job := range t.Jobs {
		chatID := job.ChatID
		if chatID == 0 {
			chatID = defaultChat
		}
		if chatID == 0 {
			a.log.Warn("trigger job has no destination; skipped",
				logx.String("trigger", t.Name), logx.String("category", job.Category))
			continue
		}
		res, err := a.pipeline.Deliver(ctx, job.Category, transport.ChatTarget{ChatID: chatID})
		if err != nil {
			a.log.Error("scheduled delivery aborted",
				logx.String("trigger", t.Name),
				logx.String("category", job.Category),
				logx.Err(err),
			)
			continue
		}
		a.log.Info("scheduled delivery finished",
			logx.String("trigger", t.Name),
			logx.String("category", job.Category),
			logx.String("status", res.Status.String()),
		)
	}
}

func (a *App) reloadLoop(ctx context.Context) {
	ch := a.cfgMgr.Subscribe(1)
	defer a.cfgMgr.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok || cfg == nil {
				return
			}
			a.applyConfig(cfg)
		}
	}
}

// applyConfig applies a reloaded config to the running services. Token and
// store driver changes need a restart; everything else takes effect live.
func (a *App) applyConfig(cfg *config.Config) {
	a.logSvc.Apply(logxConfig(cfg))
	a.pipeline.Apply(cfg.Delivery.SimilarityThreshold, cfg.Delivery.Footer)

	loc, err := loadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		a.log.Warn("config reload: bad timezone; keeping previous schedule", logx.Err(err))
	} else {
		a.sched.Apply(schedulerConfig(cfg, loc))
	}
	a.applyRuntime(cfg)
	a.log.Info("config applied")
}

func (a *App) applyRuntime(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owners = append([]int64(nil), cfg.Telegram.OwnerUserIDs...)
	a.defaultChat = cfg.Telegram.GroupChatID
	a.categories = categoriesFrom(cfg)
	a.schedulerOn = cfg.Scheduler.Enabled
}

// categoriesFrom derives the ordered category list for /postall from the
// trigger bindings, first occurrence wins.
func categoriesFrom(cfg *config.Config) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, t := range cfg.Scheduler.Triggers {
		for _, j := range t.Jobs {
			c := strings.ToLower(strings.TrimSpace(j.Category))
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, defaultCategories...)
	}
	return out
}

func (a *App) verifyHeader(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	header, rows, err := a.store.ReadAll(ctx)
	if err != nil {
		a.log.Error("sheet not readable at startup", logx.Err(err))
		return
	}
	a.log.Info("sheet opened",
		logx.String("headers", strings.Join(header, ", ")),
		logx.Int("data_rows", len(rows)),
	)
	if missing := missingColumns(header); len(missing) > 0 {
		a.log.Warn("sheet is missing required columns; add them to the header row",
			logx.String("missing", strings.Join(missing, ", ")),
		)
	}
}

// requiredColumns must exist in the header row for the pipeline to work.
var requiredColumns = []string{"Category", "Title", "Benefit", "Criteria", "Requirement", "Deadline", "Link", "Posted"}

func missingColumns(header []string) []string {
	have := map[string]struct{}{}
	for _, h := range header {
		have[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	var missing []string
	for _, want := range requiredColumns {
		if _, ok := have[strings.ToLower(want)]; !ok {
			missing = append(missing, want)
		}
	}
	return missing
}

// ---- config plumbing ----

// applyEnvOverrides lets deployment secrets come from the environment
// (optionally via a .env file loaded in main) instead of the config file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("GROUP_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Telegram.GroupChatID = id
		}
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); v != "" {
		cfg.Sheet.CredentialsJSON = v
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		cfg.Sheet.SpreadsheetID = v
	}
	if v := os.Getenv("SHEET_NAME"); v != "" {
		cfg.Sheet.Range = v
	}
}

func logxConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ChatID:     cfg.Logging.Telegram.ChatID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func journalConfig(cfg *config.Config) journal.Config {
	if cfg.Journal == nil {
		return journal.Config{}
	}
	busy, _ := config.ParseDurationField("journal.busy_timeout", cfg.Journal.BusyTimeout)
	return journal.Config{
		Driver:      cfg.Journal.Driver,
		Path:        cfg.Journal.Path,
		BusyTimeout: busy,
	}
}

func schedulerConfig(cfg *config.Config, loc *time.Location) scheduler.Config {
	poll, _ := config.ParseDurationOrDefault("scheduler.poll_interval", cfg.Scheduler.PollInterval, scheduler.DefaultPollInterval)
	cooldown, _ := config.ParseDurationOrDefault("scheduler.cooldown", cfg.Scheduler.Cooldown, scheduler.DefaultCooldown)

	var triggers []scheduler.Trigger
	if cfg.Scheduler.Enabled {
		for _, t := range cfg.Scheduler.Triggers {
			h, m, err := config.ParseHHMM(t.At)
			if err != nil {
				continue // Validate already rejected these; belt and braces
			}
			jobs := make([]scheduler.Job, 0, len(t.Jobs))
			for _, j := range t.Jobs {
				jobs = append(jobs, scheduler.Job{Category: j.Category, ChatID: j.ChatID})
			}
			triggers = append(triggers, scheduler.Trigger{Name: t.Name, Hour: h, Minute: m, Jobs: jobs})
		}
	}
	return scheduler.Config{
		Location:     loc,
		PollInterval: poll,
		Cooldown:     cooldown,
		Triggers:     triggers,
	}
}

func loadLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = config.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("scheduler.timezone: %w", err)
	}
	return loc, nil
}
