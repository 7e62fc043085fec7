// Package scheduler drives the daily delivery triggers. A single loop polls
// the wall clock at a short interval and fires each configured trigger when
// the current time-of-day in the configured zone matches its HH:MM. After
// firing, a trigger cools down for slightly over a minute so consecutive
// polls cannot observe the same minute twice and double-fire.
//
// Precision is deliberately coarse: if the loop is delayed past a trigger's
// minute (process pause, long send), that trigger is skipped until the next
// day rather than fired late.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

// Job binds one category to one destination chat.
type Job struct {
	Category string
	ChatID   int64
}

// Trigger is one named daily time-of-day trigger.
type Trigger struct {
	Name   string
	Hour   int
	Minute int
	Jobs   []Job
}

// At formats the trigger's time of day as HH:MM.
func (t Trigger) At() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// State is the per-trigger lifecycle: Idle until the wall clock matches,
// Firing while the pipeline runs, Cooldown until the matching minute is
// safely over.
type State int

const (
	StateIdle State = iota
	StateFiring
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFiring:
		return "firing"
	case StateCooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RunFunc executes the delivery pipeline for one fired trigger. It runs on
// the scheduler loop; a hung transport call delays later triggers but the
// underlying store and transport timeouts bound it.
type RunFunc func(ctx context.Context, t Trigger)

const (
	DefaultPollInterval = 10 * time.Second
	// DefaultCooldown is just over a minute: long enough that no poll can see
	// the firing minute again, short enough to be ready well before any next
	// daily trigger.
	DefaultCooldown = 61 * time.Second
)

type Config struct {
	Location     *time.Location
	PollInterval time.Duration
	Cooldown     time.Duration
	Triggers     []Trigger
}

type Scheduler struct {
	mu       sync.Mutex
	triggers []*triggerState
	loc      *time.Location
	poll     time.Duration
	cooldown time.Duration

	run RunFunc
	log logx.Logger
	now func() time.Time
}

type triggerState struct {
	Trigger
	state         State
	cooldownUntil time.Time
	lastFired     time.Time
}

func New(cfg Config, run RunFunc, log logx.Logger) *Scheduler {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Scheduler{run: run, log: log, now: time.Now}
	s.Apply(cfg)
	return s
}

// Apply replaces the trigger set and tunables; safe during a running loop.
// Cooldown state does not carry across Apply, so a reload within the firing
// minute could re-fire; acceptable for a hand-edited config.
func (s *Scheduler) Apply(cfg Config) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	states := make([]*triggerState, 0, len(cfg.Triggers))
	for _, t := range cfg.Triggers {
		states = append(states, &triggerState{Trigger: t})
	}

	s.mu.Lock()
	s.loc = loc
	s.poll = poll
	s.cooldown = cooldown
	s.triggers = states
	s.mu.Unlock()
}

func (s *Scheduler) pollInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poll
}

// Run blocks until ctx is done, polling the wall clock and firing due
// triggers.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	n := len(s.triggers)
	tz := s.loc.String()
	s.mu.Unlock()
	s.log.Info("scheduler started", logx.Int("triggers", n), logx.String("timezone", tz))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-time.After(s.pollInterval()):
			s.Tick(ctx, s.now())
		}
	}
}

// Tick evaluates every trigger against one wall-clock sample. Exported for
// the loop and for tests; firing runs synchronously on the caller.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	loc := s.loc
	cooldown := s.cooldown
	triggers := s.triggers
	s.mu.Unlock()

	local := now.In(loc)
	hhmm := local.Format("15:04")

	for _, ts := range triggers {
		s.mu.Lock()
		if ts.state == StateCooldown && !now.Before(ts.cooldownUntil) {
			ts.state = StateIdle
		}
		due := ts.state == StateIdle && hhmm == ts.At()
		if due {
			ts.state = StateFiring
		}
		s.mu.Unlock()

		if !due {
			continue
		}

		s.log.Info("trigger firing", logx.String("trigger", ts.Name), logx.String("at", ts.At()))
		if s.run != nil {
			s.run(ctx, ts.Trigger)
		}

		s.mu.Lock()
		ts.state = StateCooldown
		ts.lastFired = now
		ts.cooldownUntil = now.Add(cooldown)
		s.mu.Unlock()
	}
}

// TriggerStatus is a read-only snapshot of one trigger, for /status.
type TriggerStatus struct {
	Name      string
	At        string
	State     State
	LastFired time.Time
}

func (s *Scheduler) Snapshot() []TriggerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TriggerStatus, 0, len(s.triggers))
	for _, ts := range s.triggers {
		out = append(out, TriggerStatus{
			Name:      ts.Name,
			At:        ts.At(),
			State:     ts.state,
			LastFired: ts.lastFired,
		})
	}
	return out
}

// SetNowFunc overrides the clock; tests only.
func (s *Scheduler) SetNowFunc(now func() time.Time) { s.now = now }
