package freshness

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"MetalBoard/internal/display"
	"MetalBoard/internal/model"
	"MetalBoard/internal/store"
)

// CacheKey is the store key holding the last known run time.
const CacheKey = "workflow-time-cache"

// Defaults for Config fields left zero.
const (
	DefaultTTL       = 10 * time.Minute
	DefaultInterval  = time.Hour
	DefaultTickEvery = time.Second
)

// Config tunes the tracker. Zero values take the defaults above.
type Config struct {
	TTL       time.Duration
	Interval  time.Duration
	TickEvery time.Duration
	Location  *time.Location
}

// DelayHook is called once per expected run when the countdown runs out.
// It runs on its own goroutine so a slow hook never holds up Run or Stop.
type DelayHook func(status model.FreshnessStatus)

// tickHandle owns one countdown goroutine.
type tickHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Tracker derives the last and next workflow run and keeps the
// next-updated region counting down. A Tracker owns at most one countdown.
type Tracker struct {
	store   store.Store
	source  RunSource
	surface *display.Surface
	cfg     Config
	now     func() time.Time
	onDelay DelayHook

	runMu sync.Mutex // serializes Run

	mu          sync.Mutex
	status      model.FreshnessStatus
	tick        *tickHandle
	alertedNext time.Time

	active atomic.Int32
}

// NewTracker creates a tracker writing to surface.
func NewTracker(st store.Store, src RunSource, surface *display.Surface, cfg Config) *Tracker {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = DefaultTickEvery
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Tracker{
		store:   st,
		source:  src,
		surface: surface,
		cfg:     cfg,
		now:     time.Now,
		status:  model.FreshnessStatus{State: model.StateIdle},
	}
}

// SetClock replaces the time source.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// OnDelayed registers the hook fired when a countdown expires.
func (t *Tracker) OnDelayed(h DelayHook) { t.onDelay = h }

// Status returns a copy of the latest status.
func (t *Tracker) Status() model.FreshnessStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// ActiveTicks reports how many countdown goroutines are alive.
func (t *Tracker) ActiveTicks() int { return int(t.active.Load()) }

// Run resolves the last run (cache first, then the source), updates the
// display and restarts the countdown. On failure both regions read
// "Unavailable" and no countdown runs.
func (t *Tracker) Run(ctx context.Context) (model.FreshnessStatus, error) {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	if err := t.surface.Require(display.LastUpdated, display.NextUpdated); err != nil {
		return t.fail(fmt.Errorf("verify display: %w", err))
	}

	now := t.now()
	state := model.StateCached
	lastRun, ok := t.cached(now)
	if !ok {
		t.setState(model.StateFetching)
		var err error
		lastRun, err = t.source.LatestRunStart(ctx)
		if err != nil {
			return t.fail(fmt.Errorf("fetch last run from %s: %w", t.source.Name(), err))
		}
		t.save(lastRun, now)
		state = model.StateFresh
	}

	nextRun := lastRun.Add(t.cfg.Interval)
	delayed := now.After(nextRun)

	if err := t.surface.SetText(display.LastUpdated, FormatTime(lastRun, t.cfg.Location)); err != nil {
		return t.fail(err)
	}
	if err := t.surface.SetText(display.NextUpdated, NextText(nextRun, delayed, t.cfg.Location)); err != nil {
		return t.fail(err)
	}

	status := model.FreshnessStatus{
		State:     state,
		LastRun:   lastRun,
		NextRun:   nextRun,
		Delayed:   delayed,
		CheckedAt: now,
	}
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()

	t.startTick(nextRun)
	log.Printf("[INFO] freshness %s: last run %s, next run %s, delayed=%v",
		state, FormatTime(lastRun, t.cfg.Location), FormatTime(nextRun, t.cfg.Location), delayed)
	return status, nil
}

// Stop cancels the countdown and waits for it to exit.
func (t *Tracker) Stop() {
	t.mu.Lock()
	h := t.tick
	t.tick = nil
	t.mu.Unlock()
	if h != nil {
		h.cancel()
		<-h.done
	}
}

// Wait blocks until the current countdown finishes on its own or is stopped.
func (t *Tracker) Wait() {
	t.mu.Lock()
	h := t.tick
	t.mu.Unlock()
	if h != nil {
		<-h.done
	}
}

func (t *Tracker) setState(s model.FreshnessState) {
	t.mu.Lock()
	t.status.State = s
	t.mu.Unlock()
}

func (t *Tracker) fail(err error) (model.FreshnessStatus, error) {
	t.Stop()
	log.Printf("[ERROR] freshness check failed: %v", err)
	_ = t.surface.SetText(display.LastUpdated, display.Unavailable)
	_ = t.surface.SetText(display.NextUpdated, display.Unavailable)

	status := model.FreshnessStatus{
		State:     model.StateError,
		Err:       err.Error(),
		CheckedAt: t.now(),
	}
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
	return status, err
}

// cached returns the stored run time when the entry is younger than the TTL.
func (t *Tracker) cached(now time.Time) (time.Time, bool) {
	raw, ok, err := t.store.Get(CacheKey)
	if err != nil {
		log.Printf("[WARN] read freshness cache: %v", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	var entry model.FreshnessCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("[WARN] ignoring corrupt freshness cache: %v", err)
		return time.Time{}, false
	}
	if now.Sub(time.UnixMilli(entry.SavedAt)) >= t.cfg.TTL {
		return time.Time{}, false
	}
	lastRun, err := time.Parse(time.RFC3339Nano, entry.LastRun)
	if err != nil {
		log.Printf("[WARN] ignoring freshness cache with bad lastRun %q: %v", entry.LastRun, err)
		return time.Time{}, false
	}
	return lastRun, true
}

func (t *Tracker) save(lastRun, now time.Time) {
	data, err := json.Marshal(model.FreshnessCacheEntry{
		LastRun: lastRun.UTC().Format(isoLayout),
		SavedAt: now.UnixMilli(),
	})
	if err != nil {
		log.Printf("[ERROR] encode freshness cache: %v", err)
		return
	}
	if err := t.store.Set(CacheKey, string(data)); err != nil {
		log.Printf("[ERROR] write freshness cache: %v", err)
	}
}

// startTick replaces any running countdown with a new one for nextRun.
func (t *Tracker) startTick(nextRun time.Time) {
	t.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	h := &tickHandle{cancel: cancel, done: make(chan struct{})}
	t.mu.Lock()
	t.tick = h
	t.mu.Unlock()

	t.active.Add(1)
	go t.countdown(ctx, h, nextRun)
}

func (t *Tracker) countdown(ctx context.Context, h *tickHandle, nextRun time.Time) {
	defer close(h.done)
	defer t.active.Add(-1)

	ticker := time.NewTicker(t.cfg.TickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.tickOnce(nextRun) {
				return
			}
		}
	}
}

// tickOnce refreshes the countdown and reports whether it has expired.
func (t *Tracker) tickOnce(nextRun time.Time) bool {
	remaining := nextRun.Sub(t.now())
	if remaining > 0 {
		_ = t.surface.SetText(display.NextUpdated, CountdownText(nextRun, remaining, t.cfg.Location))
		return false
	}

	_ = t.surface.SetText(display.NextUpdated, NextText(nextRun, true, t.cfg.Location))

	t.mu.Lock()
	t.status.Delayed = true
	status := t.status
	fire := t.onDelay != nil && !t.alertedNext.Equal(nextRun)
	if fire {
		t.alertedNext = nextRun
	}
	t.mu.Unlock()

	if fire {
		go t.onDelay(status)
	}
	return true
}
