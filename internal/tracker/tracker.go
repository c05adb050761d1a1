package tracker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/internal/pipeline"
)

// Fetcher retrieves the raw pipeline data for one (symbol, trade date).
// bypassCache forces a read through to the underlying store; the tracker
// uses it for the activation fetch and the reconciliation fetch.
type Fetcher interface {
	FetchPipelineData(ctx context.Context, symbol, tradeDate string, bypassCache bool) (*models.PipelineData, error)
}

const (
	DefaultPollInterval   = 5 * time.Second
	DefaultReconcileDelay = 1 * time.Second
)

type trackerState int

const (
	stateIdle trackerState = iota
	statePolling
	stateReconciling
)

// Tracker keeps a resolved snapshot fresh while a subject's analysis is
// active. It polls on a fixed cadence while the caller holds the active
// flag up, and fires exactly one delayed reconciliation fetch after the
// flag drops, to catch state persisted just after completion.
//
// The published snapshot is an immutable value swapped wholesale; readers
// never observe a half-written view.
type Tracker struct {
	fetcher        Fetcher
	interval       time.Duration
	reconcileDelay time.Duration
	onUpdate       func(*models.PipelineSnapshot)

	snapshot atomic.Pointer[models.PipelineSnapshot]

	mu          sync.Mutex
	state       trackerState
	symbol      string
	tradeDate   string
	ticker      *time.Ticker
	stopPoll    chan struct{}
	reconcile   *time.Timer
	fetchOK     bool
	lastUpdated time.Time
	lastErr     error
}

// Status is the caller-visible view of the tracker.
type Status struct {
	Snapshot    *models.PipelineSnapshot
	Refreshing  bool
	LastUpdated time.Time
	LastErr     error
}

type Option func(*Tracker)

func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

func WithReconcileDelay(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.reconcileDelay = d
		}
	}
}

// WithOnUpdate registers a callback invoked after every published snapshot
// replacement. The callback runs outside the tracker lock.
func WithOnUpdate(fn func(*models.PipelineSnapshot)) Option {
	return func(t *Tracker) { t.onUpdate = fn }
}

func New(fetcher Fetcher, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:        fetcher,
		interval:       DefaultPollInterval,
		reconcileDelay: DefaultReconcileDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetActive tracks the externally-owned "analysis running" flag. Raising it
// for a defined subject starts polling with an immediate fetch; dropping it
// stops the interval and schedules the single reconciliation fetch.
// An undefined subject is a precondition failure, not an error: the tracker
// simply stays idle.
func (t *Tracker) SetActive(symbol, tradeDate string, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !active {
		t.deactivateLocked()
		return
	}
	if symbol == "" || tradeDate == "" {
		return
	}
	if t.state == statePolling && t.symbol == symbol && t.tradeDate == tradeDate {
		return
	}

	// Re-activation supersedes a pending reconciliation fetch.
	t.clearReconcileLocked()
	t.stopPollingLocked()

	t.state = statePolling
	t.symbol = symbol
	t.tradeDate = tradeDate
	t.fetchOK = false

	t.ticker = time.NewTicker(t.interval)
	t.stopPoll = make(chan struct{})
	go t.pollLoop(t.ticker, t.stopPoll, symbol, tradeDate)
}

// pollLoop issues the immediate activation fetch, then one fetch per tick
// until stopped. Each fetch runs in its own goroutine so a slow response
// never blocks the cadence; responses are applied in arrival order.
func (t *Tracker) pollLoop(ticker *time.Ticker, stop chan struct{}, symbol, tradeDate string) {
	go t.runFetch(symbol, tradeDate, true)
	for {
		select {
		case <-ticker.C:
			go t.runFetch(symbol, tradeDate, false)
		case <-stop:
			return
		}
	}
}

func (t *Tracker) runFetch(symbol, tradeDate string, bypassCache bool) {
	data, err := t.fetcher.FetchPipelineData(context.Background(), symbol, tradeDate, bypassCache)

	t.mu.Lock()
	if t.symbol != symbol || t.tradeDate != tradeDate {
		// The subject changed while this fetch was in flight; its result
		// belongs to a view nobody is watching anymore.
		t.mu.Unlock()
		return
	}
	if err != nil {
		// Recoverable: keep the last good snapshot on display, retry on the
		// next tick.
		t.lastErr = err
		t.mu.Unlock()
		return
	}
	snap := pipeline.Resolve(data)
	t.lastErr = nil
	t.fetchOK = true
	t.lastUpdated = time.Now()
	t.snapshot.Store(snap)
	cb := t.onUpdate
	t.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

func (t *Tracker) deactivateLocked() {
	if t.state != statePolling {
		return
	}
	t.stopPollingLocked()

	if !t.fetchOK {
		// Nothing ever landed during this active period; there is no final
		// state worth reconciling.
		t.state = stateIdle
		return
	}

	t.state = stateReconciling
	symbol, tradeDate := t.symbol, t.tradeDate
	t.reconcile = time.AfterFunc(t.reconcileDelay, func() {
		t.mu.Lock()
		if t.state != stateReconciling {
			t.mu.Unlock()
			return
		}
		t.reconcile = nil
		t.mu.Unlock()

		t.runFetch(symbol, tradeDate, true)

		t.mu.Lock()
		if t.state == stateReconciling {
			t.state = stateIdle
		}
		t.mu.Unlock()
	})
}

// stopPollingLocked releases the interval timer. Every path that leaves the
// polling state goes through here first, so a stopped tracker can never
// schedule another fetch.
func (t *Tracker) stopPollingLocked() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if t.stopPoll != nil {
		close(t.stopPoll)
		t.stopPoll = nil
	}
}

func (t *Tracker) clearReconcileLocked() {
	if t.reconcile != nil {
		t.reconcile.Stop()
		t.reconcile = nil
	}
	if t.state == stateReconciling {
		t.state = stateIdle
	}
}

// Publish replaces the published snapshot with an externally-sourced one,
// regardless of polling state.
func (t *Tracker) Publish(snap *models.PipelineSnapshot) {
	if snap == nil {
		return
	}
	t.mu.Lock()
	t.lastUpdated = time.Now()
	t.snapshot.Store(snap)
	cb := t.onUpdate
	t.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

// Current returns the latest published snapshot (or the all-pending default
// before any data exists), whether the tracker is actively refreshing, the
// time of the last successful refresh, and the last recoverable error.
func (t *Tracker) Current() Status {
	t.mu.Lock()
	st := Status{
		Refreshing:  t.state == statePolling,
		LastUpdated: t.lastUpdated,
		LastErr:     t.lastErr,
	}
	symbol, tradeDate := t.symbol, t.tradeDate
	t.mu.Unlock()

	if snap := t.snapshot.Load(); snap != nil {
		st.Snapshot = snap
	} else {
		st.Snapshot = pipeline.DefaultSnapshot(symbol, tradeDate)
	}
	return st
}

// Close tears the tracker down, releasing the poll timer and any pending
// reconciliation timer.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopPollingLocked()
	t.clearReconcileLocked()
	t.state = stateIdle
}
