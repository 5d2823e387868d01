// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Runner performs one full synchronization. Implemented by *Synchronizer.
type Runner interface {
	SyncAll(ctx context.Context) (*RunReport, error)
}

// Status is the sync status endpoint payload.
type Status struct {
	Running    bool       `json:"running"`
	Scheduled  bool       `json:"scheduled"`
	Interval   string     `json:"interval,omitempty"`
	LastReport *RunReport `json:"last_report"`
	LastError  string     `json:"last_error,omitempty"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
}

// Manager serializes synchronization runs and optionally schedules them.
//
// Thread Safety:
//   - inProgress: at most one run at a time; TriggerSync never queues
//   - mu: protects scheduler state and the last run
//   - wg: tracks the scheduler goroutine for Stop
type Manager struct {
	runner     Runner
	publisher  Publisher
	interval   time.Duration
	onStartup  bool
	runTimeout time.Duration

	inProgress atomic.Bool

	mu         sync.RWMutex
	scheduled  bool
	stopChan   chan struct{}
	lastReport *RunReport
	lastErr    error
	lastRunAt  time.Time

	wg sync.WaitGroup
}

// NewManager creates a manager. runTimeout bounds a triggered run once it is
// detached from the caller (0 = unbounded). publisher may be nil.
func NewManager(runner Runner, cfg *config.SyncConfig, runTimeout time.Duration, publisher Publisher) *Manager {
	if publisher == nil {
		publisher = noopPublisher{}
	}

	logging.Info().
		Int("pages", cfg.Pages).
		Int("batch_size", cfg.BatchSize).
		Dur("batch_pause", cfg.BatchPause).
		Int("cap", cfg.Cap).
		Dur("interval", cfg.Interval).
		Msg("Sync manager config loaded")

	return &Manager{
		runner:     runner,
		publisher:  publisher,
		interval:   cfg.Interval,
		onStartup:  cfg.OnStartup,
		runTimeout: runTimeout,
	}
}

// TriggerSync runs one synchronization on behalf of a caller. The run keeps
// going if ctx is canceled (an HTTP client hanging up does not abort a half
// written catalog) and is bounded by the run timeout instead.
//
// Returns ErrSyncInProgress when another run is active.
func (m *Manager) TriggerSync(ctx context.Context) (*RunReport, error) {
	runCtx := context.WithoutCancel(ctx)
	if m.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, m.runTimeout)
		defer cancel()
	}
	return m.run(runCtx)
}

func (m *Manager) run(ctx context.Context) (*RunReport, error) {
	if !m.inProgress.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer m.inProgress.Store(false)

	metrics.SyncInProgress.Set(1)
	defer metrics.SyncInProgress.Set(0)

	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	logging.Ctx(ctx).Info().Msg("Starting catalog synchronization")

	start := time.Now()
	report, err := m.runner.SyncAll(ctx)
	metrics.RecordSyncOperation(time.Since(start), err)

	m.mu.Lock()
	m.lastReport = report
	m.lastErr = err
	m.lastRunAt = start
	m.mu.Unlock()

	if report != nil {
		if perr := m.publisher.PublishSyncCompleted(ctx, report); perr != nil {
			logging.Ctx(ctx).Warn().Err(perr).Msg("Failed to publish sync completion")
		}
	}
	return report, err
}

// Start launches the scheduler. With no interval and no startup run it only
// marks the manager as started. Calling Start twice returns ErrManagerRunning.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.scheduled {
		m.mu.Unlock()
		return ErrManagerRunning
	}
	m.scheduled = true
	m.stopChan = make(chan struct{})
	stop := m.stopChan
	m.mu.Unlock()

	if m.interval <= 0 && !m.onStartup {
		logging.Info().Msg("Periodic sync disabled (sync.interval=0), waiting for manual triggers")
		return nil
	}

	m.wg.Add(1)
	go m.syncLoop(ctx, stop)
	logging.Info().Dur("interval", m.interval).Bool("on_startup", m.onStartup).Msg("Sync scheduler started")
	return nil
}

// Stop ends the scheduler and waits for an in-flight scheduled run to return.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.scheduled {
		m.mu.Unlock()
		return ErrManagerStopped
	}
	m.scheduled = false
	close(m.stopChan)
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

func (m *Manager) syncLoop(ctx context.Context, stop <-chan struct{}) {
	defer m.wg.Done()

	// Scheduled runs are canceled by Stop as well as by ctx.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-runCtx.Done():
		}
	}()

	if m.onStartup {
		m.runScheduled(runCtx)
	}
	if m.interval <= 0 {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			return
		case <-ticker.C:
			m.runScheduled(runCtx)
		}
	}
}

func (m *Manager) runScheduled(ctx context.Context) {
	_, err := m.run(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		logging.Debug().Msg("Scheduled sync skipped, a run is already in progress")
	case err != nil:
		logging.Warn().Err(err).Msg("Scheduled sync finished with errors")
	}
}

// Running reports whether a run is in progress.
func (m *Manager) Running() bool {
	return m.inProgress.Load()
}

// LastReport returns the report of the last completed run, or nil.
func (m *Manager) LastReport() *RunReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReport
}

// Status returns a snapshot for the status endpoint.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Status{
		Running:    m.inProgress.Load(),
		Scheduled:  m.scheduled && m.interval > 0,
		LastReport: m.lastReport,
	}
	if m.interval > 0 {
		st.Interval = m.interval.String()
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	if !m.lastRunAt.IsZero() {
		t := m.lastRunAt.UTC()
		st.LastRunAt = &t
	}
	return st
}
