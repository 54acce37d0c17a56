package monitor

import (
	"context"
	"sync"
	"time"

	"dropbox-comments/feature/scheduler"

	"go.uber.org/zap"
)

// Controller is the part of the scheduler the monitor drives.
type Controller interface {
	TriggerNow() bool
	SetInterval(minutes int) error
	Interval() int
	ReloadCredentials()
	Status() scheduler.Status
	LastSync() (time.Time, bool)
	Results() <-chan scheduler.SyncResult
}

var _ Controller = (*scheduler.Scheduler)(nil)

// Snapshot is the monitor's view of the scheduler.
type Snapshot struct {
	Status          scheduler.Status `json:"status"`
	IntervalMinutes int              `json:"interval_minutes"`
	LastSync        *time.Time       `json:"last_sync,omitempty"`
	LastResult      *ResultView      `json:"last_result,omitempty"`
	SyncedToday     int              `json:"synced_today"`
}

// ResultView is the JSON form of a scheduler.SyncResult.
type ResultView struct {
	Status     scheduler.Status `json:"status"`
	CycleID    string           `json:"cycle_id,omitempty"`
	Processed  int              `json:"processed"`
	Unmatched  int              `json:"unmatched"`
	Message    string           `json:"message,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	At         time.Time        `json:"at"`
}

func viewOf(r scheduler.SyncResult) *ResultView {
	switch v := r.(type) {
	case scheduler.Success:
		return &ResultView{
			Status:     v.Status(),
			CycleID:    v.CycleID,
			Processed:  v.Processed,
			Unmatched:  v.Unmatched,
			DurationMs: v.Duration.Milliseconds(),
			At:         v.FinishedAt,
		}
	case scheduler.Failure:
		return &ResultView{
			Status:     v.Status(),
			Message:    v.Message,
			DurationMs: v.Duration.Milliseconds(),
			At:         v.FinishedAt,
		}
	case scheduler.Syncing:
		return &ResultView{Status: v.Status(), At: v.StartedAt}
	default:
		return nil
	}
}

// Monitor tracks scheduler results.
type Monitor struct {
	controller Controller
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time

	mu         sync.RWMutex
	last       scheduler.SyncResult
	countDay   string
	countToday int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLocation sets the zone used for the daily counter boundary.
func WithLocation(loc *time.Location) Option {
	return func(m *Monitor) { m.loc = loc }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a Monitor over controller.
func New(controller Controller, logger *zap.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		controller: controller,
		logger:     logger,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run drains results until ctx is done or the channel closes.
func (m *Monitor) Run(ctx context.Context) {
	results := m.controller.Results()
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-results:
			if !ok {
				return
			}
			m.observe(r)
		}
	}
}

func (m *Monitor) observe(r scheduler.SyncResult) {
	m.mu.Lock()
	m.last = r
	if s, ok := r.(scheduler.Success); ok {
		day := s.FinishedAt.In(m.loc).Format(time.DateOnly)
		if day != m.countDay {
			m.countDay = day
			m.countToday = 0
		}
		m.countToday += s.Processed
	}
	m.mu.Unlock()

	switch v := r.(type) {
	case scheduler.Syncing:
		m.logger.Debug("Sync started")
	case scheduler.Success:
		m.logger.Info("Sync finished",
			zap.String("cycle_id", v.CycleID),
			zap.Int("processed", v.Processed),
			zap.Int("unmatched", v.Unmatched),
			zap.Duration("duration", v.Duration))
	case scheduler.Failure:
		m.logger.Warn("Sync failed", zap.String("error", v.Message), zap.Duration("duration", v.Duration))
	}
}

// SyncedToday returns the comments synced since local midnight.
func (m *Monitor) SyncedToday() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.countDay != m.now().In(m.loc).Format(time.DateOnly) {
		return 0
	}
	return m.countToday
}

// Snapshot returns the current state.
func (m *Monitor) Snapshot() Snapshot {
	snap := Snapshot{
		Status:          m.controller.Status(),
		IntervalMinutes: m.controller.Interval(),
		SyncedToday:     m.SyncedToday(),
	}
	if t, ok := m.controller.LastSync(); ok {
		snap.LastSync = &t
	}
	m.mu.RLock()
	snap.LastResult = viewOf(m.last)
	m.mu.RUnlock()
	return snap
}
