package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrStopTimeout is returned by Stop when the loop did not exit in time.
var ErrStopTimeout = errors.New("scheduler did not stop in time")

// ErrInvalidInterval is returned by SetInterval for minutes outside AllowedIntervals.
var ErrInvalidInterval = errors.New("invalid poll interval")

const defaultResultBuffer = 16

// Scheduler runs cycles on a timer and on demand.
type Scheduler struct {
	provider *ClientProvider
	logger   *zap.Logger
	machine  *statusMachine
	now      func() time.Time
	tick     time.Duration

	interval atomic.Int64 // minutes
	manual   atomic.Bool
	stopping atomic.Bool
	wake     chan struct{}
	results  chan SyncResult

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	done      chan struct{}

	mu         sync.RWMutex
	lastSync   time.Time
	lastResult SyncResult
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithTick sets how often the countdown checks for triggers and stop requests.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) { s.tick = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithResultBuffer sets the capacity of the Results channel.
func WithResultBuffer(n int) Option {
	return func(s *Scheduler) { s.results = make(chan SyncResult, n) }
}

// New creates a stopped scheduler polling every intervalMinutes.
func New(provider *ClientProvider, intervalMinutes int, opts ...Option) (*Scheduler, error) {
	if !IsAllowedInterval(intervalMinutes) {
		return nil, fmt.Errorf("%w: %d minutes, allowed %v", ErrInvalidInterval, intervalMinutes, AllowedIntervals)
	}

	machine, err := newStatusMachine()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		provider:   provider,
		logger:     zap.NewNop(),
		machine:    machine,
		now:        time.Now,
		tick:       time.Second,
		wake:       make(chan struct{}, 1),
		results:    make(chan SyncResult, defaultResultBuffer),
		done:       make(chan struct{}),
		lastResult: Idle{},
	}
	s.interval.Store(int64(intervalMinutes))
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the loop. Later calls are no-ops.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.started.Store(true)
		s.logger.Info("Sync scheduler started", zap.Int64("interval_minutes", s.interval.Load()))
		go s.loop(context.WithoutCancel(ctx))
	})
}

// TriggerNow requests an immediate cycle. It returns false when a cycle is
// already running or the scheduler is stopping.
func (s *Scheduler) TriggerNow() bool {
	if !s.started.Load() || s.stopping.Load() {
		s.logger.Warn("Cannot trigger sync: scheduler not running")
		return false
	}
	if s.machine.current() == StatusSyncing {
		s.logger.Debug("Manual sync ignored: cycle in progress")
		return false
	}
	s.logger.Info("Manual sync triggered")
	s.manual.Store(true)
	s.signal()
	return true
}

// SetInterval changes the poll interval. It applies from the next countdown reset.
func (s *Scheduler) SetInterval(minutes int) error {
	if !IsAllowedInterval(minutes) {
		return fmt.Errorf("%w: %d minutes, allowed %v", ErrInvalidInterval, minutes, AllowedIntervals)
	}
	old := s.interval.Swap(int64(minutes))
	s.logger.Info("Sync interval updated", zap.Int64("from", old), zap.Int("to", minutes))
	return nil
}

// Interval returns the configured poll interval in minutes.
func (s *Scheduler) Interval() int {
	return int(s.interval.Load())
}

// ReloadCredentials drops the cached clients; the next cycle rebuilds them.
func (s *Scheduler) ReloadCredentials() {
	s.logger.Info("Credentials reload requested")
	s.provider.Invalidate()
}

// Stop asks the loop to exit after any in-flight cycle and waits up to timeout.
// It is safe to call in any state and more than once.
func (s *Scheduler) Stop(timeout time.Duration) error {
	if !s.started.Load() {
		return nil
	}
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping sync scheduler")
		s.stopping.Store(true)
		s.signal()
	})

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-t.C:
		return ErrStopTimeout
	}
}

// Done is closed when the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Status returns the current state machine position.
func (s *Scheduler) Status() Status {
	return s.machine.current()
}

// LastSync returns the finish time of the last successful cycle.
func (s *Scheduler) LastSync() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync, !s.lastSync.IsZero()
}

// LastResult returns the last published Success or Failure, or Idle.
func (s *Scheduler) LastResult() SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

// Results delivers cycle results. Results are dropped when nobody drains it.
func (s *Scheduler) Results() <-chan SyncResult {
	return s.results
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		deadline := s.now().Add(time.Duration(s.interval.Load()) * time.Minute)

		for !s.stopping.Load() && !s.manual.Load() && s.now().Before(deadline) {
			select {
			case <-s.wake:
			case <-ticker.C:
			}
		}
		if s.stopping.Load() {
			return
		}

		// Cleared before the cycle so a trigger accepted after it finishes is kept.
		if s.manual.Swap(false) {
			s.logger.Info("Running manual sync")
		} else {
			s.logger.Info("Running scheduled sync", zap.Int64("interval_minutes", s.interval.Load()))
		}
		s.runCycle(ctx)
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	started := s.now()
	s.machine.send(eventStart)
	s.publish(Syncing{StartedAt: started})

	var result SyncResult
	runner, err := s.provider.Get(ctx)
	if err == nil {
		outcome, runErr := runner.RunOnce(ctx)
		err = runErr
		if err == nil {
			finished := s.now()
			result = Success{
				CycleID:    outcome.CycleID,
				Processed:  outcome.Processed,
				Unmatched:  outcome.Unmatched,
				Duration:   finished.Sub(started),
				FinishedAt: finished,
			}
		}
	}

	if err != nil {
		finished := s.now()
		s.logger.Error("Sync failed", zap.Error(err))
		result = Failure{Message: err.Error(), Duration: finished.Sub(started), FinishedAt: finished}
		s.machine.send(eventFail)
	} else {
		s.machine.send(eventSucceed)
	}

	s.mu.Lock()
	s.lastResult = result
	if success, ok := result.(Success); ok {
		s.lastSync = success.FinishedAt
	}
	s.mu.Unlock()

	s.publish(result)
	s.machine.send(eventReset)
}

func (s *Scheduler) publish(r SyncResult) {
	select {
	case s.results <- r:
	default:
		s.logger.Warn("Result channel full, dropping result", zap.String("status", string(r.Status())))
	}
}
