package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dropbox-comments/feature/orchestrator"
	"dropbox-comments/feature/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newScheduler(t *testing.T, factory scheduler.Factory, opts ...scheduler.Option) *scheduler.Scheduler {
	t.Helper()
	opts = append([]scheduler.Option{
		scheduler.WithLogger(zaptest.NewLogger(t)),
		scheduler.WithTick(5 * time.Millisecond),
	}, opts...)
	s, err := scheduler.New(scheduler.NewClientProvider(factory), 5, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(time.Second) })
	return s
}

func staticFactory(r scheduler.Runner) scheduler.Factory {
	return func(ctx context.Context) (scheduler.Runner, error) { return r, nil }
}

func nextResult(t *testing.T, s *scheduler.Scheduler) scheduler.SyncResult {
	t.Helper()
	select {
	case r := <-s.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return nil
	}
}

func TestNew_RejectsInvalidInterval(t *testing.T) {
	_, err := scheduler.New(scheduler.NewClientProvider(staticFactory(okRunner())), 7)
	assert.ErrorIs(t, err, scheduler.ErrInvalidInterval)
}

func TestScheduler_ManualTriggerPublishesSyncingThenSuccess(t *testing.T) {
	s := newScheduler(t, staticFactory(okRunner()))
	assert.Equal(t, scheduler.StatusIdle, s.Status())
	assert.IsType(t, scheduler.Idle{}, s.LastResult())

	s.Start(context.Background())
	require.True(t, s.TriggerNow())

	assert.IsType(t, scheduler.Syncing{}, nextResult(t, s))
	res := nextResult(t, s)
	success, ok := res.(scheduler.Success)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "cycle", success.CycleID)
	assert.Equal(t, 2, success.Processed)
	assert.Equal(t, 1, success.Unmatched)

	require.Eventually(t, func() bool { return s.Status() == scheduler.StatusIdle }, time.Second, 5*time.Millisecond)
	last, ok := s.LastSync()
	assert.True(t, ok)
	assert.Equal(t, success.FinishedAt, last)
	assert.Equal(t, success, s.LastResult())
}

func TestScheduler_FailurePublishesMessage(t *testing.T) {
	s := newScheduler(t, func(ctx context.Context) (scheduler.Runner, error) {
		return runnerFunc(func(ctx context.Context) (orchestrator.Outcome, error) {
			return orchestrator.Outcome{}, errors.New("sheet unavailable")
		}), nil
	})
	s.Start(context.Background())
	require.True(t, s.TriggerNow())

	nextResult(t, s)
	res := nextResult(t, s)
	failure, ok := res.(scheduler.Failure)
	require.True(t, ok, "got %T", res)
	assert.Contains(t, failure.Message, "sheet unavailable")

	_, synced := s.LastSync()
	assert.False(t, synced)
}

func TestScheduler_FactoryErrorIsFailure(t *testing.T) {
	s := newScheduler(t, func(ctx context.Context) (scheduler.Runner, error) {
		return nil, errors.New("credentials missing")
	})
	s.Start(context.Background())
	require.True(t, s.TriggerNow())

	nextResult(t, s)
	assert.IsType(t, scheduler.Failure{}, nextResult(t, s))
}

func TestScheduler_TriggerIgnoredWhileSyncing(t *testing.T) {
	release := make(chan struct{})
	s := newScheduler(t, staticFactory(runnerFunc(func(ctx context.Context) (orchestrator.Outcome, error) {
		<-release
		return orchestrator.Outcome{}, nil
	})))
	s.Start(context.Background())
	require.True(t, s.TriggerNow())
	assert.IsType(t, scheduler.Syncing{}, nextResult(t, s))

	assert.Equal(t, scheduler.StatusSyncing, s.Status())
	assert.False(t, s.TriggerNow())

	close(release)
	assert.IsType(t, scheduler.Success{}, nextResult(t, s))
}

func TestScheduler_TriggerRightAfterCycleIsKept(t *testing.T) {
	var runs atomic.Int32
	s := newScheduler(t, staticFactory(runnerFunc(func(ctx context.Context) (orchestrator.Outcome, error) {
		runs.Add(1)
		return orchestrator.Outcome{}, nil
	})))
	s.Start(context.Background())

	const rounds = 25
	for i := 0; i < rounds; i++ {
		require.Eventually(t, func() bool { return s.Status() == scheduler.StatusIdle }, time.Second, time.Millisecond)
		require.True(t, s.TriggerNow(), "round %d", i)
		assert.IsType(t, scheduler.Syncing{}, nextResult(t, s), "round %d", i)
		assert.IsType(t, scheduler.Success{}, nextResult(t, s), "round %d", i)
	}
	assert.Equal(t, int32(rounds), runs.Load())
}

func TestScheduler_TriggerBeforeStartOrAfterStop(t *testing.T) {
	s := newScheduler(t, staticFactory(okRunner()))
	assert.False(t, s.TriggerNow())

	s.Start(context.Background())
	require.NoError(t, s.Stop(time.Second))
	assert.False(t, s.TriggerNow())
}

func TestScheduler_ScheduledCycleAfterInterval(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newScheduler(t, staticFactory(okRunner()), scheduler.WithClock(clock.Now))
	s.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	select {
	case r := <-s.Results():
		t.Fatalf("unexpected result before interval elapsed: %T", r)
	default:
	}

	require.Eventually(t, func() bool {
		clock.Advance(6 * time.Minute)
		return len(s.Results()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.IsType(t, scheduler.Syncing{}, nextResult(t, s))
}

func TestScheduler_SetInterval(t *testing.T) {
	s := newScheduler(t, staticFactory(okRunner()))

	require.NoError(t, s.SetInterval(30))
	assert.Equal(t, 30, s.Interval())

	err := s.SetInterval(3)
	assert.ErrorIs(t, err, scheduler.ErrInvalidInterval)
	assert.Equal(t, 30, s.Interval())
}

func TestScheduler_ReloadCredentialsRebuildsRunner(t *testing.T) {
	var builds atomic.Int32
	s := newScheduler(t, func(ctx context.Context) (scheduler.Runner, error) {
		builds.Add(1)
		return okRunner(), nil
	})
	s.Start(context.Background())

	require.True(t, s.TriggerNow())
	nextResult(t, s)
	nextResult(t, s)
	require.Eventually(t, func() bool { return s.Status() == scheduler.StatusIdle }, time.Second, 5*time.Millisecond)

	s.ReloadCredentials()
	require.Eventually(t, s.TriggerNow, time.Second, 5*time.Millisecond)
	nextResult(t, s)
	nextResult(t, s)

	assert.Equal(t, int32(2), builds.Load())
}

func TestScheduler_StopWaitsForInFlightCycle(t *testing.T) {
	release := make(chan struct{})
	s := newScheduler(t, staticFactory(runnerFunc(func(ctx context.Context) (orchestrator.Outcome, error) {
		<-release
		return orchestrator.Outcome{}, nil
	})))
	s.Start(context.Background())
	require.True(t, s.TriggerNow())
	nextResult(t, s)

	assert.ErrorIs(t, s.Stop(20*time.Millisecond), scheduler.ErrStopTimeout)

	close(release)
	require.NoError(t, s.Stop(time.Second))
	assert.IsType(t, scheduler.Success{}, nextResult(t, s))

	select {
	case <-s.Done():
	default:
		t.Fatal("loop still running after Stop")
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := newScheduler(t, staticFactory(okRunner()))
	assert.NoError(t, s.Stop(time.Millisecond))
}

func TestScheduler_CycleSurvivesCallerCancellation(t *testing.T) {
	var sawErr atomic.Bool
	s := newScheduler(t, staticFactory(runnerFunc(func(ctx context.Context) (orchestrator.Outcome, error) {
		if ctx.Err() != nil {
			sawErr.Store(true)
		}
		return orchestrator.Outcome{}, nil
	})))
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	require.True(t, s.TriggerNow())
	nextResult(t, s)
	nextResult(t, s)
	assert.False(t, sawErr.Load())
}
