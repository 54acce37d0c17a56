package monitor

import (
	"context"
	"testing"
	"time"

	"dropbox-comments/feature/monitor/mocks"
	"dropbox-comments/feature/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMonitor_CountsProcessedPerDay(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	m := New(new(mocks.Controller), zap.NewNop(), WithLocation(time.UTC), WithClock(func() time.Time { return now }))

	m.observe(scheduler.Success{Processed: 4, FinishedAt: time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)})
	m.observe(scheduler.Success{Processed: 2, FinishedAt: time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC)})
	m.observe(scheduler.Failure{Message: "boom", FinishedAt: time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)})
	m.observe(scheduler.Success{Processed: 3, FinishedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)})

	assert.Equal(t, 5, m.SyncedToday())
	assert.IsType(t, scheduler.Success{}, m.last)
}

func TestMonitor_CounterExpiresAtMidnight(t *testing.T) {
	now := time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)
	m := New(new(mocks.Controller), zap.NewNop(), WithLocation(time.UTC), WithClock(func() time.Time { return now }))

	m.observe(scheduler.Success{Processed: 4, FinishedAt: now})
	assert.Equal(t, 4, m.SyncedToday())

	now = now.Add(3 * time.Hour)
	assert.Equal(t, 0, m.SyncedToday())
}

func TestMonitor_RunDrainsUntilClosed(t *testing.T) {
	ch := make(chan scheduler.SyncResult, 3)
	ctrl := new(mocks.Controller)
	ctrl.On("Results").Return((<-chan scheduler.SyncResult)(ch))

	finished := time.Now()
	m := New(ctrl, zap.NewNop())
	ch <- scheduler.Syncing{StartedAt: finished}
	ch <- scheduler.Success{CycleID: "c1", Processed: 1, FinishedAt: finished}
	close(ch)

	done := make(chan struct{})
	go func() {
		m.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after channel closed")
	}
	require.IsType(t, scheduler.Success{}, m.last)
	assert.Equal(t, 1, m.SyncedToday())
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	ch := make(chan scheduler.SyncResult)
	ctrl := new(mocks.Controller)
	ctrl.On("Results").Return((<-chan scheduler.SyncResult)(ch))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		New(ctrl, zap.NewNop()).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestViewOf(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Nil(t, viewOf(nil))
	assert.Nil(t, viewOf(scheduler.Idle{}))

	v := viewOf(scheduler.Failure{Message: "x", Duration: 1500 * time.Millisecond, FinishedAt: at})
	require.NotNil(t, v)
	assert.Equal(t, scheduler.StatusError, v.Status)
	assert.Equal(t, "x", v.Message)
	assert.Equal(t, int64(1500), v.DurationMs)

	v = viewOf(scheduler.Success{CycleID: "c", Processed: 3, Unmatched: 1, FinishedAt: at})
	require.NotNil(t, v)
	assert.Equal(t, scheduler.StatusSuccess, v.Status)
	assert.Equal(t, 3, v.Processed)
	assert.Equal(t, at, v.At)
}
