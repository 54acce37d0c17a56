package scheduler

import "time"

// Status is the scheduler's position in its state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// SyncResult is one of Idle, Syncing, Success or Failure.
type SyncResult interface {
	Status() Status
	isSyncResult()
}

// Idle is reported before the first cycle.
type Idle struct{}

// Syncing is published when a cycle starts.
type Syncing struct {
	StartedAt time.Time `json:"started_at"`
}

// Success is published when a cycle completes.
type Success struct {
	CycleID    string        `json:"cycle_id"`
	Processed  int           `json:"processed"`
	Unmatched  int           `json:"unmatched"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Failure is published when a cycle aborts.
type Failure struct {
	Message    string        `json:"message"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

func (Idle) Status() Status    { return StatusIdle }
func (Syncing) Status() Status { return StatusSyncing }
func (Success) Status() Status { return StatusSuccess }
func (Failure) Status() Status { return StatusError }

func (Idle) isSyncResult()    {}
func (Syncing) isSyncResult() {}
func (Success) isSyncResult() {}
func (Failure) isSyncResult() {}
