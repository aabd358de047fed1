package pipeline

import (
	"sync"
	"time"
)

// RunStatus represents the overall status of a pipeline run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState is the complete state of one pipeline run: overall status plus
// per-stage states, keyed by stage ID.
type RunState struct {
	mu sync.RWMutex

	ID        string                 `json:"id"`
	Status    RunStatus              `json:"status"`
	StartTime time.Time              `json:"start_time"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Stages    map[string]*StageState `json:"stages"`
	Err       error                  `json:"error,omitempty"`
}

// NewRunState creates a pending run state.
func NewRunState(id string) *RunState {
	return &RunState{
		ID:     id,
		Status: RunStatusPending,
		Stages: make(map[string]*StageState),
	}
}

// Start marks the run as running.
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed.
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed with the given error.
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Err = err
}

// AddStage registers a stage state under its ID.
func (r *RunState) AddStage(s *StageState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stages[s.ID] = s
}

// Stage returns the state for the given stage ID, or nil.
func (r *RunState) Stage(id string) *StageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Stages[id]
}

// CurrentStatus returns the run status under the read lock.
func (r *RunState) CurrentStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// Duration returns how long the run took, or has been running.
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.StartTime.IsZero() {
		return 0
	}
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}
