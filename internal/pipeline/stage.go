package pipeline

import (
	"context"
	"sync"
	"time"

	"tabprep/internal/frame"
)

// Stage is a single step in the cleansing pipeline. Stages follow a
// two-phase contract: Fit may inspect the frame to derive parameters, and
// Transform performs the rewrite. All shipped stages are stateless, so
// their Fit is a no-op, but the phase is part of the contract and the
// runner always invokes it first.
type Stage interface {
	// ID returns the unique identifier for this stage.
	ID() string

	// Name returns the human-readable name for this stage.
	Name() string

	// Fit inspects the frame and derives any parameters Transform needs.
	Fit(ctx context.Context, f *frame.Frame) error

	// Transform rewrites the frame in place. It must preserve the frame's
	// shape and must not touch columns already claimed by earlier stages.
	Transform(ctx context.Context, f *frame.Frame) error
}

// StageStatus represents the current status of a stage within a run.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState is the runtime state of one stage during a run.
type StageState struct {
	mu        sync.RWMutex
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Status    StageStatus `json:"status"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
	Err       error       `json:"error,omitempty"`
}

// NewStageState creates a stage state in the pending status.
func NewStageState(id, name string) *StageState {
	return &StageState{
		ID:     id,
		Name:   name,
		Status: StageStatusPending,
	}
}

// Start marks the stage as active and records the start time.
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage as completed and records the end time.
func (s *StageState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
}

// Fail marks the stage as failed with the given error.
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	s.Err = err
}

// Duration returns how long the stage ran, or has been running.
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// CurrentStatus returns the stage's status under the read lock.
func (s *StageState) CurrentStatus() StageStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// BaseStage provides the identity boilerplate shared by Stage
// implementations.
type BaseStage struct {
	id   string
	name string
}

// NewBaseStage creates a base stage with the given identity.
func NewBaseStage(id, name string) BaseStage {
	return BaseStage{id: id, name: name}
}

// ID returns the stage ID.
func (b *BaseStage) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

// Name returns the stage name.
func (b *BaseStage) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Fit is a no-op. Stateless stages embed BaseStage and inherit it; a stage
// that derives parameters overrides it.
func (b *BaseStage) Fit(ctx context.Context, f *frame.Frame) error {
	return nil
}
