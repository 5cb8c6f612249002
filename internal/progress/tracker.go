package progress

import (
	"sync"
	"time"
)

// Operation status values.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Tracker receives progress for one long-running operation.
//
// Update is called synchronously on the goroutine doing the work, so
// implementations must return quickly.
type Tracker interface {
	Start(operation string) *Operation
	Update(current, total int64)
	Complete()
	Error(err error)
}

// Operation represents a tracked operation
type Operation struct {
	Name        string
	StartTime   time.Time
	Status      string
	LastUpdate  time.Time
	LastCurrent int64
	LastTotal   int64
	Updates     int
	Err         error
}

// Percent returns the last reported progress as a 0-100 value.
func (o *Operation) Percent() int64 {
	if o == nil || o.LastTotal <= 0 {
		return 0
	}
	return o.LastCurrent * 100 / o.LastTotal
}

// DefaultTracker records the state of the current operation in memory.
type DefaultTracker struct {
	mu               sync.Mutex
	CurrentOperation *Operation
	history          []int64
}

// Start begins tracking a new operation
func (t *DefaultTracker) Start(operation string) *Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.CurrentOperation = &Operation{
		Name:       operation,
		StartTime:  now,
		LastUpdate: now,
		Status:     StatusInProgress,
	}
	t.history = nil
	return t.CurrentOperation
}

// Update records the latest progress of the current operation
func (t *DefaultTracker) Update(current, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation == nil {
		return
	}
	t.CurrentOperation.LastUpdate = time.Now()
	t.CurrentOperation.LastCurrent = current
	t.CurrentOperation.LastTotal = total
	t.CurrentOperation.Updates++
	t.history = append(t.history, current)
}

// Complete marks the operation as completed
func (t *DefaultTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation != nil {
		t.CurrentOperation.Status = StatusCompleted
	}
}

// Error marks the operation as failed with an error
func (t *DefaultTracker) Error(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentOperation != nil {
		t.CurrentOperation.Status = StatusFailed
		t.CurrentOperation.Err = err
	}
}

// History returns every value passed to Update since the last Start.
func (t *DefaultTracker) History() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int64, len(t.history))
	copy(out, t.history)
	return out
}

// Discard is a Tracker that ignores every call.
var Discard Tracker = discard{}

type discard struct{}

func (discard) Start(operation string) *Operation {
	return &Operation{Name: operation, StartTime: time.Now(), Status: StatusInProgress}
}
func (discard) Update(int64, int64) {}
func (discard) Complete()           {}
func (discard) Error(error)         {}
