// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks runs a single cancellable background operation.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCanceled is returned by Wait when the task was canceled before it finished.
var ErrCanceled = errors.New("task canceled")

// =============================================================================
// TASK STATUS
// =============================================================================

// TaskStatus represents the current state of a background task.
type TaskStatus string

const (
	// TaskStatusQueued indicates the task was created but has not started
	TaskStatusQueued TaskStatus = "Queued"

	// TaskStatusRunning indicates the task is currently executing
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusComplete indicates the task finished successfully
	TaskStatusComplete TaskStatus = "Complete"

	// TaskStatusFailed indicates the task returned an error
	TaskStatusFailed TaskStatus = "Failed"

	// TaskStatusCanceled indicates the task was canceled by the user
	TaskStatusCanceled TaskStatus = "Canceled"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusComplete || s == TaskStatusFailed || s == TaskStatusCanceled
}

// isValidTransition reports whether a task may move from one status to another.
func isValidTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case TaskStatusQueued:
		return to == TaskStatusRunning || to == TaskStatusCanceled
	case TaskStatusRunning:
		return to == TaskStatusComplete || to == TaskStatusFailed || to == TaskStatusCanceled
	default:
		return false
	}
}

// transition moves t to status if the move is valid. The caller holds t.mu.
func (t *Task) transition(status TaskStatus) bool {
	if !isValidTransition(t.status, status) {
		return false
	}
	t.status = status
	return true
}

// =============================================================================
// TASK STRUCTURE
// =============================================================================

// Func is the work performed by a task. It must return promptly once ctx is done.
type Func func(ctx context.Context) (string, error)

// Task is a background operation that can run without blocking the UI.
type Task struct {
	// ID is a unique identifier for this task
	ID string

	// Description is a human-readable description of what this task does
	Description string

	status    TaskStatus
	startTime time.Time
	endTime   time.Time
	result    string
	err       error

	cancel context.CancelFunc
	done   chan struct{}

	// mu protects concurrent access to the task
	mu sync.RWMutex
}

// NewTask creates a queued task. Call Run to execute it.
func NewTask(description string) *Task {
	return &Task{
		ID:          uuid.New().String(),
		Description: description,
		status:      TaskStatusQueued,
		done:        make(chan struct{}),
	}
}

// Run executes fn on a new goroutine with a context derived from parent.
// Run must be called at most once.
func (t *Task) Run(parent context.Context, fn Func) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	t.cancel = cancel
	canceled := !t.transition(TaskStatusRunning)
	if !canceled {
		t.startTime = time.Now()
	}
	t.mu.Unlock()

	if canceled {
		cancel()
		t.finish("", ErrCanceled)
		return
	}

	go func() {
		defer cancel()
		result, err := fn(ctx)
		t.finish(result, err)
	}()
}

// finish records the outcome and releases waiters. A canceled task stays canceled.
func (t *Task) finish(result string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.done:
		return
	default:
	}

	switch {
	case t.status == TaskStatusCanceled:
		t.err = ErrCanceled
		if err != nil {
			t.err = fmt.Errorf("%w: %w", ErrCanceled, err)
		}
	case err != nil:
		t.transition(TaskStatusFailed)
		t.err = err
	default:
		t.transition(TaskStatusComplete)
		t.result = result
	}
	if t.endTime.IsZero() {
		t.endTime = time.Now()
	}
	close(t.done)
}

// =============================================================================
// TASK METHODS
// =============================================================================

// GetStatus returns the current task status (thread-safe).
func (t *Task) GetStatus() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Cancel cancels the task if it has not finished.
// Returns true if the task was canceled, false if it had already ended.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() || !t.transition(TaskStatusCanceled) {
		return false
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.endTime = time.Now()
	return true
}

// Done returns a channel that is closed when the task has ended.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends and returns its result.
// A canceled task returns an error matching ErrCanceled.
func (t *Task) Wait() (string, error) {
	<-t.done
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result, t.err
}

// Duration returns how long the task has been running or took to complete.
func (t *Task) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.startTime.IsZero() {
		return 0
	}
	if t.endTime.IsZero() {
		return time.Since(t.startTime)
	}
	return t.endTime.Sub(t.startTime)
}

// IsComplete returns true if the task has ended (success, failure, or canceled).
func (t *Task) IsComplete() bool {
	return t.GetStatus().IsTerminal()
}

// Summary returns a one-line summary of the task.
func (t *Task) Summary() string {
	status := t.GetStatus()
	duration := t.Duration()

	summary := fmt.Sprintf("[%s] %s - %s", t.ID[:8], t.Description, status)
	if duration > 0 {
		summary += fmt.Sprintf(" (%.1fs)", duration.Seconds())
	}
	return summary
}
