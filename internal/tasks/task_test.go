// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func start(description string, fn Func) *Task {
	task := NewTask(description)
	task.Run(context.Background(), fn)
	return task
}

func TestNewTask(t *testing.T) {
	task := NewTask("Test task")

	if task.ID == "" {
		t.Error("Task ID should not be empty")
	}
	if task.Description != "Test task" {
		t.Errorf("Expected description 'Test task', got '%s'", task.Description)
	}
	if task.GetStatus() != TaskStatusQueued {
		t.Errorf("Expected status Queued, got %s", task.GetStatus())
	}
}

func TestTask_Complete(t *testing.T) {
	task := start("answer", func(ctx context.Context) (string, error) {
		return "42", nil
	})

	result, err := task.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if result != "42" {
		t.Errorf("Wait() = %q, want 42", result)
	}
	if task.GetStatus() != TaskStatusComplete {
		t.Errorf("status = %s, want Complete", task.GetStatus())
	}
	if task.Duration() < 0 {
		t.Error("Task duration should not be negative")
	}
}

func TestTask_Failed(t *testing.T) {
	boom := errors.New("boom")
	task := start("answer", func(ctx context.Context) (string, error) {
		return "", boom
	})

	_, err := task.Wait()
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want boom", err)
	}
	if task.GetStatus() != TaskStatusFailed {
		t.Errorf("status = %s, want Failed", task.GetStatus())
	}
	if task.Cancel() {
		t.Error("Cancel() on a failed task should return false")
	}
}

func TestTask_Cancel(t *testing.T) {
	started := make(chan struct{})
	task := start("slow", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	<-started
	if !task.Cancel() {
		t.Fatal("Cancel() = false on a running task")
	}

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not end after Cancel")
	}

	_, err := task.Wait()
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("Wait() error = %v, want ErrCanceled", err)
	}
	if task.GetStatus() != TaskStatusCanceled {
		t.Errorf("status = %s, want Canceled", task.GetStatus())
	}
}

func TestTask_CancelBeforeRun(t *testing.T) {
	task := NewTask("never")
	task.Cancel()

	ran := false
	task.Run(context.Background(), func(ctx context.Context) (string, error) {
		ran = true
		return "", nil
	})

	_, err := task.Wait()
	if ran {
		t.Error("canceled task should not run its func")
	}
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("Wait() error = %v, want ErrCanceled", err)
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		valid    bool
	}{
		{TaskStatusQueued, TaskStatusRunning, true},
		{TaskStatusQueued, TaskStatusCanceled, true},
		{TaskStatusQueued, TaskStatusComplete, false},
		{TaskStatusRunning, TaskStatusComplete, true},
		{TaskStatusRunning, TaskStatusFailed, true},
		{TaskStatusRunning, TaskStatusCanceled, true},
		{TaskStatusComplete, TaskStatusRunning, false},
		{TaskStatusFailed, TaskStatusComplete, false},
		{TaskStatusCanceled, TaskStatusRunning, false},
	}

	for _, tt := range tests {
		task := NewTask("t")
		task.status = tt.from
		if got := task.transition(tt.to); got != tt.valid {
			t.Errorf("%s -> %s: transition = %v, want %v", tt.from, tt.to, got, tt.valid)
		}
		want := tt.from
		if tt.valid {
			want = tt.to
		}
		if task.status != want {
			t.Errorf("%s -> %s: status = %s, want %s", tt.from, tt.to, task.status, want)
		}
	}
}

func TestTask_Summary(t *testing.T) {
	task := start("answer: hello", func(ctx context.Context) (string, error) {
		return "hi", nil
	})
	if _, err := task.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	summary := task.Summary()
	if !strings.HasPrefix(summary, "["+task.ID[:8]+"] answer: hello - Complete") {
		t.Errorf("Summary() = %q", summary)
	}
}
