// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/tasks"
	"github.com/jeranaias/groqchat/internal/util"
)

var (
	// ErrEmptyMessage is returned when the submitted text is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRequestInFlight is returned when a request is already outstanding.
	ErrRequestInFlight = errors.New("a request is already in progress")
)

// Session is one user's chat: a transcript plus a generator.
// It is safe for concurrent use.
type Session struct {
	transcript *model.Transcript
	generator  llm.Generator
	logger     *slog.Logger

	mu      sync.Mutex
	current *tasks.Task
	// epoch is bumped by Clear so a late reply from a cleared request is dropped.
	epoch uint64

	// afterReply runs once a reply is recorded; tests use it to race Cancel.
	afterReply func()
}

// NewSession creates a session with an empty transcript.
func NewSession(gen llm.Generator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		transcript: model.NewTranscript(),
		generator:  gen,
		logger:     logger,
	}
}

// Transcript returns the session transcript for display.
func (s *Session) Transcript() *model.Transcript {
	return s.transcript
}

// Pending reports whether a request is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && !s.current.IsComplete()
}

// Current returns the outstanding task, or nil.
func (s *Session) Current() *tasks.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.IsComplete() {
		return nil
	}
	return s.current
}

// Start appends the user message and begins generating the reply in the
// background. The returned task completes with the answer text; the
// assistant message is appended to the transcript before the task ends.
// On failure nothing beyond the user message is appended.
func (s *Session) Start(ctx context.Context, text string, settings model.Settings) (*tasks.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && !s.current.IsComplete() {
		return nil, ErrRequestInFlight
	}

	s.transcript.Append(model.NewUserMessage(text))
	epoch := s.epoch

	req := llm.Request{
		Question:    text,
		Model:       settings.Model,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
	}

	task := tasks.NewTask("answer: " + util.TruncateWidth(text, 40))
	s.current = task
	task.Run(ctx, func(ctx context.Context) (string, error) {
		answer, err := s.generator.Generate(ctx, req)
		if err != nil {
			genErr := llm.Classify(err)
			s.logger.Warn("request failed", "task", task.ID, "model", req.Model, "kind", genErr.Kind.String())
			return "", genErr
		}
		s.appendReply(epoch, task, answer)
		if s.afterReply != nil {
			s.afterReply()
		}
		return answer, nil
	})
	return task, nil
}

// appendReply records the answer unless the session was cleared or the task canceled.
func (s *Session) appendReply(epoch uint64, task *tasks.Task, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || task.GetStatus() == tasks.TaskStatusCanceled {
		s.logger.Debug("dropping reply for cleared or canceled request", "task", task.ID)
		return
	}
	s.transcript.Append(model.NewAssistantMessage(answer))
	// Recorded replies are final; a later Cancel must not mark the task canceled.
	if s.current == task {
		s.current = nil
	}
}

// Await blocks until task ends and returns the appended assistant message.
// Failures are returned as *llm.GenerationError; a canceled task yields llm.ErrCanceled.
func (s *Session) Await(task *tasks.Task) (model.Message, error) {
	answer, err := task.Wait()
	s.logger.Debug("request finished", "task", task.Summary())
	if err != nil {
		if errors.Is(err, tasks.ErrCanceled) {
			return model.Message{}, llm.ErrCanceled
		}
		return model.Message{}, llm.Classify(err)
	}
	last, ok := s.transcript.Last()
	if !ok || last.Role() != model.RoleAssistant || last.Content() != answer {
		// Cleared while finishing.
		return model.NewAssistantMessage(answer), nil
	}
	return last, nil
}

// Submit sends text and waits for the reply.
// On success the transcript grows by two messages (user, assistant); on a
// generation failure it grows by one (user) and the error is returned.
func (s *Session) Submit(ctx context.Context, text string, settings model.Settings) (model.Message, error) {
	task, err := s.Start(ctx, text, settings)
	if err != nil {
		return model.Message{}, err
	}
	return s.Await(task)
}

// Cancel aborts the outstanding request, if any. The user message stays unanswered.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	return s.current.Cancel()
}

// Clear cancels any outstanding request and empties the transcript.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
	s.epoch++
	s.transcript.Clear()
}
