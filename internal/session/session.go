// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the per-run session context.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/groqchat/internal/chat"
	"github.com/jeranaias/groqchat/internal/config"
	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/tasks"
)

// ErrNotOnChatPage is returned when a message is sent while another page is active.
var ErrNotOnChatPage = errors.New("messages can only be sent from the chat page")

// ErrClosed is returned after Close.
var ErrClosed = errors.New("session closed")

// closeGrace bounds how long Close waits for a canceled request to return.
const closeGrace = 2 * time.Second

// =============================================================================
// SESSION
// =============================================================================

// Session is one interactive run's state.
type Session struct {
	id        string
	startTime time.Time

	cfg    *config.Config
	nav    *nav.Machine
	chat   *chat.Session
	logger *slog.Logger

	mu           sync.Mutex
	lastActivity time.Time
	closed       bool
}

// New creates a session starting on the landing page with cfg's default settings.
func New(cfg *config.Config, gen llm.Generator, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()
	logger = logger.With("session", id[:8])
	now := time.Now()

	s := &Session{
		id:           id,
		startTime:    now,
		lastActivity: now,
		cfg:          cfg,
		nav:          nav.NewMachine(cfg.Defaults),
		chat:         chat.NewSession(gen, logger.With("component", "chat")),
		logger:       logger,
	}
	s.nav.Subscribe(func(from, to nav.Page) {
		s.logger.Debug("page change", "from", from.String(), "to", to.String())
	})
	s.logger.Info("session started", "model", s.nav.Settings().Model)
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Config returns the configuration the session was created with.
func (s *Session) Config() *config.Config { return s.cfg }

// Nav returns the navigation machine.
func (s *Session) Nav() *nav.Machine { return s.nav }

// Chat returns the chat session.
func (s *Session) Chat() *chat.Session { return s.chat }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Duration returns how long the session has been open.
func (s *Session) Duration() time.Duration {
	return time.Since(s.startTime)
}

// RecordActivity marks the session as active now.
func (s *Session) RecordActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// IdleTime returns the time since the last recorded activity.
func (s *Session) IdleTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

// =============================================================================
// CHAT HELPERS
// =============================================================================

func (s *Session) checkSendable() error {
	s.mu.Lock()
	closed := s.closed
	s.lastActivity = time.Now()
	s.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if s.nav.Page() != nav.PageChat {
		return ErrNotOnChatPage
	}
	return nil
}

// Send submits text with the current settings and waits for the reply.
func (s *Session) Send(ctx context.Context, text string) (model.Message, error) {
	if err := s.checkSendable(); err != nil {
		return model.Message{}, err
	}
	return s.chat.Submit(ctx, text, s.nav.Settings())
}

// StartSend submits text with the current settings without waiting.
func (s *Session) StartSend(ctx context.Context, text string) (*tasks.Task, error) {
	if err := s.checkSendable(); err != nil {
		return nil, err
	}
	return s.chat.Start(ctx, text, s.nav.Settings())
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Close cancels any outstanding request and discards the session state.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if task := s.chat.Current(); task != nil && s.chat.Cancel() {
		select {
		case <-task.Done():
		case <-time.After(closeGrace):
			s.logger.Warn("request still unwinding at close", "task", task.ID)
		}
	}
	s.logger.Info("session ended",
		"duration", FormatDuration(s.Duration()),
		"messages", s.chat.Transcript().Len())
	s.chat.Clear()
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a snapshot for display.
type Status struct {
	SessionID string
	Page      nav.Page
	Settings  model.Settings
	Messages  int
	Pending   bool
	Duration  time.Duration
	Idle      time.Duration
}

// GetStatus returns a snapshot of the session.
func (s *Session) GetStatus() Status {
	return Status{
		SessionID: s.id,
		Page:      s.nav.Page(),
		Settings:  s.nav.Settings(),
		Messages:  s.chat.Transcript().Len(),
		Pending:   s.chat.Pending(),
		Duration:  s.Duration(),
		Idle:      s.IdleTime(),
	}
}

// FormatDuration formats a duration as "1h02m", "3m05s" or "12s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
