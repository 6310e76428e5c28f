// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the chat session: the transcript and the single
// "submit a question, append the answer" operation.
//
// Only the latest question is sent to the generator; the transcript is kept
// for display. At most one request may be outstanding per session.
//
// # Usage
//
// Synchronous, e.g. from the line-mode REPL:
//
//	s := chat.NewSession(generator, logger)
//	reply, err := s.Submit(ctx, "hello", settings)
//
// Asynchronous, e.g. from a Bubble Tea command:
//
//	task, err := s.Start(ctx, "hello", settings)
//	// show a spinner, then:
//	reply, err := s.Await(task)
package chat
