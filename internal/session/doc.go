// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the per-run session context.
//
// A Session bundles everything one interactive run owns: the navigation
// machine (page plus settings), the chat session (transcript plus
// generator), the loaded configuration and a session-scoped logger. It is
// created at startup, passed explicitly to the UI or REPL, and closed on exit.
// Nothing is persisted when it ends.
//
// # Usage
//
//	sess := session.New(cfg, generator, log)
//	defer sess.Close()
//
//	sess.Nav().GoToChat()
//	reply, err := sess.Send(ctx, "hello")
package session
