// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger writes structured logs to a file so the TUI's screen stays clean.
//
// There is no package-level logger: the CLI opens one at startup and hands
// it to the session, which derives component and session-scoped children.
//
//	log, err := logger.Open(logger.Options{Path: path, Level: "info"})
//	defer log.Close()
//	llmLog := log.WithComponent("llm")
package logger
