// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the groqchat command line.
//
// # Commands
//
//   - groqchat: interactive chat, full screen TUI on a terminal, line REPL otherwise
//   - groqchat ask "question": one answer printed to stdout
//   - groqchat config show|init|path|set-key|delete-key: configuration management
//
// # Usage
//
//	os.Exit(cli.Execute(version))
//
// A missing or unusable API key is a *config.ConfigurationError; Execute
// prints it with its hint and exits 1 before any UI starts.
package cli
