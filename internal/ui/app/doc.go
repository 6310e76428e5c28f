// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model for groqchat.
//
// It renders whichever page the session's navigation machine is on and
// translates key presses into navigation actions, settings changes and chat
// requests. Answers are generated on a background task; the model is told
// about completion through a GenerationDoneMsg.
package app
