// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav implements the page state machine: landing, setup and chat.
//
// Transitions are plain functions over (Page, Action) so they can be tested
// without any rendering. Machine wraps the current page together with the
// generation settings that the setup page and the chat controls edit.
//
//	landing --GetStarted--> setup --Continue--> chat
//	   ^  \---GoToChat-------------------------->  |
//	   |                                           |
//	   +------Back (setup) / Home (chat)-----------+
//
// Save keeps the setup page; OpenSetup moves from chat back to setup.
package nav
