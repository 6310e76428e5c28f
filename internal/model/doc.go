// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat settings and transcripts.
//
// This package defines the core domain types used throughout the application
// for representing a chat session: the generation settings a user picks on the
// setup page, the messages exchanged on the chat page, and the ordered
// transcript that holds them.
//
// # Key Types
//
//   - Settings: Model, temperature and max tokens for new requests
//   - ModelInfo: Information about a hosted model in the fixed catalog
//   - Message: Immutable message with role, content and timestamp
//   - Transcript: Append-only, clearable list of messages
//   - Role: Message role enumeration (user, assistant)
//
// # Usage
//
// Validate settings coming from a form:
//
//	s := model.Settings{Model: "gemma2-9b-it", Temperature: 0.2, MaxTokens: 256}
//	if err := s.Validate(); err != nil {
//	    // *model.ValidationError
//	}
//
// Record an exchange:
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserMessage("hello"))
//	t.Append(model.NewAssistantMessage("Hi there!"))
package model
