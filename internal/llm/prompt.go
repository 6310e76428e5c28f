// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the client for the hosted chat-completions API.
package llm

import (
	"github.com/cloudwego/eino/schema"
)

const (
	// SystemPrompt is the fixed instruction sent with every request.
	SystemPrompt = "You are a helpful assistant. Answer clearly, politely, and accurately."

	// QuestionPrefix precedes the user's text in the user turn.
	QuestionPrefix = "Question: "
)

// Request is a single question plus the settings to answer it with.
type Request struct {
	// System overrides SystemPrompt when non-empty
	System string

	// Question is the user's latest message, sent verbatim after QuestionPrefix
	Question string

	Model       string
	Temperature float64
	MaxTokens   int
}

// BuildMessages returns the two turns sent for req: system instruction, then question.
func BuildMessages(req Request) []*schema.Message {
	system := req.System
	if system == "" {
		system = SystemPrompt
	}
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(QuestionPrefix + req.Question),
	}
}
