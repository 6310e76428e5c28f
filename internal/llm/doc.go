// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the client for the hosted chat-completions API.
//
// This package turns a single question plus generation settings into one
// request against an OpenAI-compatible endpoint (Groq by default) and returns
// the plain-text answer. Every request carries exactly two turns: the fixed
// system instruction and the user's latest question. Earlier transcript turns
// are never sent.
//
// # Key Types
//
//   - Generator: Interface implemented by anything that can answer a Request
//   - Request: Question plus model, temperature and max tokens
//   - Client: Generator backed by eino's OpenAI chat model
//   - GenerationError: Failure with a Kind (auth, rate limit, network...)
//
// # Usage
//
//	client, err := llm.NewClient(ctx, llm.ClientConfig{
//	    APIKey:  key,
//	    BaseURL: llm.DefaultBaseURL,
//	})
//	answer, err := client.Generate(ctx, llm.Request{
//	    Question:    "What is Go?",
//	    Model:       "llama-3.1-8b-instant",
//	    Temperature: 0.7,
//	    MaxTokens:   512,
//	})
//	var genErr *llm.GenerationError
//	if errors.As(err, &genErr) && genErr.Kind == llm.KindRateLimit {
//	    // show inline, user may try again
//	}
//
// Requests are paced by a token-bucket limiter and are never retried.
package llm
