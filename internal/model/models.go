// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat settings and transcripts.
package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo contains information about a hosted model.
// This is used for model selection and display in the UI.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string

	// Name is the human-readable display name
	Name string

	// Provider is the organisation that trained the model
	Provider string

	// ContextWindow is the maximum context size in tokens
	ContextWindow int

	// Description is a brief explanation of the model's strengths
	Description string
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// Model identifiers accepted by the generation endpoint.
const (
	ModelLlama31Instant   = "llama-3.1-8b-instant"
	ModelLlama33Versatile = "llama-3.3-70b-versatile"
	ModelGemma2           = "gemma2-9b-it"
)

// catalog is the fixed, ordered set of selectable models.
var catalog = []ModelInfo{
	{
		ID:            ModelLlama31Instant,
		Name:          "Llama 3.1 8B Instant",
		Provider:      "Meta",
		ContextWindow: 131072,
		Description:   "Fast answers for everyday questions",
	},
	{
		ID:            ModelLlama33Versatile,
		Name:          "Llama 3.3 70B Versatile",
		Provider:      "Meta",
		ContextWindow: 131072,
		Description:   "Larger model for harder reasoning",
	},
	{
		ID:            ModelGemma2,
		Name:          "Gemma 2 9B",
		Provider:      "Google",
		ContextWindow: 8192,
		Description:   "Compact instruction-tuned model",
	},
}

// ModelIDs returns the identifiers of the selectable models.
func ModelIDs() []string {
	ids := make([]string, len(catalog))
	for i, m := range catalog {
		ids[i] = m.ID
	}
	return ids
}

// IsKnownModel reports whether id is in the catalog.
func IsKnownModel(id string) bool {
	_, ok := GetModelInfo(id)
	return ok
}

// GetModelInfo looks up a model by ID.
func GetModelInfo(id string) (ModelInfo, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// ContextString returns a short description of the context window, e.g. "128K ctx".
func (m ModelInfo) ContextString() string {
	if m.ContextWindow >= 1024 {
		return fmt.Sprintf("%dK ctx", m.ContextWindow/1024)
	}
	return fmt.Sprintf("%d ctx", m.ContextWindow)
}

// FormatModelList renders the catalog as an aligned list for CLI output.
func FormatModelList(current string) string {
	var sb strings.Builder
	for _, m := range catalog {
		marker := "  "
		if m.ID == current {
			marker = "* "
		}
		fmt.Fprintf(&sb, "%s%-26s %-9s %s\n", marker, m.ID, m.ContextString(), m.Description)
	}
	return sb.String()
}
