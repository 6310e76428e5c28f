// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the groqchat TUI.
//
// All colors use Lip Gloss AdaptiveColor so the same palette works on light
// and dark terminals. Theme groups the styles used by each page.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	header := theme.HeaderTitle.Render("Groq Q&A")
//	errLine := styles.RenderError("rate limit exceeded")
//
// Status helpers always prefix an ASCII indicator ([OK], [X], [!], [i]) so
// states stay distinguishable without color.
package styles
