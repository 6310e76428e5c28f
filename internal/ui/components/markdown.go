// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant answers. A nil *Markdown renders plain text.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown creates a renderer wrapping at width.
// style is "dark", "light" or "auto".
func NewMarkdown(style string, width int) (*Markdown, error) {
	if width < 20 {
		width = 20
	}
	opt := glamour.WithAutoStyle()
	if style == "dark" || style == "light" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &Markdown{renderer: r, width: width}, nil
}

// Width returns the wrap width.
func (m *Markdown) Width() int {
	if m == nil {
		return 0
	}
	return m.width
}

// Render returns text as styled markdown, or text unchanged if rendering fails.
func (m *Markdown) Render(text string) string {
	if m == nil || m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
