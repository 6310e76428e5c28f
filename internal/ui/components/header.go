// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar drawn above every page.
type Header struct {
	Title    string
	Subtitle string
	Settings model.Settings
	Width    int

	// ShowSettings adds the active model and parameters on the right.
	ShowSettings bool

	theme *styles.Theme
}

// NewHeader creates a header with the application title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "groqchat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" {
		left += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	right := ""
	if h.ShowSettings {
		parts := []string{
			lipgloss.NewStyle().Foreground(styles.Purple).Render(h.Settings.Model),
			lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(formatTemperature(h.Settings.Temperature)),
			lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(formatTokens(h.Settings.MaxTokens)),
		}
		right = strings.Join(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" | "))
	}

	// Header has 1 cell of padding on each side
	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough room for both; the title wins
		return h.theme.Header.Width(width).Render(left)
	}

	return h.theme.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
