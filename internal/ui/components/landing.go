// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// LANDING PAGE
// =============================================================================

// SavedNotice is shown after settings are saved on the setup page.
const SavedNotice = "Saved! Now you can start chatting."

// Landing button indexes.
const (
	LandingGetStarted = iota
	LandingGoToChat
	landingButtonCount
)

// Landing renders the first page: hero text plus the two entry buttons.
type Landing struct {
	Focus   int
	Version string

	width  int
	height int
	theme  *styles.Theme
}

// NewLanding creates the landing page with Get Started focused.
func NewLanding(theme *styles.Theme) Landing {
	return Landing{Version: "dev", theme: theme}
}

// SetSize updates the dimensions.
func (l *Landing) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// FocusNext moves focus to the next button.
func (l *Landing) FocusNext() {
	l.Focus = (l.Focus + 1) % landingButtonCount
}

// FocusPrev moves focus to the previous button.
func (l *Landing) FocusPrev() {
	l.Focus = (l.Focus - 1 + landingButtonCount) % landingButtonCount
}

var landingBadges = []string{"Fast responses", "Runs in your terminal", "Key kept in your keyring", "Multiple models"}

var landingSteps = []string{
	"1) Start on this landing page",
	"2) Configure model + parameters",
	"3) Chat with a friendly UI",
}

// View renders the landing page.
func (l Landing) View() string {
	width := l.width
	if width == 0 {
		width = 80
	}
	height := l.height
	if height == 0 {
		height = 24
	}

	boxWidth := 72
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	inner := boxWidth - 8

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Orange).
		Render("Groq-Powered Q&A Chatbot")
	description := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(inner).
		Render("A clean, fast chatbot for the terminal, powered by the Groq API. " +
			"Choose a model, tune generation settings, and chat in a simple interface.")

	badgeStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Background(styles.Overlay).Padding(0, 1)
	badges := make([]string, 0, len(landingBadges))
	for _, b := range landingBadges {
		badges = append(badges, badgeStyle.Render(b))
	}
	badgeRow := lipgloss.NewStyle().Width(inner).Render(strings.Join(badges, " "))

	how := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan).Render("How it works") + "\n" +
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(strings.Join(landingSteps, "\n"))

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		l.button("Get Started", l.Focus == LandingGetStarted),
		l.button("Go to Chat", l.Focus == LandingGoToChat),
	)

	version := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("v" + l.Version)

	content := strings.Join([]string{title, "", description, "", badgeRow, "", how, "", buttons, "", version}, "\n")

	box := l.theme.PageBox.
		BorderForeground(styles.Purple).
		Width(boxWidth).
		Render(content)

	if lipgloss.Height(box) >= height {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (l Landing) button(label string, focused bool) string {
	if focused {
		return l.theme.ButtonFocused.Render(label)
	}
	return l.theme.Button.Render(label)
}
