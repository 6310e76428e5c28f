// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the active page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.Page() {
	case nav.PageLanding:
		return m.landing.View()
	case nav.PageSetup:
		return m.viewSetup()
	default:
		return m.viewChat()
	}
}

// =============================================================================
// SETUP PAGE
// =============================================================================

func (m Model) viewSetup() string {
	t := m.theme

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Orange).Render("Setup")
	intro := t.Hint.Render("Choose your model and generation settings. You can change these later anytime.")

	modelCard := t.SidebarTitle.Render("Model") + "\n" +
		m.setup.model.View(m.setupFocus == setupModel)

	controlsCard := t.SidebarTitle.Render("Generation controls") + "\n" +
		m.setup.temperature.View(m.setupFocus == setupTemperature) + "\n" +
		m.setup.maxTokens.View(m.setupFocus == setupMaxTokens)

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.button("Back", m.setupFocus == setupBack),
		m.button("Save Settings", m.setupFocus == setupSave),
		m.button("Continue to Chat", m.setupFocus == setupContinue),
	)

	parts := []string{title, intro, "", modelCard, "", controlsCard, "", buttons}
	if m.notice != "" {
		parts = append(parts, "", styles.RenderSuccess(m.notice))
	}
	if m.lastErr != nil {
		parts = append(parts, "", m.lastErr.View(t, clamp(m.width-10, 30, 80)))
	}

	box := t.PageBox.Render(strings.Join(parts, "\n"))
	page := lipgloss.JoinVertical(lipgloss.Left, box, m.help.View(m.keys))

	if lipgloss.Height(page) >= m.height {
		return page
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, page)
}

func (m Model) button(label string, focused bool) string {
	if focused {
		return m.theme.ButtonFocused.Render(label)
	}
	return m.theme.Button.Render(label)
}

// =============================================================================
// CHAT PAGE
// =============================================================================

func (m Model) viewChat() string {
	t := m.theme
	settings := m.sess.Nav().Settings()

	m.header.Subtitle = "Chat - ask anything, history stays in this session"
	m.header.Settings = settings
	m.header.ShowSettings = true

	var below []string
	if m.pending != nil {
		below = append(below, m.spinner.View())
	}
	if m.lastErr != nil {
		below = append(below, m.lastErr.View(t, m.chatWidth()-2))
	}
	if m.controlsFocus && !t.ShowSidebar() {
		below = append(below, m.viewControls(m.chatWidth()-4))
	}

	input := t.InputContainer.Width(m.chatWidth() - 2).Render(m.input.View())

	main := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{m.viewport.View()}, append(below, input)...)...)

	if t.ShowSidebar() {
		sidebar := t.Sidebar.Width(sidebarWidth - 2).Height(lipgloss.Height(main)).
			Render(m.viewControls(sidebarWidth - 4))
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), main, m.help.View(m.keys))
}

// viewControls renders the chat controls panel.
func (m Model) viewControls(width int) string {
	t := m.theme
	focused := func(i int) bool { return m.controlsFocus && m.controlIndex == i }

	lines := []string{
		t.SidebarTitle.Render("Chat Controls"),
		t.Hint.Width(width).Render("Adjust anytime. Changes apply to new messages."),
		"",
		m.controls.model.View(focused(controlModel)),
		m.controls.temperature.View(focused(controlTemperature)),
		m.controls.maxTokens.View(focused(controlMaxTokens)),
		"",
		m.button("Clear chat", focused(controlClear)),
		"",
		m.button("Home", focused(controlHome)) + m.button("Setup", focused(controlSetup)),
	}
	if !m.controlsFocus {
		lines = append(lines, "", t.Hint.Render("Tab to adjust"))
	}
	return strings.Join(lines, "\n")
}

// refreshTranscript re-renders the transcript into the viewport and scrolls
// to the newest message.
func (m *Model) refreshTranscript() {
	msgs := m.sess.Chat().Transcript().Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(m.theme.Hint.Render("No messages yet. Type a question below and press Enter."))
		return
	}

	width := m.chatWidth() - 4
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) renderMessage(msg model.Message, width int) string {
	t := m.theme
	stamp := " " + t.Hint.Render(msg.CreatedAt().Format("15:04"))
	if msg.Role() == model.RoleUser {
		return t.UserLabel.Render(msg.Role().DisplayName()) + stamp + "\n" +
			t.UserBubble.Width(width).Render(msg.Content())
	}

	label := t.AssistantLabel.Render(msg.Role().DisplayName()) + stamp
	body := msg.Content()
	if m.markdown != nil {
		return label + "\n" + t.AssistantBubble.Render(m.markdown.Render(body))
	}
	return label + "\n" + t.AssistantBubble.Width(width).Render(body)
}
