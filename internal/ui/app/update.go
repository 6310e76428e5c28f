// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.sess.RecordActivity()
		return m.handleKeyPress(msg)

	case GenerationDoneMsg:
		return m.handleGenerationDone(msg)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and the like
	if m.Page() == nav.PageChat && !m.controlsFocus {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		// First C-c cancels a running request, the second quits
		if m.pending != nil {
			m.sess.Chat().Cancel()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.Page() {
	case nav.PageLanding:
		return m.updateLanding(msg)
	case nav.PageSetup:
		return m.updateSetup(msg)
	default:
		return m.updateChat(msg)
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// navigate runs a navigation step and prepares the page it lands on.
func (m Model) navigate(step func() error) (Model, tea.Cmd) {
	from := m.Page()
	if err := step(); err != nil {
		d := components.CategorizeError(err)
		m.lastErr = &d
		return m, nil
	}
	to := m.Page()
	if from == to {
		return m, nil
	}

	settings := m.sess.Nav().Settings()
	switch to {
	case nav.PageSetup:
		m.setup = newSettingsForm(m.theme, settings)
		m.setup.setBarWidth(clamp(m.width/3, 10, 40))
		m.setupFocus = setupModel
		m.notice = ""
	case nav.PageChat:
		m.controls = newSettingsForm(m.theme, settings)
		m.controls.setBarWidth(sidebarWidth - 6)
		m.controlsFocus = false
		m.lastErr = nil
		m.refreshTranscript()
		return m, m.input.Focus()
	case nav.PageLanding:
		m.landing.Focus = components.LandingGetStarted
	}
	return m, nil
}

func (m Model) setNotice(text string) (Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, expireNotice(m.noticeSeq)
}

// =============================================================================
// LANDING PAGE
// =============================================================================

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	machine := m.sess.Nav()
	switch {
	case key.Matches(msg, m.keys.Next, m.keys.Right, m.keys.Down):
		m.landing.FocusNext()
	case key.Matches(msg, m.keys.Prev, m.keys.Left, m.keys.Up):
		m.landing.FocusPrev()
	case key.Matches(msg, m.keys.Enter):
		if m.landing.Focus == components.LandingGoToChat {
			return m.navigate(machine.GoToChat)
		}
		return m.navigate(machine.GetStarted)
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// SETUP PAGE
// =============================================================================

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	machine := m.sess.Nav()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.navigate(machine.Back)
	case key.Matches(msg, m.keys.Next, m.keys.Down):
		m.setupFocus = (m.setupFocus + 1) % setupFieldCount
	case key.Matches(msg, m.keys.Prev, m.keys.Up):
		m.setupFocus = (m.setupFocus - 1 + setupFieldCount) % setupFieldCount
	case key.Matches(msg, m.keys.Left):
		m.setup.adjust(m.setupFocus, -1)
	case key.Matches(msg, m.keys.Right):
		m.setup.adjust(m.setupFocus, 1)
	case key.Matches(msg, m.keys.Enter):
		switch m.setupFocus {
		case setupBack:
			return m.navigate(machine.Back)
		case setupSave:
			if err := machine.SaveSettings(m.setup.settings()); err != nil {
				d := components.CategorizeError(err)
				m.lastErr = &d
				return m, nil
			}
			m.lastErr = nil
			m.controls = newSettingsForm(m.theme, machine.Settings())
			m.controls.setBarWidth(sidebarWidth - 6)
			return m.setNotice(components.SavedNotice)
		case setupContinue:
			s := m.setup.settings()
			return m.navigate(func() error { return machine.Continue(s) })
		default:
			// Enter on a field moves on, like a form
			m.setupFocus++
		}
	}
	return m, nil
}

// =============================================================================
// CHAT PAGE
// =============================================================================

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	machine := m.sess.Nav()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.pending != nil {
			m.sess.Chat().Cancel()
			return m, nil
		}
		if m.controlsFocus {
			m.controlsFocus = false
			return m, m.input.Focus()
		}
		m.lastErr = nil
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m.clearChat()
	case key.Matches(msg, m.keys.Home):
		return m.navigate(machine.Home)
	case key.Matches(msg, m.keys.Setup):
		return m.navigate(machine.OpenSetup)
	case key.Matches(msg, m.keys.Next, m.keys.Prev):
		m.controlsFocus = !m.controlsFocus
		if m.controlsFocus {
			m.input.Blur()
			return m, nil
		}
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.controlsFocus {
		return m.updateControls(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m.submit()
	}

	if m.pending != nil {
		// Input is disabled while an answer is generating
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateControls handles keys while the chat controls have focus.
// Settings changes apply immediately and affect the next message.
func (m Model) updateControls(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	machine := m.sess.Nav()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.controlIndex = (m.controlIndex + 1) % controlCount
	case key.Matches(msg, m.keys.Up):
		m.controlIndex = (m.controlIndex - 1 + controlCount) % controlCount
	case key.Matches(msg, m.keys.Left, m.keys.Right):
		delta := 1
		if key.Matches(msg, m.keys.Left) {
			delta = -1
		}
		if m.controls.adjust(m.controlIndex, delta) {
			if err := machine.UpdateSettings(m.controls.settings()); err != nil {
				d := components.CategorizeError(err)
				m.lastErr = &d
			}
		}
	case key.Matches(msg, m.keys.Enter):
		switch m.controlIndex {
		case controlClear:
			return m.clearChat()
		case controlHome:
			return m.navigate(machine.Home)
		case controlSetup:
			return m.navigate(machine.OpenSetup)
		}
	}
	return m, nil
}

func (m Model) clearChat() (Model, tea.Cmd) {
	m.sess.Chat().Clear()
	m.pending = nil
	m.spinner.Stop()
	m.lastErr = nil
	m.refreshTranscript()
	if m.controlsFocus {
		return m, nil
	}
	return m, m.input.Focus()
}

// submit sends the input line as a question.
func (m Model) submit() (Model, tea.Cmd) {
	if m.pending != nil {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	task, err := m.sess.StartSend(m.ctx, text)
	if err != nil {
		d := components.CategorizeError(err)
		m.lastErr = &d
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.lastErr = nil
	m.pending = task
	m.refreshTranscript()

	return m, tea.Batch(m.spinner.Start(), awaitAnswer(m.sess.Chat(), task))
}

// handleGenerationDone stops the spinner and shows the answer or the error.
func (m Model) handleGenerationDone(msg GenerationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Task != m.pending {
		// Cleared while running
		return m, nil
	}
	m.pending = nil
	m.spinner.Stop()

	if msg.Err != nil {
		d := components.CategorizeError(msg.Err)
		m.lastErr = &d
	}
	m.refreshTranscript()

	if m.Page() == nav.PageChat && !m.controlsFocus {
		return m, m.input.Focus()
	}
	return m, nil
}
