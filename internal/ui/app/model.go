// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/session"
	"github.com/jeranaias/groqchat/internal/tasks"
	"github.com/jeranaias/groqchat/internal/ui/components"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// FORM FIELDS
// =============================================================================

// Setup page fields in focus order.
const (
	setupModel = iota
	setupTemperature
	setupMaxTokens
	setupBack
	setupSave
	setupContinue
	setupFieldCount
)

// Chat controls in focus order.
const (
	controlModel = iota
	controlTemperature
	controlMaxTokens
	controlClear
	controlHome
	controlSetup
	controlCount
)

// settingsForm is the model selector plus the two sliders, shared by the
// setup page and the chat controls.
type settingsForm struct {
	model       components.Selector
	temperature components.Slider
	maxTokens   components.Slider
}

func newSettingsForm(theme *styles.Theme, s model.Settings) settingsForm {
	return settingsForm{
		model:       components.NewModelSelector(theme, s.Model),
		temperature: components.NewTemperatureSlider(theme, s.Temperature),
		maxTokens:   components.NewMaxTokensSlider(theme, s.MaxTokens),
	}
}

func (f settingsForm) settings() model.Settings {
	return model.Settings{
		Model:       f.model.Value(),
		Temperature: f.temperature.Value(),
		MaxTokens:   f.maxTokens.IntValue(),
	}
}

// adjust moves the field at index (0 model, 1 temperature, 2 max tokens) by delta steps.
func (f *settingsForm) adjust(index, delta int) bool {
	switch index {
	case 0:
		if delta > 0 {
			f.model.Next()
		} else {
			f.model.Prev()
		}
	case 1:
		if delta > 0 {
			f.temperature.Increment()
		} else {
			f.temperature.Decrement()
		}
	case 2:
		if delta > 0 {
			f.maxTokens.Increment()
		} else {
			f.maxTokens.Decrement()
		}
	default:
		return false
	}
	return true
}

func (f *settingsForm) setBarWidth(width int) {
	f.temperature.SetWidth(width)
	f.maxTokens.SetWidth(width)
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Options configure the application model.
type Options struct {
	// Context bounds every request started from the UI.
	Context context.Context
	Version string
}

// Model is the main Bubble Tea model for the application.
type Model struct {
	sess *session.Session
	ctx  context.Context

	// Theme and styling
	theme *styles.Theme
	keys  KeyMap
	help  help.Model

	// Dimensions
	width  int
	height int

	header  *components.Header
	landing components.Landing

	// Setup page
	setup      settingsForm
	setupFocus int
	notice     string
	noticeSeq  int

	// Chat page
	viewport      viewport.Model
	input         textinput.Model
	spinner       components.Spinner
	controls      settingsForm
	controlsFocus bool
	controlIndex  int
	markdown      *components.Markdown
	lastErr       *components.ErrorDisplay
	pending       *tasks.Task

	quitting bool
}

// New creates the application model over sess.
func New(sess *session.Session, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	uiCfg := sess.Config().UI
	theme := styles.NewTheme(uiCfg.Theme)

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	landing := components.NewLanding(theme)
	landing.Version = opts.Version

	settings := sess.Nav().Settings()

	m := Model{
		sess:     sess,
		ctx:      opts.Context,
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		header:   components.NewHeader(theme),
		landing:  landing,
		setup:    newSettingsForm(theme, settings),
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  components.NewSpinner(),
		controls: newSettingsForm(theme, settings),
	}
	m.resize(80, 24)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Page returns the active page.
func (m Model) Page() nav.Page {
	return m.sess.Nav().Page()
}

// resize lays out every page for a width x height terminal.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.landing.SetSize(width, height)
	m.help.Width = width

	m.setup.setBarWidth(clamp(width/3, 10, 40))
	m.controls.setBarWidth(sidebarWidth - 6)

	chatWidth := m.chatWidth()
	m.input.Width = chatWidth - 4

	// header (2) + input (2) + status/help (1) + spinner/error slack
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight

	if m.sess.Config().UI.Markdown && (m.markdown == nil || m.markdown.Width() != chatWidth-4) {
		style := m.sess.Config().UI.Theme
		if style != "light" && style != "dark" {
			style = "dark"
			if !m.theme.IsDark {
				style = "light"
			}
		}
		if md, err := components.NewMarkdown(style, chatWidth-4); err == nil {
			m.markdown = md
		}
	}
	m.refreshTranscript()
}

const sidebarWidth = 34

// chatWidth is the width left for the transcript.
func (m Model) chatWidth() int {
	if m.theme.ShowSidebar() {
		return m.width - sidebarWidth
	}
	return m.width
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
