// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jeranaias/groqchat/internal/model"
)

// =============================================================================
// PAGES AND ACTIONS
// =============================================================================

// Page identifies the active screen. The zero value is PageLanding.
type Page int

const (
	PageLanding Page = iota
	PageSetup
	PageChat
)

// Pages lists every page in display order.
var Pages = []Page{PageLanding, PageSetup, PageChat}

// String returns the lowercase page name.
func (p Page) String() string {
	switch p {
	case PageLanding:
		return "landing"
	case PageSetup:
		return "setup"
	case PageChat:
		return "chat"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// Valid reports whether p is one of the defined pages.
func (p Page) Valid() bool {
	return p >= PageLanding && p <= PageChat
}

// Action is a user-triggered navigation request.
type Action int

const (
	ActionGetStarted Action = iota // landing -> setup
	ActionGoToChat                 // landing -> chat
	ActionBack                     // setup -> landing
	ActionSave                     // setup -> setup
	ActionContinue                 // setup -> chat
	ActionHome                     // chat -> landing
	ActionOpenSetup                // chat -> setup
)

// Actions lists every action.
var Actions = []Action{
	ActionGetStarted, ActionGoToChat, ActionBack, ActionSave,
	ActionContinue, ActionHome, ActionOpenSetup,
}

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionGetStarted:
		return "get started"
	case ActionGoToChat:
		return "go to chat"
	case ActionBack:
		return "back"
	case ActionSave:
		return "save settings"
	case ActionContinue:
		return "continue"
	case ActionHome:
		return "home"
	case ActionOpenSetup:
		return "setup"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ErrInvalidTransition is returned when an action is not available on the current page.
var ErrInvalidTransition = errors.New("invalid transition")

type edge struct {
	from   Page
	action Action
}

var transitions = map[edge]Page{
	{PageLanding, ActionGetStarted}: PageSetup,
	{PageLanding, ActionGoToChat}:   PageChat,
	{PageSetup, ActionBack}:         PageLanding,
	{PageSetup, ActionSave}:         PageSetup,
	{PageSetup, ActionContinue}:     PageChat,
	{PageChat, ActionHome}:          PageLanding,
	{PageChat, ActionOpenSetup}:     PageSetup,
}

// Transition returns the page reached by applying action on page.
// It is total: an undefined pair returns the unchanged page (or PageLanding
// if page itself is invalid) together with ErrInvalidTransition.
func Transition(page Page, action Action) (Page, error) {
	if !page.Valid() {
		return PageLanding, fmt.Errorf("%w: unknown page %s", ErrInvalidTransition, page)
	}
	if next, ok := transitions[edge{page, action}]; ok {
		return next, nil
	}
	return page, fmt.Errorf("%w: %q is not available on the %s page", ErrInvalidTransition, action, page)
}

// Available returns the actions defined for page.
func Available(page Page) []Action {
	var out []Action
	for _, a := range Actions {
		if _, ok := transitions[edge{page, a}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// MACHINE
// =============================================================================

// Listener is called after every page change with the old and new page.
type Listener func(from, to Page)

// Machine holds the current page and the session's generation settings.
// It is safe for concurrent use.
type Machine struct {
	mu        sync.RWMutex
	page      Page
	settings  model.Settings
	listeners []Listener
}

// NewMachine starts on the landing page with the given settings.
// Invalid settings are clamped so the stored value always satisfies the ranges.
func NewMachine(settings model.Settings) *Machine {
	return &Machine{
		page:     PageLanding,
		settings: settings.Clamp(),
	}
}

// Page returns the current page.
func (m *Machine) Page() Page {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.page
}

// Settings returns the stored settings.
func (m *Machine) Settings() model.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Subscribe registers fn to be called after each page change.
func (m *Machine) Subscribe(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Apply performs action and returns the resulting page.
// Save and Continue need settings; use SaveSettings and Continue for those.
func (m *Machine) Apply(action Action) (Page, error) {
	if action == ActionSave || action == ActionContinue {
		return m.apply(action, m.Settings())
	}
	return m.apply(action, model.Settings{})
}

// apply validates settings for Save/Continue, then moves the page.
func (m *Machine) apply(action Action, s model.Settings) (Page, error) {
	m.mu.Lock()
	from := m.page
	next, err := Transition(from, action)
	if err != nil {
		m.mu.Unlock()
		return from, err
	}
	if action == ActionSave || action == ActionContinue {
		if err := s.Validate(); err != nil {
			m.mu.Unlock()
			return from, err
		}
		m.settings = s
	}
	m.page = next
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	if from != next {
		for _, fn := range listeners {
			fn(from, next)
		}
	}
	return next, nil
}

// GetStarted moves from landing to setup.
func (m *Machine) GetStarted() error {
	_, err := m.apply(ActionGetStarted, model.Settings{})
	return err
}

// GoToChat moves from landing to chat with the current settings.
func (m *Machine) GoToChat() error {
	_, err := m.apply(ActionGoToChat, model.Settings{})
	return err
}

// Back moves from setup to landing without saving.
func (m *Machine) Back() error {
	_, err := m.apply(ActionBack, model.Settings{})
	return err
}

// SaveSettings stores s and stays on setup. Invalid settings are rejected
// with a *model.ValidationError and nothing is stored.
func (m *Machine) SaveSettings(s model.Settings) error {
	_, err := m.apply(ActionSave, s)
	return err
}

// Continue stores s and moves from setup to chat.
func (m *Machine) Continue(s model.Settings) error {
	_, err := m.apply(ActionContinue, s)
	return err
}

// Home moves from chat to landing.
func (m *Machine) Home() error {
	_, err := m.apply(ActionHome, model.Settings{})
	return err
}

// OpenSetup moves from chat to setup.
func (m *Machine) OpenSetup() error {
	_, err := m.apply(ActionOpenSetup, model.Settings{})
	return err
}

// UpdateSettings replaces the settings from the chat controls without
// changing page. Changes apply to messages sent afterwards.
func (m *Machine) UpdateSettings(s model.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}
