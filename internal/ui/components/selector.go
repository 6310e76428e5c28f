// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// Selector cycles through a fixed list of options with left/right.
type Selector struct {
	Label   string
	options []string
	index   int
	theme   *styles.Theme
}

// NewSelector creates a selector with current preselected.
// An unknown current selects the first option.
func NewSelector(theme *styles.Theme, label string, options []string, current string) Selector {
	s := Selector{Label: label, options: options, theme: theme}
	s.Select(current)
	return s
}

// NewModelSelector creates the model picker over the known catalog.
func NewModelSelector(theme *styles.Theme, current string) Selector {
	return NewSelector(theme, "Model", model.ModelIDs(), current)
}

// Value returns the selected option, or "" when there are none.
func (s Selector) Value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.index]
}

// Select moves to option if present. It reports whether it was found.
func (s *Selector) Select(option string) bool {
	for i, o := range s.options {
		if o == option {
			s.index = i
			return true
		}
	}
	s.index = 0
	return false
}

// Next selects the following option, wrapping around.
func (s *Selector) Next() {
	if len(s.options) > 0 {
		s.index = (s.index + 1) % len(s.options)
	}
}

// Prev selects the previous option, wrapping around.
func (s *Selector) Prev() {
	if len(s.options) > 0 {
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	}
}

// View renders "Label  < value >".
func (s Selector) View(focused bool) string {
	label := s.theme.Label.Render(s.Label)
	arrows := lipgloss.NewStyle().Foreground(styles.TextMuted)
	if focused {
		label = s.theme.LabelFocused.Render(s.Label)
		arrows = arrows.Foreground(styles.Orange)
	}
	return label + " " + arrows.Render("<") + " " + s.theme.Value.Render(s.Value()) + " " + arrows.Render(">")
}
