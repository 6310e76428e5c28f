// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// SLIDER
// =============================================================================

// Slider is a stepped numeric control over [Min, Max].
// The bar is a bubbles progress bar; only its static ViewAs rendering is used.
type Slider struct {
	Label  string
	Min    float64
	Max    float64
	Step   float64
	Format func(float64) string

	value float64
	bar   progress.Model
	theme *styles.Theme
}

// NewSlider creates a slider. value is snapped onto the step grid.
func NewSlider(theme *styles.Theme, label string, min, max, step, value float64) Slider {
	s := Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: func(v float64) string { return fmt.Sprintf("%g", v) },
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(24)),
		theme:  theme,
	}
	s.SetValue(value)
	return s
}

// NewTemperatureSlider creates the 0.0 to 1.0 temperature control.
func NewTemperatureSlider(theme *styles.Theme, value float64) Slider {
	s := NewSlider(theme, "Temperature", model.MinTemperature, model.MaxTemperature, model.TemperatureStep, value)
	s.Format = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	return s
}

// NewMaxTokensSlider creates the 64 to 2048 max tokens control.
func NewMaxTokensSlider(theme *styles.Theme, value int) Slider {
	s := NewSlider(theme, "Max tokens", model.MinMaxTokens, model.MaxMaxTokens, model.MaxTokensStep, float64(value))
	s.Format = func(v float64) string { return fmt.Sprintf("%d", int(math.Round(v))) }
	return s
}

// Value returns the current value.
func (s Slider) Value() float64 {
	return s.value
}

// IntValue returns the current value rounded to an int.
func (s Slider) IntValue() int {
	return int(math.Round(s.value))
}

// SetValue snaps v onto the step grid and clamps it to the range.
func (s *Slider) SetValue(v float64) {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		// Two decimals is enough precision for every slider in the app
		v = math.Round(v*100) / 100
	}
	s.value = math.Max(s.Min, math.Min(s.Max, v))
}

// Increment moves one step up.
func (s *Slider) Increment() {
	s.SetValue(s.value + s.Step)
}

// Decrement moves one step down.
func (s *Slider) Decrement() {
	s.SetValue(s.value - s.Step)
}

// SetWidth sets the bar width.
func (s *Slider) SetWidth(width int) {
	if width < 8 {
		width = 8
	}
	s.bar.Width = width
}

// Percent returns the position of the value within the range.
func (s Slider) Percent() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.value - s.Min) / (s.Max - s.Min)
}

// View renders "Label  [bar] value".
func (s Slider) View(focused bool) string {
	label := s.theme.Label.Render(s.Label)
	if focused {
		label = s.theme.LabelFocused.Render(s.Label)
	}
	return label + " " + s.bar.ViewAs(s.Percent()) + " " + s.theme.Value.Render(s.Format(s.value))
}

func formatTemperature(v float64) string {
	return fmt.Sprintf("temp %.2f", v)
}

func formatTokens(v int) string {
	return fmt.Sprintf("%d tokens", v)
}
