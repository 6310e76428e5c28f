// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groqchat/internal/chat"
	"github.com/jeranaias/groqchat/internal/config"
	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// SLIDER
// =============================================================================

func TestSlider_SnapsAndClamps(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"on grid", 0.7, 0.7},
		{"snaps up", 0.73, 0.75},
		{"snaps down", 0.71, 0.7},
		{"below range", -1, 0},
		{"above range", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTemperatureSlider(testTheme(), tt.value)
			assert.InDelta(t, tt.want, s.Value(), 1e-9)
		})
	}
}

func TestSlider_Steps(t *testing.T) {
	s := NewMaxTokensSlider(testTheme(), 512)
	s.Increment()
	assert.Equal(t, 576, s.IntValue())
	s.Decrement()
	s.Decrement()
	assert.Equal(t, 448, s.IntValue())

	s.SetValue(2048)
	s.Increment()
	assert.Equal(t, model.MaxMaxTokens, s.IntValue())

	s.SetValue(64)
	s.Decrement()
	assert.Equal(t, model.MinMaxTokens, s.IntValue())
}

func TestSlider_TemperatureStepsStayOnGrid(t *testing.T) {
	s := NewTemperatureSlider(testTheme(), 0)
	for i := 0; i < 20; i++ {
		s.Increment()
	}
	assert.InDelta(t, 1.0, s.Value(), 1e-9)
	assert.NoError(t, model.Settings{Model: model.DefaultModel, Temperature: s.Value(), MaxTokens: 512}.Validate())
}

func TestSlider_ViewShowsLabelAndValue(t *testing.T) {
	s := NewTemperatureSlider(testTheme(), 0.2)
	view := s.View(true)
	assert.Contains(t, view, "Temperature")
	assert.Contains(t, view, "0.20")
	assert.InDelta(t, 0.2, s.Percent(), 1e-9)
}

// =============================================================================
// SELECTOR
// =============================================================================

func TestSelector_Cycles(t *testing.T) {
	s := NewModelSelector(testTheme(), model.ModelGemma2)
	assert.Equal(t, model.ModelGemma2, s.Value())

	s.Next()
	assert.Equal(t, model.ModelIDs()[0], s.Value(), "Next wraps to the first model")

	s.Prev()
	assert.Equal(t, model.ModelGemma2, s.Value())
}

func TestSelector_UnknownSelectsFirst(t *testing.T) {
	s := NewModelSelector(testTheme(), "not-a-model")
	assert.Equal(t, model.ModelIDs()[0], s.Value())
	assert.False(t, s.Select("still-not-a-model"))
}

func TestSelector_Empty(t *testing.T) {
	s := NewSelector(testTheme(), "Empty", nil, "")
	s.Next()
	s.Prev()
	assert.Equal(t, "", s.Value())
}

// =============================================================================
// LANDING
// =============================================================================

func TestLanding_FocusWraps(t *testing.T) {
	l := NewLanding(testTheme())
	assert.Equal(t, LandingGetStarted, l.Focus)
	l.FocusNext()
	assert.Equal(t, LandingGoToChat, l.Focus)
	l.FocusNext()
	assert.Equal(t, LandingGetStarted, l.Focus)
	l.FocusPrev()
	assert.Equal(t, LandingGoToChat, l.Focus)
}

func TestLanding_View(t *testing.T) {
	l := NewLanding(testTheme())
	l.SetSize(100, 40)
	view := l.View()
	assert.Contains(t, view, "Groq-Powered Q&A Chatbot")
	assert.Contains(t, view, "Get Started")
	assert.Contains(t, view, "Go to Chat")
}

// =============================================================================
// HEADER AND SPINNER
// =============================================================================

func TestHeader_ShowsSettings(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(120)
	h.Subtitle = "Chat"
	h.ShowSettings = true
	h.Settings = model.Settings{Model: model.ModelGemma2, Temperature: 0.2, MaxTokens: 256}

	view := h.View()
	assert.Contains(t, view, "groqchat")
	assert.Contains(t, view, model.ModelGemma2)
	assert.Contains(t, view, "256 tokens")
}

func TestSpinner_Lifecycle(t *testing.T) {
	s := NewSpinner()
	assert.Empty(t, s.View())

	cmd := s.Start()
	require.NotNil(t, cmd)
	assert.True(t, s.IsActive())
	assert.Contains(t, s.View(), "Generating")

	s.Stop()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1.5s", formatElapsed(1500*time.Millisecond))
	assert.Equal(t, "1m05s", formatElapsed(65*time.Second))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		title    string
	}{
		{"auth", &llm.GenerationError{Kind: llm.KindAuth, Message: "bad key"}, CategoryAuth, "Invalid API Key"},
		{"rate limit wrapped", fmt.Errorf("send: %w", &llm.GenerationError{Kind: llm.KindRateLimit, Message: "slow down"}), CategoryRateLimit, "Rate Limited"},
		{"model", &llm.GenerationError{Kind: llm.KindInvalidModel, Message: "gone"}, CategoryModel, "Model Not Available"},
		{"canceled", &llm.GenerationError{Kind: llm.KindCanceled, Message: "canceled"}, CategoryCanceled, "Request Canceled"},
		{"busy", chat.ErrRequestInFlight, CategoryUnknown, "Busy"},
		{"unknown", errors.New("something odd"), CategoryUnknown, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CategorizeError(tt.err)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.title, d.Title)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestCategorizeError_Configuration(t *testing.T) {
	err := &config.ConfigurationError{Message: "cannot start", Cause: config.ErrMissingAPIKey, Hint: "set the key"}
	d := CategorizeError(err)
	assert.Equal(t, CategoryConfig, d.Category)
	assert.Contains(t, d.Message, "no API key configured")
	assert.Equal(t, []string{"set the key"}, d.Suggestions)
}

func TestCategorizeError_InvalidSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings model.Settings
		hint     string
	}{
		{"unknown model", model.Settings{Model: "llama3", Temperature: 0.7, MaxTokens: 512}, model.ModelGemma2},
		{"temperature", model.Settings{Model: model.DefaultModel, Temperature: 1.5, MaxTokens: 512}, "Temperature is 0.0 to 1.0"},
		{"max tokens", model.Settings{Model: model.DefaultModel, Temperature: 0.7, MaxTokens: 5}, "Max tokens is 64 to 2048"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			require.Error(t, err)

			d := CategorizeError(fmt.Errorf("invalid flag: %w", err))
			assert.Equal(t, CategoryConfig, d.Category)
			assert.Equal(t, "Invalid Settings", d.Title)
			require.Len(t, d.Suggestions, 1)
			assert.Contains(t, d.Suggestions[0], tt.hint)
		})
	}
}

func TestCategorizeError_Nil(t *testing.T) {
	d := CategorizeError(nil)
	assert.Equal(t, CategoryUnknown, d.Category)
}

func TestErrorDisplay_View(t *testing.T) {
	d := CategorizeError(&llm.GenerationError{Kind: llm.KindAuth, Message: "invalid api key"})
	view := d.View(testTheme(), 60)
	assert.Contains(t, view, "[X]")
	assert.Contains(t, view, "Invalid API Key")
	assert.True(t, strings.Contains(view, "set-key"))
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdown_Render(t *testing.T) {
	md, err := NewMarkdown("dark", 60)
	require.NoError(t, err)
	assert.Equal(t, 60, md.Width())

	out := md.Render("**bold** answer")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
}

func TestMarkdown_NilIsPlain(t *testing.T) {
	var md *Markdown
	assert.Equal(t, "**raw**", md.Render("**raw**"))
	assert.Equal(t, 0, md.Width())
}
