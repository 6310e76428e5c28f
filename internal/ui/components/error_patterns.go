// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groqchat/internal/config"
	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// ERROR CATEGORIES
// =============================================================================

// ErrorCategory represents the type of error for display.
type ErrorCategory string

const (
	CategoryAuth      ErrorCategory = "Auth"
	CategoryRateLimit ErrorCategory = "Rate limit"
	CategoryModel     ErrorCategory = "Model"
	CategoryNetwork   ErrorCategory = "Network"
	CategoryTimeout   ErrorCategory = "Timeout"
	CategoryCanceled  ErrorCategory = "Canceled"
	CategoryServer    ErrorCategory = "Server"
	CategoryConfig    ErrorCategory = "Config"
	CategoryUnknown   ErrorCategory = "Error"
)

// ErrorDisplay is an inline error box: a title, the raw message and hints.
type ErrorDisplay struct {
	Category    ErrorCategory
	Title       string
	Message     string
	Suggestions []string
	LogHint     string
}

// =============================================================================
// GENERATION ERROR HINTS
// =============================================================================

type errorHint struct {
	category    ErrorCategory
	title       string
	suggestions []string
	logHint     string
}

var kindHints = map[llm.ErrorKind]errorHint{
	llm.KindAuth: {
		category: CategoryAuth,
		title:    "Invalid API Key",
		suggestions: []string{
			"Check GROQ_API_KEY in your environment or .env file",
			"Store a new key: groqchat config set-key",
		},
		logHint: "Look for status=401 on the generate line",
	},
	llm.KindRateLimit: {
		category: CategoryRateLimit,
		title:    "Rate Limited",
		suggestions: []string{
			"Wait a few seconds and send again",
			"Lower api.requests_per_minute in config.toml",
		},
	},
	llm.KindInvalidModel: {
		category: CategoryModel,
		title:    "Model Not Available",
		suggestions: []string{
			"Pick another model in the Chat Controls",
			"The model may have been retired by the provider",
		},
	},
	llm.KindNetwork: {
		category: CategoryNetwork,
		title:    "Connection Error",
		suggestions: []string{
			"Check your internet connection",
			"Verify api.base_url or GROQ_BASE_URL",
		},
		logHint: "Look for 'dial tcp' or 'no such host'",
	},
	llm.KindTimeout: {
		category: CategoryTimeout,
		title:    "Request Timeout",
		suggestions: []string{
			"Try again, the service may be busy",
			"Use a smaller model or fewer max tokens",
		},
	},
	llm.KindCanceled: {
		category:    CategoryCanceled,
		title:       "Request Canceled",
		suggestions: []string{"Send the question again to retry"},
	},
	llm.KindServer: {
		category:    CategoryServer,
		title:       "Service Error",
		suggestions: []string{"The provider returned an error, try again shortly"},
	},
	llm.KindEmptyResponse: {
		category: CategoryModel,
		title:    "Empty Answer",
		suggestions: []string{
			"Rephrase the question",
			"Raise max tokens",
		},
	},
}

// =============================================================================
// KEYWORD FALLBACK
// =============================================================================

// ErrorPattern matches errors that did not come from the chat client.
type ErrorPattern struct {
	// Keywords to match in the error message (case-insensitive, any match triggers)
	Keywords    []string
	Category    ErrorCategory
	Title       string
	Suggestions []string
}

var fallbackPatterns = []ErrorPattern{
	{
		Keywords:    []string{"api key", "groq_api_key"},
		Category:    CategoryConfig,
		Title:       "Missing API Key",
		Suggestions: []string{"Set GROQ_API_KEY or run: groqchat config set-key"},
	},
	{
		Keywords:    []string{"already in progress"},
		Category:    CategoryUnknown,
		Title:       "Busy",
		Suggestions: []string{"Wait for the current answer or press esc to cancel it"},
	},
}

func matchPattern(msg string) (ErrorPattern, bool) {
	lower := strings.ToLower(msg)
	for _, p := range fallbackPatterns {
		for _, kw := range p.Keywords {
			if strings.Contains(lower, kw) {
				return p, true
			}
		}
	}
	return ErrorPattern{}, false
}

// CategorizeError builds the display for err.
// Generation failures are looked up by kind; anything else falls back to keywords.
func CategorizeError(err error) ErrorDisplay {
	if err == nil {
		return ErrorDisplay{Category: CategoryUnknown, Title: "Error", Message: "Unknown error"}
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		msg := cfgErr.Message
		if cfgErr.Cause != nil {
			msg += ": " + cfgErr.Cause.Error()
		}
		d := ErrorDisplay{Category: CategoryConfig, Title: "Configuration Error", Message: msg}
		if cfgErr.Hint != "" {
			d.Suggestions = []string{cfgErr.Hint}
		}
		return d
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return ErrorDisplay{
			Category:    CategoryConfig,
			Title:       "Invalid Settings",
			Message:     err.Error(),
			Suggestions: []string{settingHint(verr.Field)},
		}
	}

	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		if hint, ok := kindHints[genErr.Kind]; ok {
			return ErrorDisplay{
				Category:    hint.category,
				Title:       hint.title,
				Message:     genErr.Error(),
				Suggestions: hint.suggestions,
				LogHint:     hint.logHint,
			}
		}
	}

	if p, ok := matchPattern(err.Error()); ok {
		return ErrorDisplay{Category: p.Category, Title: p.Title, Message: err.Error(), Suggestions: p.Suggestions}
	}
	return ErrorDisplay{Category: CategoryUnknown, Title: "Error", Message: err.Error()}
}

// settingHint describes the accepted range of a settings field.
func settingHint(field string) string {
	switch field {
	case "model":
		return "Choose one of: " + strings.Join(model.ModelIDs(), ", ")
	case "temperature":
		return fmt.Sprintf("Temperature is %.1f to %.1f in steps of %.2f",
			model.MinTemperature, model.MaxTemperature, model.TemperatureStep)
	case "max_tokens":
		return fmt.Sprintf("Max tokens is %d to %d in steps of %d",
			model.MinMaxTokens, model.MaxMaxTokens, model.MaxTokensStep)
	default:
		return "Check the generation settings"
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the error box at width.
func (d ErrorDisplay) View(theme *styles.Theme, width int) string {
	if width < 30 {
		width = 30
	}
	inner := width - 4

	lines := []string{
		theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + d.Title),
		theme.ErrorMessage.Width(inner).Render(d.Message),
	}
	for _, s := range d.Suggestions {
		lines = append(lines, theme.ErrorSuggestion.Width(inner).Render("- "+s))
	}
	if d.LogHint != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.TextMuted).Width(inner).Render("logs: "+d.LogHint))
	}

	return theme.ErrorBox.Width(width - 2).Render(strings.Join(lines, "\n"))
}
