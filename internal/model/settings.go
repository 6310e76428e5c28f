// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat settings and transcripts.
package model

import (
	"fmt"
	"math"
)

// =============================================================================
// SETTINGS BOUNDS
// =============================================================================

const (
	// MinTemperature is the lowest accepted sampling temperature
	MinTemperature = 0.0
	// MaxTemperature is the highest accepted sampling temperature
	MaxTemperature = 1.0
	// TemperatureStep is the granularity of the temperature slider
	TemperatureStep = 0.05

	// MinMaxTokens is the smallest accepted completion budget
	MinMaxTokens = 64
	// MaxMaxTokens is the largest accepted completion budget
	MaxMaxTokens = 2048
	// MaxTokensStep is the granularity of the max tokens slider
	MaxTokensStep = 64

	// DefaultModel is the model selected when a session starts
	DefaultModel = ModelLlama31Instant
	// DefaultTemperature is the temperature used when a session starts
	DefaultTemperature = 0.7
	// DefaultMaxTokens is the completion budget used when a session starts
	DefaultMaxTokens = 512
)

// =============================================================================
// SETTINGS TYPE
// =============================================================================

// Settings are the user-adjustable generation parameters.
type Settings struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// DefaultSettings returns the settings a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ValidationError describes a settings value outside its declared range.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

// Validate checks every field against its range. The first violation is returned.
func (s Settings) Validate() error {
	if !IsKnownModel(s.Model) {
		return &ValidationError{Field: "model", Value: s.Model, Message: "not one of the available models"}
	}
	if math.IsNaN(s.Temperature) || s.Temperature < MinTemperature || s.Temperature > MaxTemperature {
		return &ValidationError{
			Field:   "temperature",
			Value:   s.Temperature,
			Message: fmt.Sprintf("must be between %.1f and %.1f", MinTemperature, MaxTemperature),
		}
	}
	if s.MaxTokens < MinMaxTokens || s.MaxTokens > MaxMaxTokens {
		return &ValidationError{
			Field:   "max_tokens",
			Value:   s.MaxTokens,
			Message: fmt.Sprintf("must be between %d and %d", MinMaxTokens, MaxMaxTokens),
		}
	}
	return nil
}

// Clamp returns a copy of s brought into range and snapped to the slider steps.
// An unknown model is replaced by the default model.
func (s Settings) Clamp() Settings {
	out := s
	if !IsKnownModel(out.Model) {
		out.Model = DefaultModel
	}
	out.Temperature = SnapTemperature(out.Temperature)
	out.MaxTokens = SnapMaxTokens(out.MaxTokens)
	return out
}

// SnapTemperature clamps t to [0, 1] and rounds it to the nearest 0.05.
func SnapTemperature(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultTemperature
	}
	t = math.Max(MinTemperature, math.Min(MaxTemperature, t))
	steps := math.Round(t / TemperatureStep)
	// Round again to two places so 0.15000000000000002 prints as 0.15.
	return math.Round(steps*TemperatureStep*100) / 100
}

// SnapMaxTokens clamps n to [64, 2048] and rounds it to the nearest multiple of 64.
func SnapMaxTokens(n int) int {
	if n < MinMaxTokens {
		return MinMaxTokens
	}
	if n > MaxMaxTokens {
		return MaxMaxTokens
	}
	return int(math.Round(float64(n)/MaxTokensStep)) * MaxTokensStep
}

// String returns a compact description of the settings.
func (s Settings) String() string {
	return fmt.Sprintf("%s (temperature %.2f, max tokens %d)", s.Model, s.Temperature, s.MaxTokens)
}
