// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat settings and transcripts.
package model

import (
	"errors"
	"sync"
	"testing"
)

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		wantField string
	}{
		{"defaults", DefaultSettings(), ""},
		{"lower bounds", Settings{Model: ModelGemma2, Temperature: 0, MaxTokens: 64}, ""},
		{"upper bounds", Settings{Model: ModelLlama33Versatile, Temperature: 1, MaxTokens: 2048}, ""},
		{"unknown model", Settings{Model: "gpt-4o", Temperature: 0.5, MaxTokens: 512}, "model"},
		{"empty model", Settings{Temperature: 0.5, MaxTokens: 512}, "model"},
		{"temperature too high", Settings{Model: ModelGemma2, Temperature: 1.5, MaxTokens: 512}, "temperature"},
		{"temperature negative", Settings{Model: ModelGemma2, Temperature: -0.1, MaxTokens: 512}, "temperature"},
		{"max tokens too low", Settings{Model: ModelGemma2, Temperature: 0.5, MaxTokens: 10}, "max_tokens"},
		{"max tokens too high", Settings{Model: ModelGemma2, Temperature: 0.5, MaxTokens: 4096}, "max_tokens"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.settings.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestSettings_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "out of range values",
			in:   Settings{Model: ModelGemma2, Temperature: 1.5, MaxTokens: 10},
			want: Settings{Model: ModelGemma2, Temperature: 1.0, MaxTokens: 64},
		},
		{
			name: "off-grid values snap",
			in:   Settings{Model: ModelLlama31Instant, Temperature: 0.33, MaxTokens: 300},
			want: Settings{Model: ModelLlama31Instant, Temperature: 0.35, MaxTokens: 320},
		},
		{
			name: "unknown model falls back",
			in:   Settings{Model: "mystery", Temperature: 0.2, MaxTokens: 256},
			want: Settings{Model: DefaultModel, Temperature: 0.2, MaxTokens: 256},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Clamp()
			if got != tc.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tc.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("clamped settings failed validation: %v", err)
			}
		})
	}
}

func TestSnapTemperature(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.33, 0.35},
		{0.7, 0.7},
		{-1, 0},
		{1.7, 1},
		{0.1 + 0.05, 0.15},
	}
	for _, tt := range tests {
		if got := SnapTemperature(tt.in); got != tt.want {
			t.Errorf("SnapTemperature(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapMaxTokens(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{300, 320},
		{512, 512},
		{10, 64},
		{5000, 2048},
	}
	for _, tt := range tests {
		if got := SnapMaxTokens(tt.in); got != tt.want {
			t.Errorf("SnapMaxTokens(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// MODEL CATALOG TESTS
// =============================================================================

func TestModels_Catalog(t *testing.T) {
	ids := ModelIDs()
	want := []string{"llama-3.1-8b-instant", "llama-3.3-70b-versatile", "gemma2-9b-it"}
	if len(ids) != len(want) {
		t.Fatalf("ModelIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ModelIDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if IsKnownModel("llama3") {
		t.Error("IsKnownModel(llama3) = true, want false")
	}
}

func TestModels_ReturnsCopy(t *testing.T) {
	ids := ModelIDs()
	ids[0] = "changed"
	if ModelIDs()[0] != ModelLlama31Instant {
		t.Error("ModelIDs() exposed the internal catalog")
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("hello"))
	tr.Append(NewAssistantMessage("hi"))
	tr.Append(NewUserMessage("bye"))

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len = %d, want 3", len(msgs))
	}
	wantRoles := []Role{RoleUser, RoleAssistant, RoleUser}
	wantContent := []string{"hello", "hi", "bye"}
	for i, m := range msgs {
		if m.Role() != wantRoles[i] || m.Content() != wantContent[i] {
			t.Errorf("msgs[%d] = {%s %q}, want {%s %q}", i, m.Role(), m.Content(), wantRoles[i], wantContent[i])
		}
	}
	if last, ok := tr.Last(); !ok || last.Content() != "bye" {
		t.Errorf("Last() = %q, %v; want bye", last.Content(), ok)
	}
}

func TestTranscript_Clear(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		tr := NewTranscript()
		for i := 0; i < n; i++ {
			tr.Append(NewUserMessage("q"))
		}
		tr.Clear()
		if tr.Len() != 0 {
			t.Errorf("after Clear with %d messages, Len = %d", n, tr.Len())
		}
		if _, ok := tr.Last(); ok {
			t.Error("Last() returned a message after Clear")
		}
	}
}

func TestTranscript_MessagesIsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("one"))
	msgs := tr.Messages()
	msgs[0] = NewAssistantMessage("tampered")

	last, _ := tr.Last()
	if last.Content() != "one" {
		t.Errorf("transcript modified through Messages(): %q", last.Content())
	}
}

func TestTranscript_ConcurrentAppend(t *testing.T) {
	tr := NewTranscript()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(NewUserMessage("x"))
		}()
	}
	wg.Wait()
	if tr.Len() != 50 {
		t.Errorf("Len = %d, want 50", tr.Len())
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	m := NewUserMessage("line one\nline two")
	if got := m.Preview(0); got != "line one line two" {
		t.Errorf("Preview(0) = %q", got)
	}
	if got := m.Preview(8); got != "line ..." {
		t.Errorf("Preview(8) = %q", got)
	}
	if m.ID() == "" || m.IsZero() {
		t.Error("new message has no ID")
	}
	if m.Role().DisplayName() != "You" {
		t.Errorf("DisplayName = %q", m.Role().DisplayName())
	}
}
