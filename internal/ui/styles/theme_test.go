// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ForcedModes(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewTheme("light").IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width   int
		want    LayoutMode
		sidebar bool
	}{
		{40, LayoutNarrow, false},
		{80, LayoutMedium, false},
		{120, LayoutWide, true},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: layout = %v, want %v", tt.width, got, tt.want)
		}
		if theme.ShowSidebar() != tt.sidebar {
			t.Errorf("width %d: ShowSidebar = %v", tt.width, theme.ShowSidebar())
		}
	}
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	tests := []struct {
		render    func(string) string
		indicator string
	}{
		{RenderSuccess, "[OK]"},
		{RenderError, "[X]"},
		{RenderWarning, "[!]"},
		{RenderInfo, "[i]"},
	}
	for _, tt := range tests {
		out := tt.render("message")
		if !strings.Contains(out, tt.indicator) || !strings.Contains(out, "message") {
			t.Errorf("render output %q missing %q", out, tt.indicator)
		}
	}
}
