// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the CLI and the TUI.
package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWidth truncates a string to a maximum display width, appending "..."
// when something was cut. Double-width characters count as 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// Wrap breaks text into lines no wider than width, splitting on spaces.
// Existing newlines and each line's leading indentation are kept. Lines inside
// ``` fences are left alone. Words longer than width are placed on their own line.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	inFence := false
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out.WriteString(line)
			continue
		}
		if inFence || runewidth.StringWidth(line) <= width {
			out.WriteString(line)
			continue
		}

		indent := line[:len(line)-len(trimmed)]
		out.WriteString(indent)
		lineWidth := runewidth.StringWidth(indent)
		for j, word := range strings.Fields(trimmed) {
			w := runewidth.StringWidth(word)
			if j > 0 {
				if lineWidth+1+w > width {
					out.WriteByte('\n')
					out.WriteString(indent)
					lineWidth = runewidth.StringWidth(indent)
				} else {
					out.WriteByte(' ')
					lineWidth++
				}
			}
			out.WriteString(word)
			lineWidth += w
		}
	}
	return out.String()
}
