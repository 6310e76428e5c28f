// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/groqchat/internal/chat"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/tasks"
)

// GenerationDoneMsg reports the end of a background answer.
type GenerationDoneMsg struct {
	Task    *tasks.Task
	Message model.Message
	Err     error
}

// noticeExpiredMsg clears a transient notice if it is still the one shown.
type noticeExpiredMsg struct {
	seq int
}

// awaitAnswer waits for task on a goroutine managed by Bubble Tea.
func awaitAnswer(c *chat.Session, task *tasks.Task) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.Await(task)
		return GenerationDoneMsg{Task: task, Message: msg, Err: err}
	}
}

const noticeTTL = 4 * time.Second

func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
