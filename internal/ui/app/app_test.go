// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groqchat/internal/config"
	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/session"
	"github.com/jeranaias/groqchat/internal/ui/components"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, gen llm.Generator) (Model, *session.Session) {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Theme = "dark"
	cfg.UI.Markdown = false
	sess := session.New(cfg, gen, nil)
	t.Cleanup(sess.Close)

	m := New(sess, Options{Context: context.Background(), Version: "test"})
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, sess
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, keys ...tea.KeyType) Model {
	for _, k := range keys {
		m = update(m, tea.KeyMsg{Type: k})
	}
	return m
}

func typeText(m Model, text string) Model {
	return update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func repeat(k tea.KeyType, n int) []tea.KeyType {
	out := make([]tea.KeyType, n)
	for i := range out {
		out[i] = k
	}
	return out
}

// finish waits for the pending answer and feeds the completion back in.
func finish(t *testing.T, m Model, sess *session.Session) Model {
	t.Helper()
	require.NotNil(t, m.pending, "expected a pending request")
	msg := awaitAnswer(sess.Chat(), m.pending)()
	return update(m, msg)
}

func answer(text string) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return text, nil
	})
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestModel_StartsOnLanding(t *testing.T) {
	m, _ := newTestModel(t, answer("ok"))
	assert.Equal(t, nav.PageLanding, m.Page())
	assert.Contains(t, m.View(), "Get Started")
}

func TestModel_LandingGoToChat(t *testing.T) {
	m, sess := newTestModel(t, answer("ok"))
	m = press(m, tea.KeyTab, tea.KeyEnter)
	assert.Equal(t, nav.PageChat, m.Page())
	assert.Equal(t, model.DefaultSettings(), sess.Nav().Settings())
}

func TestModel_SetupSaveAndContinue(t *testing.T) {
	m, sess := newTestModel(t, answer("ok"))

	m = press(m, tea.KeyEnter)
	require.Equal(t, nav.PageSetup, m.Page())

	// model: llama-3.1 -> llama-3.3 -> gemma
	m = press(m, tea.KeyRight, tea.KeyRight)
	// temperature 0.70 -> 0.20
	m = press(m, tea.KeyTab)
	m = press(m, repeat(tea.KeyLeft, 10)...)
	// max tokens 512 -> 256
	m = press(m, tea.KeyTab)
	m = press(m, repeat(tea.KeyLeft, 4)...)

	// Tab to Save
	m = press(m, tea.KeyTab, tea.KeyTab, tea.KeyEnter)
	assert.Equal(t, nav.PageSetup, m.Page())
	assert.Equal(t, components.SavedNotice, m.notice)
	assert.Contains(t, m.View(), components.SavedNotice)

	want := model.Settings{Model: model.ModelGemma2, Temperature: 0.2, MaxTokens: 256}
	assert.Equal(t, want, sess.Nav().Settings())

	// Continue
	m = press(m, tea.KeyTab, tea.KeyEnter)
	assert.Equal(t, nav.PageChat, m.Page())
	assert.Equal(t, want, sess.Nav().Settings())
}

func TestModel_SetupBackDiscardsEdits(t *testing.T) {
	m, sess := newTestModel(t, answer("ok"))
	m = press(m, tea.KeyEnter, tea.KeyRight)
	m = press(m, tea.KeyEsc)
	assert.Equal(t, nav.PageLanding, m.Page())
	assert.Equal(t, model.DefaultSettings(), sess.Nav().Settings())
}

func TestModel_NoticeExpires(t *testing.T) {
	m, _ := newTestModel(t, answer("ok"))
	m = press(m, tea.KeyEnter)
	m = press(m, repeat(tea.KeyTab, setupSave)...)
	m = press(m, tea.KeyEnter)
	require.Equal(t, components.SavedNotice, m.notice)

	// A stale expiry does nothing
	m = update(m, noticeExpiredMsg{seq: m.noticeSeq - 1})
	assert.Equal(t, components.SavedNotice, m.notice)

	m = update(m, noticeExpiredMsg{seq: m.noticeSeq})
	assert.Empty(t, m.notice)
}

func TestModel_ChatHomeAndSetupKeys(t *testing.T) {
	m, _ := newTestModel(t, answer("ok"))
	m = press(m, tea.KeyTab, tea.KeyEnter)
	require.Equal(t, nav.PageChat, m.Page())

	m = press(m, tea.KeyCtrlT)
	assert.Equal(t, nav.PageSetup, m.Page())

	m = press(m, tea.KeyEsc)
	assert.Equal(t, nav.PageLanding, m.Page())

	m = press(m, tea.KeyTab, tea.KeyEnter, tea.KeyCtrlG)
	assert.Equal(t, nav.PageLanding, m.Page())
}

// =============================================================================
// CHAT
// =============================================================================

func goToChat(m Model) Model {
	return press(m, tea.KeyTab, tea.KeyEnter)
}

func TestModel_SendMessage(t *testing.T) {
	m, sess := newTestModel(t, answer("hi there"))
	m = goToChat(m)

	m = typeText(m, "hello")
	m = press(m, tea.KeyEnter)
	assert.NotNil(t, m.pending)
	assert.Contains(t, m.View(), "Generating")

	m = finish(t, m, sess)
	assert.Nil(t, m.pending)
	assert.Nil(t, m.lastErr)

	msgs := sess.Chat().Transcript().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content())
	assert.Equal(t, "hi there", msgs[1].Content())
	assert.Contains(t, m.View(), "hi there")
	assert.Contains(t, m.View(), msgs[1].CreatedAt().Format("15:04"), "messages are stamped with their time")
	assert.Empty(t, m.input.Value())
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m, sess := newTestModel(t, answer("unused"))
	m = goToChat(m)
	m = typeText(m, "   ")
	m = press(m, tea.KeyEnter)
	assert.Nil(t, m.pending)
	assert.Equal(t, 0, sess.Chat().Transcript().Len())
}

func TestModel_GenerationErrorShownInline(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "", &llm.GenerationError{Kind: llm.KindAuth, Message: "authentication failed", StatusCode: 401}
	})
	m, sess := newTestModel(t, gen)
	m = goToChat(m)
	m = typeText(m, "hello")
	m = press(m, tea.KeyEnter)
	m = finish(t, m, sess)

	require.NotNil(t, m.lastErr)
	assert.Equal(t, components.CategoryAuth, m.lastErr.Category)
	assert.Equal(t, 1, sess.Chat().Transcript().Len(), "user message stays, no assistant message")
	assert.Contains(t, m.View(), "Invalid API Key")
}

func TestModel_EscCancelsRequest(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	m, sess := newTestModel(t, gen)
	m = goToChat(m)
	m = typeText(m, "slow question")
	m = press(m, tea.KeyEnter)
	require.NotNil(t, m.pending)

	m = press(m, tea.KeyEsc)
	m = finish(t, m, sess)

	assert.Nil(t, m.pending)
	require.NotNil(t, m.lastErr)
	assert.Equal(t, components.CategoryCanceled, m.lastErr.Category)
	assert.Equal(t, 1, sess.Chat().Transcript().Len())
}

func TestModel_ControlsApplyToNextMessage(t *testing.T) {
	var got llm.Request
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return "ok", nil
	})
	m, sess := newTestModel(t, gen)
	m = goToChat(m)

	// Focus the controls, pick the next model, drop max tokens one step
	m = press(m, tea.KeyTab, tea.KeyRight)
	m = press(m, tea.KeyDown, tea.KeyDown, tea.KeyLeft)
	assert.Equal(t, model.ModelLlama33Versatile, sess.Nav().Settings().Model)
	assert.Equal(t, 448, sess.Nav().Settings().MaxTokens)
	assert.Equal(t, nav.PageChat, m.Page())

	// Back to the input and send
	m = press(m, tea.KeyTab)
	m = typeText(m, "question")
	m = press(m, tea.KeyEnter)
	m = finish(t, m, sess)

	assert.Equal(t, model.ModelLlama33Versatile, got.Model)
	assert.Equal(t, 448, got.MaxTokens)
	assert.Equal(t, "question", got.Question)
}

func TestModel_ClearChat(t *testing.T) {
	m, sess := newTestModel(t, answer("ok"))
	m = goToChat(m)
	m = typeText(m, "one")
	m = press(m, tea.KeyEnter)
	m = finish(t, m, sess)
	require.Equal(t, 2, sess.Chat().Transcript().Len())

	m = press(m, tea.KeyCtrlL)
	assert.Equal(t, 0, sess.Chat().Transcript().Len())
	assert.Contains(t, m.View(), "No messages yet")
}

func TestModel_StaleCompletionIgnored(t *testing.T) {
	release := make(chan struct{})
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		select {
		case <-release:
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	m, sess := newTestModel(t, gen)
	m = goToChat(m)
	m = typeText(m, "q")
	m = press(m, tea.KeyEnter)
	task := m.pending
	require.NotNil(t, task)

	m = press(m, tea.KeyCtrlL)
	close(release)
	msg := awaitAnswer(sess.Chat(), task)()
	m = update(m, msg)

	assert.Nil(t, m.lastErr, "a cleared request must not surface an error")
	assert.Equal(t, 0, sess.Chat().Transcript().Len())
}

func TestModel_QuitCancelsFirst(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, req llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	m, sess := newTestModel(t, gen)
	m = goToChat(m)
	m = typeText(m, "q")
	m = press(m, tea.KeyEnter)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	assert.Nil(t, cmd, "first ctrl+c only cancels")
	m = finish(t, m, sess)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeyMap_Help(t *testing.T) {
	k := DefaultKeyMap()
	assert.NotEmpty(t, k.ShortHelp())
	assert.Len(t, k.FullHelp(), 4)
}
