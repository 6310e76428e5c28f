// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FAKE CHAT MODEL
// =============================================================================

type fakeChatModel struct {
	GenerateFunc func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return f.GenerateFunc(ctx, input, opts...)
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(Request{Question: "What is Go?"})

	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, SystemPrompt, msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "Question: What is Go?", msgs[1].Content)
}

func TestClient_GeneratePassesOptions(t *testing.T) {
	var gotOpts *model.Options
	fake := &fakeChatModel{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			gotOpts = model.GetCommonOptions(nil, opts...)
			return schema.AssistantMessage("  Go is a language.  ", nil), nil
		},
	}
	client := newClient(fake, ClientConfig{DefaultModel: "llama-3.1-8b-instant"})

	answer, err := client.Generate(context.Background(), Request{
		Question:    "What is Go?",
		Model:       "gemma2-9b-it",
		Temperature: 0.2,
		MaxTokens:   256,
	})
	require.NoError(t, err)
	assert.Equal(t, "  Go is a language.  ", answer, "answer is returned verbatim")

	require.NotNil(t, gotOpts)
	require.NotNil(t, gotOpts.Model)
	assert.Equal(t, "gemma2-9b-it", *gotOpts.Model)
	require.NotNil(t, gotOpts.Temperature)
	assert.InDelta(t, 0.2, float64(*gotOpts.Temperature), 1e-6)
	require.NotNil(t, gotOpts.MaxTokens)
	assert.Equal(t, 256, *gotOpts.MaxTokens)
}

func TestClient_GenerateClassifiesErrors(t *testing.T) {
	fake := &fakeChatModel{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			return nil, errors.New("error, status code: 401, status: 401 Unauthorized, message: Invalid API Key")
		},
	}
	client := newClient(fake, ClientConfig{})

	_, err := client.Generate(context.Background(), Request{Question: "hi"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindAuth, genErr.Kind)
}

func TestClient_GenerateKeepsContentVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"indented code block", "    indented code\n"},
		{"empty", ""},
		{"whitespace only", "   \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeChatModel{
				GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
					return schema.AssistantMessage(tt.content, nil), nil
				},
			}
			client := newClient(fake, ClientConfig{})

			answer, err := client.Generate(context.Background(), Request{Question: "hi"})
			require.NoError(t, err)
			assert.Equal(t, tt.content, answer)
		})
	}
}

func TestClient_GenerateNilMessage(t *testing.T) {
	fake := &fakeChatModel{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			return nil, nil
		},
	}
	client := newClient(fake, ClientConfig{})

	_, err := client.Generate(context.Background(), Request{Question: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_CanceledBeforeSend(t *testing.T) {
	called := false
	fake := &fakeChatModel{
		GenerateFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			called = true
			return schema.AssistantMessage("x", nil), nil
		},
	}
	client := newClient(fake, ClientConfig{RequestsPerMinute: 1, Burst: 1})
	ctx, cancel := context.WithCancel(context.Background())

	_, err := client.Generate(ctx, Request{Question: "first"})
	require.NoError(t, err)

	called = false
	cancel()
	_, err = client.Generate(ctx, Request{Question: "second"})
	assert.ErrorIs(t, err, ErrCanceled)
	assert.False(t, called, "request must not be sent once the context is canceled")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{})
	assert.Error(t, err)
}

// =============================================================================
// HTTP ROUND TRIP
// =============================================================================

type recordedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	raw string
}

func newCompletionServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var rec recordedRequest
		_ = json.Unmarshal(raw, &rec)
		rec.raw = string(raw)

		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "path %s", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

const okBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"llama-3.1-8b-instant",
"choices":[{"index":0,"message":{"role":"assistant","content":"Hello from the model."},"finish_reason":"stop"}],
"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`

func TestClient_HTTPSendsOnlyLatestQuestion(t *testing.T) {
	srv, requests := newCompletionServer(t, http.StatusOK, okBody)

	client, err := NewClient(context.Background(), ClientConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL + "/openai/v1",
		DefaultModel: "llama-3.1-8b-instant",
	})
	require.NoError(t, err)

	for _, q := range []string{"first question", "second question"} {
		answer, err := client.Generate(context.Background(), Request{
			Question:    q,
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.7,
			MaxTokens:   512,
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello from the model.", answer)
	}

	require.Len(t, *requests, 2)
	second := (*requests)[1]
	assert.Equal(t, "llama-3.3-70b-versatile", second.Model)
	require.Len(t, second.Messages, 2)
	assert.Equal(t, "system", second.Messages[0].Role)
	assert.Equal(t, SystemPrompt, second.Messages[0].Content)
	assert.Equal(t, "user", second.Messages[1].Role)
	assert.Equal(t, "Question: second question", second.Messages[1].Content)
	assert.NotContains(t, second.raw, "first question")
}

func TestClient_HTTPErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{
			name:   "bad key",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`,
			kind:   KindAuth,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached for model","type":"tokens","code":"rate_limit_exceeded"}}`,
			kind:   KindRateLimit,
		},
		{
			name:   "unknown model",
			status: http.StatusNotFound,
			body:   `{"error":{"message":"The model does not exist or you do not have access to it.","type":"invalid_request_error","code":"model_not_found"}}`,
			kind:   KindInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newCompletionServer(t, tt.status, tt.body)
			client, err := NewClient(context.Background(), ClientConfig{
				APIKey:  "test-key",
				BaseURL: srv.URL,
			})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), Request{Question: "hi", Model: "llama-3.1-8b-instant"})
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.kind, genErr.Kind, "error: %v", err)
		})
	}
}
