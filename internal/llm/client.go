// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the client for the hosted chat-completions API.
package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// Generator answers a single question.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f(ctx, req).
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// chatModel is the subset of eino's chat model used by Client.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	// APIKey is sent as a bearer token (required)
	APIKey string

	// BaseURL is the OpenAI-compatible API root (default: DefaultBaseURL)
	BaseURL string

	// DefaultModel is used when a Request names no model
	DefaultModel string

	// Timeout bounds a single request (default: 60s)
	Timeout time.Duration

	// RequestsPerMinute paces outbound calls; 0 disables pacing
	RequestsPerMinute int

	// Burst is the number of calls allowed back to back (default: 3)
	Burst int

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client

	// Logger receives one record per request; nil discards
	Logger *slog.Logger
}

func (c *ClientConfig) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Burst <= 0 {
		c.Burst = 3
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client implements Generator against an OpenAI-compatible chat-completions API.
// It is safe for concurrent use.
type Client struct {
	chat         chatModel
	limiter      *rate.Limiter
	defaultModel string
	logger       *slog.Logger
}

// NewClient creates a client. The API key is required.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm: API key is required")
	}
	cfg.fillDefaults()

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.DefaultModel,
		Timeout:    cfg.Timeout,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return newClient(cm, cfg), nil
}

func newClient(cm chatModel, cfg ClientConfig) *Client {
	cfg.fillDefaults()
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &Client{
		chat:         cm,
		limiter:      rate.NewLimiter(limit, cfg.Burst),
		defaultModel: cfg.DefaultModel,
		logger:       cfg.Logger.With("component", "llm"),
	}
}

// Generate sends req and returns the answer text.
// Every failure is returned as a *GenerationError.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		req.Model = c.defaultModel
	}

	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails fast when the deadline cannot accommodate the next token.
		if ctx.Err() == nil {
			return "", &GenerationError{Kind: KindRateLimit, Message: kindMessages[KindRateLimit], Cause: err}
		}
		return "", Classify(ctx.Err())
	}

	start := time.Now()
	opts := []model.Option{
		model.WithTemperature(float32(req.Temperature)),
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	out, err := c.chat.Generate(ctx, BuildMessages(req), opts...)
	latency := time.Since(start)
	if err != nil {
		genErr := Classify(err)
		c.logger.Warn("generation failed",
			"model", req.Model,
			"latency_ms", latency.Milliseconds(),
			"kind", genErr.Kind.String(),
			"status", genErr.StatusCode)
		return "", genErr
	}

	if out == nil {
		c.logger.Warn("generation returned no message", "model", req.Model)
		return "", ErrEmptyResponse
	}
	answer := out.Content
	if strings.TrimSpace(answer) == "" {
		c.logger.Warn("generation returned empty content", "model", req.Model)
	}

	c.logger.Info("generation complete",
		"model", req.Model,
		"latency_ms", latency.Milliseconds(),
		"answer_chars", len(answer))
	return answer, nil
}
