// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the client for the hosted chat-completions API.
package llm

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes generation failures for display.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindRateLimit
	KindInvalidModel
	KindNetwork
	KindTimeout
	KindCanceled
	KindServer
	KindEmptyResponse
)

// String returns a short lowercase name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindInvalidModel:
		return "invalid_model"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindServer:
		return "server"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// GenerationError is any failure from the chat-completions endpoint.
// Error() is meant to be shown to the user as-is.
type GenerationError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind, so errors.Is(err, llm.ErrCanceled) works
// for any canceled request regardless of its cause.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return t.Cause == nil && t.StatusCode == 0 && t.Kind == e.Kind && t.Message == kindMessages[t.Kind]
}

var kindMessages = map[ErrorKind]string{
	KindUnknown:       "generation failed",
	KindAuth:          "authentication failed",
	KindRateLimit:     "rate limit exceeded",
	KindInvalidModel:  "model not available",
	KindNetwork:       "network error",
	KindTimeout:       "request timed out",
	KindCanceled:      "request canceled",
	KindServer:        "service unavailable",
	KindEmptyResponse: "empty response from model",
}

// Sentinel errors for easy checking.
var (
	ErrCanceled      = &GenerationError{Kind: KindCanceled, Message: kindMessages[KindCanceled]}
	ErrEmptyResponse = &GenerationError{Kind: KindEmptyResponse, Message: kindMessages[KindEmptyResponse]}
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// Classify wraps err in a *GenerationError with the best matching kind.
// A nil error returns nil; an existing *GenerationError is returned unchanged.
func Classify(err error) *GenerationError {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	newErr := func(kind ErrorKind, status int) *GenerationError {
		return &GenerationError{Kind: kind, Message: kindMessages[kind], StatusCode: status, Cause: err}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return newErr(KindCanceled, 0)
	case errors.Is(err, context.DeadlineExceeded):
		return newErr(KindTimeout, 0)
	}

	msg := err.Error()
	if m := statusCodePattern.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		return newErr(kindForStatus(status, msg), status)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return newErr(KindTimeout, 0)
		}
		return newErr(KindNetwork, 0)
	}

	return newErr(kindForMessage(msg), 0)
}

// kindForStatus maps an HTTP status to a kind.
func kindForStatus(status int, msg string) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	case status == 404:
		return KindInvalidModel
	case status == 400 && mentionsModel(msg):
		return KindInvalidModel
	case status == 408 || status == 504:
		return KindTimeout
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

func mentionsModel(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "model") &&
		(strings.Contains(lower, "not exist") ||
			strings.Contains(lower, "not found") ||
			strings.Contains(lower, "decommissioned"))
}

// messagePatterns is a keyword fallback for errors that carry no status code.
var messagePatterns = []struct {
	kind     ErrorKind
	keywords []string
}{
	{KindAuth, []string{"invalid api key", "unauthorized", "authentication", "forbidden"}},
	{KindRateLimit, []string{"rate limit", "too many requests", "quota"}},
	{KindTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	{KindNetwork, []string{"connection refused", "no such host", "connection reset", "network is unreachable", "eof"}},
}

func kindForMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	if mentionsModel(lower) {
		return KindInvalidModel
	}
	for _, p := range messagePatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.kind
			}
		}
	}
	return KindUnknown
}
