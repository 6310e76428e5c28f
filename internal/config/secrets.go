// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for groqchat.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

const (
	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv = "GROQ_API_KEY"

	// KeyringService and KeyringUser address the key in the system keyring.
	KeyringService = "groqchat"
	KeyringUser    = "groq"

	// noKeyringEnv disables keyring lookups, e.g. on headless CI machines.
	noKeyringEnv = "GROQCHAT_NO_KEYRING"
)

// =============================================================================
// CONFIGURATION ERROR
// =============================================================================

// ConfigurationError is a fatal startup problem: nothing can be served until it is fixed.
type ConfigurationError struct {
	Message string
	Hint    string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ErrMissingAPIKey is the cause attached when no API key could be found.
var ErrMissingAPIKey = errors.New("no API key configured")

// RequireAPIKey returns a *ConfigurationError if no usable API key was resolved.
func (c *Config) RequireAPIKey() error {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return &ConfigurationError{
			Message: "cannot start",
			Cause:   ErrMissingAPIKey,
			Hint: "Set " + APIKeyEnv + " in your environment or a .env file, " +
				"or run `groqchat config set-key`.",
		}
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return &ConfigurationError{
			Message: "cannot start",
			Cause:   errors.New("API key contains whitespace"),
			Hint:    "Check the value of " + APIKeyEnv + " for stray quotes or spaces.",
		}
	}
	return nil
}

// =============================================================================
// .ENV FILES
// =============================================================================

// LoadDotEnv loads .env from the working directory and then from the config
// directory. Variables already present in the environment are never overwritten,
// and missing files are skipped.
func LoadDotEnv() error {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return &ConfigurationError{Message: "failed to read " + path, Cause: err}
		}
	}
	return nil
}

// =============================================================================
// API KEY RESOLUTION
// =============================================================================

// ResolveAPIKey fills APIKey from GROQ_API_KEY, falling back to the keyring.
func (c *Config) ResolveAPIKey() {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		c.APIKey = key
		c.APIKeySource = "env"
		return
	}
	if keyringDisabled() {
		return
	}
	key, err := keyring.Get(KeyringService, KeyringUser)
	if err == nil && key != "" {
		c.APIKey = key
		c.APIKeySource = "keyring"
	}
}

// StoreAPIKey saves key in the system keyring.
func StoreAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the key from the system keyring. A missing key is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}

func keyringDisabled() bool {
	v := strings.ToLower(os.Getenv(noKeyringEnv))
	return v == "1" || v == "true"
}
