// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for groqchat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete groqchat configuration.
type Config struct {
	// API endpoint configuration
	API APIConfig `toml:"api"`

	// Defaults are the generation settings a new session starts with
	Defaults model.Settings `toml:"defaults"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`

	// APIKey is resolved from the environment or keyring, never from the file
	APIKey string `toml:"-"`

	// APIKeySource records where APIKey came from ("env", "keyring" or "")
	APIKeySource string `toml:"-"`

	// envErrs collects malformed environment overrides for Validate
	envErrs ValidateErrors
}

// APIConfig contains chat-completions endpoint configuration.
type APIConfig struct {
	// BaseURL is the OpenAI-compatible API root
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single generation request
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute paces outbound requests (0 = unlimited)
	RequestsPerMinute int `toml:"requests_per_minute"`
	// Burst is how many requests may go out back to back
	Burst int `toml:"burst"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme"`
	// Markdown renders assistant replies with glamour when true
	Markdown bool `toml:"markdown"`
	// WordWrap is the wrap width for plain output (0 = terminal width)
	WordWrap int `toml:"word_wrap"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Enabled turns the log file on
	Enabled bool `toml:"enabled"`
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level"`
	// File is the log path (empty = ~/.groqchat/groqchat.log)
	File string `toml:"file"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			TimeoutSecs:       60,
			RequestsPerMinute: 30,
			Burst:             3,
		},
		Defaults: model.DefaultSettings(),
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
		Log: LogConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = defaults.API.Burst
	}
	if cfg.Defaults.Model == "" {
		cfg.Defaults.Model = defaults.Defaults.Model
	}
	if cfg.Defaults.MaxTokens == 0 {
		cfg.Defaults.MaxTokens = defaults.Defaults.MaxTokens
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the groqchat configuration directory path.
// GROQCHAT_HOME overrides the default ~/.groqchat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("GROQCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".groqchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from ConfigPath() when path is empty.
// A missing file is not an error. The .env file and environment overrides are
// applied last and the result is validated. The API key is resolved but not
// required; call RequireAPIKey before talking to the API.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.ResolveAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg and fills missing values with defaults.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	fillDefaults(cfg)
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path, or to ConfigPath() when path is empty.
// The file is written atomically with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	buf.WriteString("# groqchat configuration file\n")
	buf.WriteString("# The API key is read from GROQ_API_KEY, .env or the system keyring.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported variables:
//   - GROQ_BASE_URL: overrides api.base_url
//   - GROQCHAT_MODEL: overrides defaults.model
//   - GROQCHAT_TEMPERATURE: overrides defaults.temperature
//   - GROQCHAT_MAX_TOKENS: overrides defaults.max_tokens
//   - GROQCHAT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	c.envErrs = nil

	if v := os.Getenv("GROQ_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GROQCHAT_MODEL"); v != "" {
		c.Defaults.Model = v
	}
	if v := os.Getenv("GROQCHAT_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.envErrs = append(c.envErrs, ValidationError{Field: "GROQCHAT_TEMPERATURE", Message: "not a number: " + v})
		} else {
			c.Defaults.Temperature = f
		}
	}
	if v := os.Getenv("GROQCHAT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.envErrs = append(c.envErrs, ValidationError{Field: "GROQCHAT_MAX_TOKENS", Message: "not an integer: " + v})
		} else {
			c.Defaults.MaxTokens = n
		}
	}
	if v := os.Getenv("GROQCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate validates the configuration and returns any errors as ValidateErrors.
func (c *Config) Validate() error {
	errs := append(ValidateErrors{}, c.envErrs...)

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must be an http(s) URL"})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must be between 1 and 600"})
	}
	if c.API.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "api.requests_per_minute", Message: "must not be negative"})
	}
	if c.API.Burst < 1 {
		errs = append(errs, ValidationError{Field: "api.burst", Message: "must be at least 1"})
	}

	if err := c.Defaults.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			errs = append(errs, ValidationError{Field: "defaults." + verr.Field, Message: verr.Message})
		} else {
			errs = append(errs, ValidationError{Field: "defaults", Message: err.Error()})
		}
	}

	if !contains(validThemes, c.UI.Theme) {
		errs = append(errs, ValidationError{Field: "ui.theme", Message: "must be one of " + strings.Join(validThemes, ", ")})
	}
	if c.UI.WordWrap != 0 && (c.UI.WordWrap < 20 || c.UI.WordWrap > 400) {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must be 0 or between 20 and 400"})
	}
	if !contains(validLogLevels, c.Log.Level) {
		errs = append(errs, ValidationError{Field: "log.level", Message: "must be one of " + strings.Join(validLogLevels, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

// LogPath returns the configured log file, defaulting to the config directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "groqchat.log"), nil
}

// String returns a TOML rendering of the config for display.
// The API key is redacted.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(c)

	key := "(not set)"
	if c.APIKey != "" {
		key = redact(c.APIKey) + " from " + c.APIKeySource
	}
	return buf.String() + "\n# api key: " + key + "\n"
}

// redact keeps a short prefix so users can tell keys apart.
func redact(key string) string {
	if len(key) <= 8 {
		return "[REDACTED]"
	}
	return key[:4] + "..." + "[REDACTED]"
}
