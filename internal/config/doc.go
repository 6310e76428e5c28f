// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for groqchat.
//
// Configuration is a TOML file with sensible defaults, environment variable
// overrides, an optional .env file, and validation. The API key is never
// stored in the TOML file: it comes from the environment (or .env) or from
// the operating system keyring.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Endpoint, timeout and request pacing
//   - UIConfig: Theme and markdown rendering
//   - LogConfig: Log level and destination
//   - ConfigurationError: Fatal startup problem such as a missing API key
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GROQ_API_KEY, GROQ_BASE_URL, GROQCHAT_*)
//   - .env in the working directory or ~/.groqchat
//   - ~/.groqchat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration and require a key:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireAPIKey(); err != nil {
//	    log.Fatal(err) // *config.ConfigurationError
//	}
//
// Store a key in the keyring:
//
//	err := config.StoreAPIKey("gsk_...")
package config
