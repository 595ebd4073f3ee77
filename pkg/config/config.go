// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates Sentinel service configuration
// from a JSON file with environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Configuration
// =============================================================================

// Config is the full service configuration.
type Config struct {
	// ListenAddr is the HTTP/WebSocket bind address.
	ListenAddr string `json:"listen_addr" validate:"required"`

	// Provider selects the completion backend: "ollama" or "openai".
	Provider string `json:"provider" validate:"oneof=ollama openai"`

	// OllamaURL is the Ollama base URL. Empty uses the client default.
	OllamaURL string `json:"ollama_url,omitempty"`

	// Model overrides the provider's default model name.
	Model string `json:"model,omitempty"`

	// MaxIterations is the default TDD loop length for requests that
	// don't specify one.
	MaxIterations int `json:"max_iterations" validate:"gt=0,lte=20"`

	// UseFallbackTests substitutes scaffold tests for failed
	// generation iterations instead of leaving them empty.
	UseFallbackTests bool `json:"use_fallback_tests"`

	// StorePath is the evaluation-history database directory. Empty
	// disables persistence.
	StorePath string `json:"store_path,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`

	// LogDir receives log files; empty logs to stderr only.
	LogDir string `json:"log_dir,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ListenAddr:    ":8720",
		Provider:      "ollama",
		MaxIterations: 5,
		LogLevel:      "info",
	}
}

var validate = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads configuration from an optional JSON file, then applies
// environment overrides and validates.
//
// Description:
//
//	A missing file is not an error; defaults apply. Environment
//	variables take precedence over file values: SENTINEL_LISTEN_ADDR,
//	SENTINEL_PROVIDER, SENTINEL_MODEL, SENTINEL_MAX_ITERATIONS,
//	SENTINEL_STORE_PATH, SENTINEL_LOG_LEVEL, SENTINEL_LOG_DIR,
//	OLLAMA_BASE_URL.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SENTINEL_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SENTINEL_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("SENTINEL_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SENTINEL_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIterations = n
		}
	}
	if v := os.Getenv("SENTINEL_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("SENTINEL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SENTINEL_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
}
