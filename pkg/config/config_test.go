// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSentinelEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SENTINEL_LISTEN_ADDR", "SENTINEL_PROVIDER", "SENTINEL_MODEL",
		"SENTINEL_MAX_ITERATIONS", "SENTINEL_STORE_PATH",
		"SENTINEL_LOG_LEVEL", "SENTINEL_LOG_DIR", "OLLAMA_BASE_URL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentinel.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearSentinelEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8720", cfg.ListenAddr)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.UseFallbackTests)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearSentinelEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearSentinelEnv(t)
	path := writeConfig(t, `{
		"listen_addr": ":9000",
		"provider": "openai",
		"model": "gpt-4o-mini",
		"max_iterations": 3,
		"use_fallback_tests": true,
		"log_level": "debug"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 3, cfg.MaxIterations)
	assert.True(t, cfg.UseFallbackTests)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearSentinelEnv(t)
	path := writeConfig(t, `{"listen_addr": ":9000", "max_iterations": 3}`)

	t.Setenv("SENTINEL_LISTEN_ADDR", ":9100")
	t.Setenv("SENTINEL_MAX_ITERATIONS", "7")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, "http://gpu-box:11434", cfg.OllamaURL)
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearSentinelEnv(t)
	path := writeConfig(t, "{not json")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	clearSentinelEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"bad provider", `{"provider": "azure"}`},
		{"iterations too high", `{"max_iterations": 50}`},
		{"negative iterations", `{"max_iterations": -1}`},
		{"bad log level", `{"log_level": "verbose"}`},
		{"empty listen addr", `{"listen_addr": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}
