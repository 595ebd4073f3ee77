// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sentinel.llm")

// DefaultOllamaURL is used when OLLAMA_BASE_URL is unset.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama instance over its HTTP API.
//
// Thread Safety:
//
//	OllamaClient is safe for concurrent use; the underlying http.Client
//	handles connection pooling.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

var _ Client = (*OllamaClient)(nil)

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// NewOllamaClient builds a client from explicit settings, falling back
// to OLLAMA_BASE_URL / OLLAMA_MODEL environment variables.
//
// Inputs:
//
//	baseURL - Ollama endpoint; "" means env var then DefaultOllamaURL.
//	model - Model name; "" means env var then "deepseek-coder".
//
// Outputs:
//
//	*OllamaClient - The configured client.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	if model == "" {
		slog.Warn("OLLAMA_MODEL not set, defaulting", "model", "deepseek-coder")
		model = "deepseek-coder"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing Ollama client", "base_url", baseURL, "model", model)
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
		model:      model,
	}
}

// Complete implements Client.
//
// Description:
//
//	Sends a non-streaming /api/generate request and returns the response
//	text. Temperature is pinned low; test generation wants determinism,
//	not creativity.
//
// Thread Safety: This method is safe for concurrent use.
func (o *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	ctx, span := tracer.Start(ctx, "OllamaClient.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", o.model),
		attribute.Int("llm.prompt_len", len(prompt)),
	)

	payload := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.2,
			"num_predict": 4096,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to marshal request to Ollama: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to create request to Ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Ollama API call failed", "error", err)
		return "", fmt.Errorf("Ollama API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to read response body from Ollama: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			var errResp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(respBody, &errResp); err == nil &&
				strings.Contains(errResp.Error, "model") &&
				strings.Contains(errResp.Error, "not found") {
				slog.Warn("Ollama model not found", "model", o.model)
				return "", fmt.Errorf("model '%s' not found. Please run: 'ollama pull %s'", o.model, o.model)
			}
		}
		slog.Error("Ollama returned an error",
			"status_code", resp.StatusCode, "response", string(respBody))
		return "", fmt.Errorf("Ollama failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var ollamaResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to parse JSON response from Ollama",
			"error", err, "response", string(respBody))
		return "", fmt.Errorf("failed to parse Ollama response: %w", err)
	}
	if strings.TrimSpace(ollamaResp.Response) == "" {
		return "", ErrEmptyResponse
	}

	slog.Debug("Received response from Ollama",
		slog.Int("content_len", len(ollamaResp.Response)),
		slog.Duration("duration", time.Since(start)),
	)
	return ollamaResp.Response, nil
}

// Name implements Client.
func (o *OllamaClient) Name() string { return "ollama" }

// Model implements Client.
func (o *OllamaClient) Model() string { return o.model }
