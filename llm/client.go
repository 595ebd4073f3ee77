// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides the text-completion collaborator used by the
// evaluation pipeline.
//
// The pipeline treats the model as a black box: prompt in, text out,
// may fail. Client implementations exist for Ollama (local models) and
// OpenAI-compatible endpoints, plus a mock for tests. Gate wraps any
// Client with process-wide FIFO serialization so a single-instance
// local backend is never hit by more than one request at a time.
package llm

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNilContext indicates a nil context was passed to a client.
	ErrNilContext = errors.New("context must not be nil")

	// ErrEmptyPrompt indicates an empty prompt was submitted.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// DefaultTimeout bounds a single completion call. Local model backends
// can take a minute or more to generate a full test file.
const DefaultTimeout = 120 * time.Second

// =============================================================================
// Client
// =============================================================================

// Client is the text-completion collaborator interface.
//
// Description:
//
//	Complete submits a single blocking prompt and returns the generated
//	text. There is no streaming and no internal retry; retries, if any,
//	belong to the caller. Implementations must treat transport failures
//	and empty responses as errors.
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use. Callers that share
//	a single-instance backend should wrap the client in a Gate.
type Client interface {
	// Complete submits prompt and returns the model's text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider ("ollama", "openai", "mock").
	Name() string

	// Model returns the configured model identifier.
	Model() string
}
