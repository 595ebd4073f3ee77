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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient_Complete(t *testing.T) {
	var gotReq ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    "deepseek-coder",
			Response: "def test_a():\n    assert True",
			Done:     true,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "deepseek-coder")
	out, err := c.Complete(context.Background(), "write tests")
	require.NoError(t, err)
	assert.Equal(t, "def test_a():\n    assert True", out)

	assert.Equal(t, "deepseek-coder", gotReq.Model)
	assert.Equal(t, "write tests", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.InDelta(t, 0.2, gotReq.Options["temperature"], 1e-9)
}

func TestOllamaClient_Complete_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model 'missing' not found"}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "missing")
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull missing")
}

func TestOllamaClient_Complete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "m")
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOllamaClient_Complete_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "   ", Done: true})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "m")
	_, err := c.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaClient_Complete_InputValidation(t *testing.T) {
	c := NewOllamaClient("http://localhost:0", "m")

	_, err := c.Complete(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	//nolint:staticcheck // deliberate nil context
	_, err = c.Complete(nil, "p")
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestNewOllamaClient_Defaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("OLLAMA_MODEL", "")

	c := NewOllamaClient("", "")
	assert.Equal(t, DefaultOllamaURL, c.baseURL)
	assert.Equal(t, "deepseek-coder", c.Model())
	assert.Equal(t, "ollama", c.Name())

	trimmed := NewOllamaClient("http://host:1234/", "m")
	assert.Equal(t, "http://host:1234", trimmed.baseURL)
}
