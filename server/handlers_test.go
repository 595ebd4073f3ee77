// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/evaluation"
	"github.com/AleutianAI/sentinel/execution"
	"github.com/AleutianAI/sentinel/generation"
	"github.com/AleutianAI/sentinel/llm"
	"github.com/AleutianAI/sentinel/store"
)

const rustTests = `#[test]
fn test_add_basic() {
    assert_eq!(add(1, 1), 2);
}
`

const riskJSON = `{
	"hallucination_risk": 0.1,
	"inconsistency_risk": 0.1,
	"recursive_risk": 0.1,
	"alignment_score": 0.9
}`

func newTestRouter(t *testing.T, responses []string, withHistory bool) (*gin.Engine, *store.History) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := &llm.MockClient{Responses: responses}
	evaluator := evaluation.NewEvaluator(
		generation.NewOrchestrator(client, nil, nil),
		execution.NewEngine(nil),
		evaluation.NewRiskAnalyzer(client, nil),
		nil,
	)
	handlers := NewHandlers(evaluator)

	var history *store.History
	if withHistory {
		var err error
		history, err = store.Open(store.Config{InMemory: true})
		require.NoError(t, err)
		t.Cleanup(func() { _ = history.Close() })
		handlers.WithHistory(history)
	}
	return NewRouter(handlers), history
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleEvaluate_DefaultIterationsReload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := &llm.MockClient{Responses: []string{rustTests, rustTests, riskJSON}}
	evaluator := evaluation.NewEvaluator(
		generation.NewOrchestrator(client, nil, nil),
		execution.NewEngine(nil),
		evaluation.NewRiskAnalyzer(client, nil),
		nil,
	)
	handlers := NewHandlers(evaluator)
	handlers.SetDefaultIterations(2)
	router := NewRouter(handlers)

	task := datatypes.TaskContext{
		TaskDescription: "add two numbers",
		ProposedCode:    "fn add(a: i64, b: i64) -> i64 { a + b }",
		Language:        "rust",
	}
	w := doJSON(router, http.MethodPost, "/v1/sentinel/evaluate", task)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, client.Calls(), "two generation iterations plus one risk call")

	// A reload applies on the next request without rebuilding the router.
	handlers.SetDefaultIterations(1)
	w = doJSON(router, http.MethodPost, "/v1/sentinel/evaluate", task)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, client.Calls(), "one generation iteration plus one risk call after reload")
}

func TestHandleEvaluate(t *testing.T) {
	router, history := newTestRouter(t, []string{rustTests, riskJSON}, true)

	task := datatypes.TaskContext{
		TaskDescription: "add two numbers",
		ProposedCode:    "fn add(a: i64, b: i64) -> i64 { a + b }",
		Language:        "rust",
		MaxIterations:   1,
	}
	w := doJSON(router, http.MethodPost, "/v1/sentinel/evaluate", task)
	require.Equal(t, http.StatusOK, w.Code)

	var result datatypes.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, "rust", result.DetectedLanguage)

	// Persisted to history.
	stored, err := history.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Accept, stored.Accept)
}

func TestHandleEvaluate_InvalidBody(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	req := httptest.NewRequest(http.MethodPost, "/v1/sentinel/evaluate",
		bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestHandleEvaluate_NoCode(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	w := doJSON(router, http.MethodPost, "/v1/sentinel/evaluate",
		datatypes.TaskContext{TaskDescription: "no code here"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_CODE", resp.Code)
}

func TestHandleEvaluate_BadIterations(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	w := doJSON(router, http.MethodPost, "/v1/sentinel/evaluate",
		datatypes.TaskContext{ProposedCode: "x = 1", MaxIterations: -2})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BAD_ITERATIONS", resp.Code)
}

func TestHandleListEvaluations(t *testing.T) {
	router, history := newTestRouter(t, []string{"x"}, true)

	base := time.Now().UTC()
	for i, id := range []string{"eval-a", "eval-b", "eval-c"} {
		require.NoError(t, history.Put(datatypes.EvaluationResult{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	w := doJSON(router, http.MethodGet, "/v1/sentinel/evaluations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Evaluations, 3)
	assert.Equal(t, "eval-c", resp.Evaluations[0].ID)

	w = doJSON(router, http.MethodGet, "/v1/sentinel/evaluations?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestHandleListEvaluations_InvalidLimit(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, true)

	for _, limit := range []string{"abc", "0", "-5"} {
		w := doJSON(router, http.MethodGet, "/v1/sentinel/evaluations?limit="+limit, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INVALID_LIMIT", resp.Code)
	}
}

func TestHandleListEvaluations_NoHistory(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	w := doJSON(router, http.MethodGet, "/v1/sentinel/evaluations", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_HISTORY", resp.Code)
}

func TestHandleGetEvaluation(t *testing.T) {
	router, history := newTestRouter(t, []string{"x"}, true)
	require.NoError(t, history.Put(datatypes.EvaluationResult{
		ID:        "eval-1",
		Accept:    true,
		CreatedAt: time.Now().UTC(),
	}))

	w := doJSON(router, http.MethodGet, "/v1/sentinel/evaluations/eval-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result datatypes.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "eval-1", result.ID)
	assert.True(t, result.Accept)
}

func TestHandleGetEvaluation_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, true)

	w := doJSON(router, http.MethodGet, "/v1/sentinel/evaluations/absent", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestHandleHealth(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	w := doJSON(router, http.MethodGet, "/v1/sentinel/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
}

func TestHandleReady(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, true)

	w := doJSON(router, http.MethodGet, "/v1/sentinel/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.True(t, resp.StoreOK)

	routerNoStore, _ := newTestRouter(t, []string{"x"}, false)
	w = doJSON(routerNoStore, http.MethodGet, "/v1/sentinel/ready", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.StoreOK)
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	req := httptest.NewRequest(http.MethodPost, "/v1/sentinel/evaluate",
		bytes.NewBufferString("{}"))
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, []string{"x"}, false)

	w := doJSON(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
