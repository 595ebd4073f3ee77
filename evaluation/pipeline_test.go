// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/execution"
	"github.com/AleutianAI/sentinel/generation"
	"github.com/AleutianAI/sentinel/llm"
)

const rustTests = `#[test]
fn test_add_basic() {
    assert_eq!(add(1, 1), 2);
}

#[test]
fn test_add_zero() {
    assert_eq!(add(0, 0), 0);
}
`

func newTestEvaluator(client llm.Client) *Evaluator {
	return NewEvaluator(
		generation.NewOrchestrator(client, nil, nil),
		execution.NewEngine(nil),
		NewRiskAnalyzer(client, nil),
		nil,
	)
}

func TestEvaluator_Evaluate(t *testing.T) {
	// Two generation iterations, then the shared client answers the
	// risk analysis. Rust has no local runner, so execution simulates.
	client := &llm.MockClient{Responses: []string{rustTests, rustTests, goodRiskJSON}}
	e := newTestEvaluator(client)

	task := &datatypes.TaskContext{
		TaskDescription: "add two numbers",
		ProposedCode:    "fn add(a: i64, b: i64) -> i64 { a + b }",
		Language:        "rust",
		MaxIterations:   2,
	}

	result, err := e.Evaluate(context.Background(), task)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, "rust", result.DetectedLanguage)
	assert.GreaterOrEqual(t, result.TDDScore, 0.0)
	assert.LessOrEqual(t, result.TDDScore, 1.0)
	assert.NotNil(t, result.Metrics)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Equal(t, 3, client.Calls())
}

func TestEvaluator_Evaluate_InvalidTask(t *testing.T) {
	e := newTestEvaluator(&llm.MockClient{Responses: []string{"x"}})

	_, err := e.Evaluate(context.Background(), &datatypes.TaskContext{})
	assert.ErrorIs(t, err, datatypes.ErrNoCode)

	_, err = e.Evaluate(context.Background(), &datatypes.TaskContext{
		ProposedCode:  "x = 1",
		MaxIterations: -1,
	})
	assert.ErrorIs(t, err, datatypes.ErrBadIterations)
}

func TestEvaluator_Evaluate_HighRiskRejects(t *testing.T) {
	risky := `{"hallucination_risk": 0.9, "recursive_risk": 0.1, "alignment_score": 0.9}`
	client := &llm.MockClient{Responses: []string{rustTests, risky}}
	e := newTestEvaluator(client)

	task := &datatypes.TaskContext{
		ProposedCode:  "fn f() -> i64 { 1 }",
		Language:      "rust",
		MaxIterations: 1,
	}

	result, err := e.Evaluate(context.Background(), task)
	require.NoError(t, err)
	assert.False(t, result.Accept)
	assert.Contains(t, result.Reason, "High risk detected")
}
