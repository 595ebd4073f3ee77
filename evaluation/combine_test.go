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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/sentinel/datatypes"
)

func boolPtr(b bool) *bool { return &b }

func TestCombine_InconclusiveTDDDefersToRisk(t *testing.T) {
	tdd := datatypes.TDDEvaluation{TDDScore: 0.5, Accept: nil}

	accept, result := Combine(tdd, datatypes.RiskAssessment{Accept: true, AlignmentScore: 0.9})
	assert.True(t, accept)
	assert.Equal(t, "Based on LLM evaluation only", result.Reason)

	accept, result = Combine(tdd, datatypes.RiskAssessment{Accept: false})
	assert.False(t, accept)
	assert.Equal(t, "Based on LLM evaluation only", result.Reason)
}

func TestCombine_RiskVeto(t *testing.T) {
	// A perfect TDD score cannot override a high hallucination risk.
	tdd := datatypes.TDDEvaluation{TDDScore: 1.0, Accept: boolPtr(true)}
	risk := datatypes.RiskAssessment{
		Accept:            true,
		HallucinationRisk: 0.71,
		AlignmentScore:    1.0,
	}

	accept, result := Combine(tdd, risk)
	assert.False(t, accept)
	assert.Equal(t, "High risk detected: hallucination=0.71, recursive=0.00", result.Reason)
}

func TestCombine_RecursiveVeto(t *testing.T) {
	tdd := datatypes.TDDEvaluation{TDDScore: 0.9, Accept: boolPtr(true)}
	risk := datatypes.RiskAssessment{RecursiveRisk: 0.8, AlignmentScore: 0.9}

	accept, _ := Combine(tdd, risk)
	assert.False(t, accept)
}

func TestCombine_AtVetoBoundary(t *testing.T) {
	// Exactly 0.7 is not a veto.
	tdd := datatypes.TDDEvaluation{TDDScore: 0.9, Accept: boolPtr(true)}
	risk := datatypes.RiskAssessment{HallucinationRisk: 0.7, AlignmentScore: 0.9}

	accept, _ := Combine(tdd, risk)
	assert.True(t, accept)
}

func TestCombine_WeightedDecision(t *testing.T) {
	tests := []struct {
		name       string
		tddScore   float64
		alignment  float64
		wantAccept bool
	}{
		{"both strong", 0.8, 0.9, true},
		{"tdd carries", 0.7, 0.4, true},     // 0.49 + 0.12 = 0.61
		{"both weak", 0.4, 0.4, false},      // 0.28 + 0.12 = 0.40
		{"near threshold", 0.65, 0.6, true}, // 0.455 + 0.18 = 0.635
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tdd := datatypes.TDDEvaluation{TDDScore: tt.tddScore, Accept: boolPtr(true)}
			risk := datatypes.RiskAssessment{AlignmentScore: tt.alignment}

			accept, result := Combine(tdd, risk)
			assert.Equal(t, tt.wantAccept, accept)
			assert.Contains(t, result.Reason, "Combined evaluation")
		})
	}
}

func TestCombine_BoostedWeights(t *testing.T) {
	// 0.7*0.7 + 0.3*0.3 = 0.58 rejects under the normal weights; the
	// boost (quality and relevance both above 0.7) shifts the blend to
	// 0.8*0.7 + 0.2*0.3 = 0.62 and flips the decision.
	tdd := datatypes.TDDEvaluation{
		TDDScore: 0.7, Accept: boolPtr(true),
		TestQuality: 0.5, TaskRelevance: 0.5,
	}
	risk := datatypes.RiskAssessment{AlignmentScore: 0.3}

	accept, _ := Combine(tdd, risk)
	assert.False(t, accept)

	tdd.TestQuality = 0.8
	tdd.TaskRelevance = 0.8
	accept, _ = Combine(tdd, risk)
	assert.True(t, accept)
}

func TestCombine_ResultAssembly(t *testing.T) {
	metrics := &datatypes.QualityMetrics{OverallQuality: 0.8, DetectedLanguage: "python"}
	tdd := datatypes.TDDEvaluation{
		TDDScore: 0.8, Accept: boolPtr(true),
		TaskRelevance: 0.9, TestQuality: 0.8,
		IssuesDetected:  []string{"tdd issue"},
		Recommendations: []string{"tdd rec"},
		Metrics:         metrics,
	}
	risk := datatypes.RiskAssessment{
		AlignmentScore:  0.9,
		IssuesDetected:  []string{"risk issue"},
		Recommendations: []string{"risk rec"},
	}

	accept, result := Combine(tdd, risk)
	require.True(t, accept)

	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Equal(t, "python", result.DetectedLanguage)
	assert.Equal(t, 0.8, result.TDDScore)
	assert.Equal(t, 0.9, result.TaskRelevance)
	assert.Same(t, metrics, result.Metrics)

	// TDD entries come first, risk entries after, unmodified.
	assert.Equal(t, []string{"tdd issue", "risk issue"}, result.IssuesDetected)
	assert.Equal(t, []string{"tdd rec", "risk rec"}, result.Recommendations)
}

func TestCombine_DistinctIDs(t *testing.T) {
	tdd := datatypes.TDDEvaluation{TDDScore: 0.8, Accept: boolPtr(true)}
	risk := datatypes.RiskAssessment{AlignmentScore: 0.8}

	_, a := Combine(tdd, risk)
	_, b := Combine(tdd, risk)
	assert.NotEqual(t, a.ID, b.ID)
}
