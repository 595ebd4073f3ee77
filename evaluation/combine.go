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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/sentinel/datatypes"
)

// =============================================================================
// Final decision
// =============================================================================

// Combination weights. TDD leads; its weight grows when both test
// quality and task relevance are strong.
const (
	tddWeight        = 0.7
	llmWeight        = 0.3
	tddWeightBoosted = 0.8
	llmWeightBoosted = 0.2
	boostThreshold   = 0.7
	riskVetoLevel    = 0.7
)

// Combine merges the TDD verdict and the LLM risk assessment into the
// final accept decision.
//
// Description:
//
//	When the TDD verdict is inconclusive (Accept nil) the decision is
//	the risk assessment's accept flag verbatim. Otherwise the weighted
//	score tdd_score*0.7 + alignment*0.3 decides at threshold 0.6, with
//	TDD's weight boosted to 0.8 when both test quality and task
//	relevance exceed 0.7. High hallucination or recursive risk (>0.7)
//	is a hard veto: it rejects regardless of the weighted score. Issue
//	and recommendation lists concatenate risk-side entries after
//	TDD-side entries, unmodified.
func Combine(tdd datatypes.TDDEvaluation, risk datatypes.RiskAssessment) (bool, datatypes.EvaluationResult) {
	issues := append(append([]string(nil), tdd.IssuesDetected...), risk.IssuesDetected...)
	recommendations := append(append([]string(nil), tdd.Recommendations...), risk.Recommendations...)

	var (
		accept bool
		reason string
	)
	switch {
	case tdd.Accept == nil:
		accept = risk.Accept
		reason = "Based on LLM evaluation only"
	case risk.HallucinationRisk > riskVetoLevel || risk.RecursiveRisk > riskVetoLevel:
		accept = false
		reason = fmt.Sprintf("High risk detected: hallucination=%.2f, recursive=%.2f",
			risk.HallucinationRisk, risk.RecursiveRisk)
	default:
		tw, lw := tddWeight, llmWeight
		if tdd.TestQuality > boostThreshold && tdd.TaskRelevance > boostThreshold {
			tw, lw = tddWeightBoosted, llmWeightBoosted
		}
		weighted := tdd.TDDScore*tw + risk.AlignmentScore*lw
		accept = weighted >= AcceptThreshold
		reason = fmt.Sprintf("Combined evaluation: TDD score=%.2f, alignment=%.2f",
			tdd.TDDScore, risk.AlignmentScore)
	}

	result := datatypes.EvaluationResult{
		ID:              uuid.NewString(),
		Accept:          accept,
		Reason:          reason,
		TDDScore:        tdd.TDDScore,
		TaskRelevance:   tdd.TaskRelevance,
		TestQuality:     tdd.TestQuality,
		IssuesDetected:  issues,
		Recommendations: recommendations,
		Metrics:         tdd.Metrics,
		CreatedAt:       time.Now().UTC(),
	}
	if tdd.Metrics != nil {
		result.DetectedLanguage = tdd.Metrics.DetectedLanguage
	}
	return accept, result
}
