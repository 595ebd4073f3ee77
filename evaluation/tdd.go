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
	"log/slog"
	"regexp"
	"strings"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/quality"
)

// =============================================================================
// TDD aggregate scoring
// =============================================================================

// AcceptThreshold is the fixed TDD score at or above which the TDD
// verdict recommends acceptance.
const AcceptThreshold = 0.6

// Blend weights for the aggregate TDD score.
const (
	weightTestResult = 0.5
	weightRelevance  = 0.3
	weightQuality    = 0.2
)

var (
	staticAssertRe = regexp.MustCompile(`assert\s+`)

	// errorIndicators flag potentially problematic vocabulary in test
	// code. Early iterations treat matches as expected validations;
	// from the error-handling phase on they are surfaced as issues.
	errorIndicators = []string{
		"raises", "raise", "exception", "Error", "error",
		"fail", "invalid", "incorrect", "wrong",
	}

	performanceIndicators = []string{
		"performance", "timeout", "slow", "optimize",
		"efficient", "complexity", "stack overflow",
	}

	positiveIndicators = []string{
		"complete", "comprehensive", "robust", "reliable",
		"correct", "accurate", "proper", "good",
	}

	lineCommentRe     = regexp.MustCompile(`(?m)(#|//).*$`)
	blockCommentRe    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	tripleQuoteRe     = regexp.MustCompile(`(?s)("""|''').*?("""|''')`)
	errorIndicatorRes = buildIndicatorRes()
)

func buildIndicatorRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(errorIndicators))
	for _, ind := range errorIndicators {
		res[ind] = regexp.MustCompile(`(?:assert|with pytest\.raises).*` + regexp.QuoteMeta(ind))
	}
	return res
}

// stripComments removes line comments, block comments, and docstrings
// so the issue keyword scan does not fire on commentary.
func stripComments(code string) string {
	code = tripleQuoteRe.ReplaceAllString(code, "")
	code = blockCommentRe.ReplaceAllString(code, "")
	return lineCommentRe.ReplaceAllString(code, "")
}

// EvaluateTDD aggregates iteration results into the TDD verdict.
//
// Description:
//
//	Sums test/pass counts from execution results where present,
//	falling back to static assert counting for iterations that were
//	never executed (execResults may be nil or shorter than the
//	iteration list). Scans each iteration's comment-stripped test code
//	for issue vocabulary, surfacing matches from the error-handling
//	phase (iteration 3) onward. Blends the pass-rate score with task
//	relevance and final-iteration test quality:
//
//	  tdd_score = 0.5*test_result + 0.3*relevance + 0.2*quality
//	  test_result = max(0.1, min(0.8, passed/total) - min(0.5, 0.1*issues))
//
//	Accept is true at score >= 0.6. With no iterations at all the
//	verdict is the neutral inconclusive marker: score 0.5, Accept nil.
func EvaluateTDD(iterations []datatypes.IterationResult, execResults []datatypes.TestExecutionResult,
	proposedCode, taskDescription string) datatypes.TDDEvaluation {

	if len(iterations) == 0 {
		slog.Warn("no TDD iterations provided for evaluation")
		return datatypes.TDDEvaluation{
			TDDScore:        0.5,
			Accept:          nil,
			IssuesDetected:  []string{"No TDD tests ran"},
			Recommendations: []string{"Run TDD tests to verify code quality"},
		}
	}

	var (
		totalTests      int
		passedTests     int
		issues          []string
		recommendations []string
	)

	for i, it := range iterations {
		executed := i < len(execResults) && execResults[i].TotalTests > 0
		stripped := stripComments(it.TestCode)

		if executed {
			totalTests += execResults[i].TotalTests
			passedTests += execResults[i].PassedTests
		} else {
			totalTests += len(staticAssertRe.FindAllString(it.TestCode, -1))
		}

		if it.Error != "" {
			issues = append(issues,
				fmt.Sprintf("Test generation failed in iteration %d: %s", it.Iteration, it.Error))
		}

		if it.Iteration >= 3 {
			for _, ind := range performanceIndicators {
				if strings.Contains(stripped, ind) {
					issues = append(issues,
						fmt.Sprintf("Performance concern identified in iteration %d: %s", it.Iteration, ind))
				}
			}
		}

		for _, ind := range errorIndicators {
			matches := errorIndicatorRes[ind].FindAllString(stripped, -1)
			if len(matches) == 0 {
				continue
			}
			if it.Iteration < 3 {
				if !executed {
					// Early-phase expected validations count as passing
					// static tests.
					passedTests += len(matches)
				}
			} else {
				issues = append(issues,
					fmt.Sprintf("Potential issue in iteration %d: %s", it.Iteration, ind))
			}
		}
	}

	// Final-iteration review text often carries an overall assessment.
	final := iterations[len(iterations)-1]
	for _, ind := range positiveIndicators {
		if strings.Contains(final.TestCode, ind) {
			recommendations = append(recommendations,
				fmt.Sprintf("Final assessment indicates code is %s", ind))
		}
	}

	relevance := AssessRelevance(iterations, proposedCode, taskDescription)
	metrics := quality.Evaluate(final.TestCode, taskDescription, proposedCode, final.Language)

	passRate := 0.4
	if totalTests > 0 {
		passRate = float64(passedTests) / float64(totalTests)
	}
	if passRate > 0.8 {
		passRate = 0.8
	}
	penalty := 0.1 * float64(len(issues))
	if penalty > 0.5 {
		penalty = 0.5
	}
	testResult := passRate - penalty
	if testResult < 0.1 {
		testResult = 0.1
	}

	score := weightTestResult*testResult + weightRelevance*relevance + weightQuality*metrics.OverallQuality

	if score < 0.4 {
		recommendations = append(recommendations, "Consider revising code based on test failures")
	} else if score > 0.7 {
		recommendations = append(recommendations, "Code performs well in tests")
	}

	accept := score >= AcceptThreshold
	return datatypes.TDDEvaluation{
		TDDScore:        score,
		Accept:          &accept,
		TaskRelevance:   relevance,
		TestQuality:     metrics.OverallQuality,
		TestsPassed:     passedTests,
		TestsTotal:      totalTests,
		IssuesDetected:  issues,
		Recommendations: recommendations,
		Metrics:         &metrics,
	}
}
