// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evaluation aggregates iteration results into the TDD verdict
// and combines it with the LLM risk assessment into the final accept
// decision.
package evaluation

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/AleutianAI/sentinel/analysis"
	"github.com/AleutianAI/sentinel/datatypes"
)

// =============================================================================
// Task relevance
// =============================================================================

// placeholderTasks are descriptions too generic to assess relevance
// against; they score full relevance rather than penalizing the code.
var placeholderTasks = map[string]bool{
	"implement functionality": true,
	"modify code":             true,
	"update code":             true,
}

// Relevance default floors. One consistent policy: placeholder or
// empty description 1.0, no extractable terms 0.8, combined score
// clamped to [0.4, 1.0], no metrics at all 0.7.
const (
	relevanceNoTerms   = 0.8
	relevanceFloor     = 0.4
	relevanceNoMetrics = 0.7
)

type taskPattern struct {
	keywords    []string
	testPattern *regexp.Regexp
}

// taskPatterns pairs task-type keywords with the test vocabulary a
// relevant test suite for that task type would use.
var taskPatterns = []taskPattern{
	{
		keywords:    []string{"stack", "queue", "linked list", "tree", "hash", "map", "set", "heap"},
		testPattern: regexp.MustCompile(`(?i)push|pop|enqueue|dequeue|insert|remove|add|delete|contains|find`),
	},
	{
		keywords:    []string{"sort", "quick sort", "merge sort", "bubble sort", "heap sort"},
		testPattern: regexp.MustCompile(`(?i)sorted|ascending|descending|order`),
	},
	{
		keywords:    []string{"api", "rest", "http", "endpoint", "request", "response", "fetch"},
		testPattern: regexp.MustCompile(`(?i)get|post|put|delete|response|status|json|http|api|mock`),
	},
	{
		keywords:    []string{"file", "input", "output", "i/o", "read", "write", "stream"},
		testPattern: regexp.MustCompile(`(?i)file|open|close|read|write|input|output|stream|buffer`),
	},
	{
		keywords:    []string{"auth", "login", "password", "credential", "token", "jwt", "oauth"},
		testPattern: regexp.MustCompile(`(?i)auth|login|password|token|credential|session|jwt|oauth`),
	},
}

// AssessRelevance scores how well tests and code align with the task.
//
// Description:
//
//	Extracts key terms from the task description and measures their
//	presence in the aggregate test code and in the proposed code,
//	optionally folding in a task-pattern score (0.9 when a task-type
//	keyword and its expected test vocabulary both appear, 0.5 when
//	only the keyword does). The mean of the collected metrics is
//	clamped to [0.4, 1.0]. Placeholder and empty descriptions score
//	1.0 since there is nothing meaningful to align against.
func AssessRelevance(iterations []datatypes.IterationResult, proposedCode, taskDescription string) float64 {
	if taskDescription == "" || placeholderTasks[strings.ToLower(taskDescription)] {
		slog.Debug("no specific task description, assuming full relevance")
		return 1.0
	}

	taskTerms := analysis.ExtractKeyTerms(taskDescription)
	if len(taskTerms) == 0 {
		slog.Warn("no key terms extracted from task description")
		return relevanceNoTerms
	}

	var testCodes []string
	for _, it := range iterations {
		testCodes = append(testCodes, it.TestCode)
	}
	allTestCode := strings.Join(testCodes, " ")

	scores := []float64{
		analysis.TermPresence(taskTerms, allTestCode),
		analysis.TermPresence(taskTerms, proposedCode),
	}
	if patternScore, ok := taskSpecificPatternScore(taskDescription, allTestCode); ok {
		scores = append(scores, patternScore)
	}

	if len(scores) == 0 {
		return relevanceNoMetrics
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	score := sum / float64(len(scores))
	if score < relevanceFloor {
		score = relevanceFloor
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// taskSpecificPatternScore checks the first matching task type, in
// table order. The second return is false when no task type applies.
func taskSpecificPatternScore(taskDescription, testCode string) (float64, bool) {
	taskLower := strings.ToLower(taskDescription)
	for _, p := range taskPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(taskLower, kw) {
				if p.testPattern.MatchString(testCode) {
					return 0.9, true
				}
				return 0.5, true
			}
		}
	}
	return 0, false
}
