// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the shared data model for the Sentinel
// evaluation pipeline.
//
// All pipeline stages communicate through the types in this package.
// TaskContext flows in, IterationResult values accumulate through the
// generation loop, and EvaluationResult flows out. Types here carry no
// behavior beyond validation and defaulting; the pipeline packages own
// all scoring logic.
package datatypes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNoCode indicates a request arrived without code to evaluate.
	ErrNoCode = errors.New("no proposed code provided")

	// ErrBadIterations indicates max_iterations was outside 1..20.
	ErrBadIterations = errors.New("max_iterations must be between 1 and 20")
)

var validate = validator.New()

// DefaultMaxIterations is the canonical TDD loop length.
const DefaultMaxIterations = 5

// =============================================================================
// TaskContext
// =============================================================================

// TaskContext is the immutable per-request input to the pipeline.
//
// Description:
//
//	TaskContext captures one AI-proposed code change: what the task was,
//	what the code looked like before, and what the AI proposes now. It is
//	constructed once per incoming suggestion and passed by pointer through
//	the whole pipeline without mutation.
//
// Thread Safety:
//
//	TaskContext is read-only after construction and safe to share.
type TaskContext struct {
	TaskDescription string `json:"task_description"`
	OriginalCode    string `json:"original_code"`
	ProposedCode    string `json:"proposed_code" validate:"required"`
	Language        string `json:"language"`
	MaxIterations   int    `json:"max_iterations" validate:"omitempty,gt=0,lte=20"`
}

// Validate checks required fields and applies defaults.
//
// Outputs:
//
//	error - Non-nil if the context cannot drive an evaluation.
func (t *TaskContext) Validate() error {
	if strings.TrimSpace(t.ProposedCode) == "" {
		return ErrNoCode
	}
	if t.MaxIterations == 0 {
		t.MaxIterations = DefaultMaxIterations
	}
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "ProposedCode":
					return ErrNoCode
				case "MaxIterations":
					return fmt.Errorf("%w: got %d", ErrBadIterations, t.MaxIterations)
				}
			}
		}
		return fmt.Errorf("invalid task context: %w", err)
	}
	return nil
}

// =============================================================================
// Iteration types
// =============================================================================

// IterationRequest describes one TDD cycle step. It is created by the
// orchestrator, consumed immediately by the completion client, and not
// retained after the loop.
type IterationRequest struct {
	Iteration       int    `json:"iteration"`
	Prompt          string `json:"prompt"`
	Code            string `json:"code"`
	TaskDescription string `json:"task_description"`
}

// IterationResult records the outcome of one TDD iteration.
//
// An empty TestCode with a populated Error signals a generation failure
// for that iteration. Failed iterations stay in the sequence; downstream
// scoring must account for them rather than dropping them.
type IterationResult struct {
	Iteration int    `json:"iteration"`
	TestCode  string `json:"test_code"`
	Language  string `json:"language"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether this iteration's generation failed.
func (r *IterationResult) Failed() bool {
	return r.TestCode == "" && r.Error != ""
}

// =============================================================================
// TestExecutionResult
// =============================================================================

// TestExecutionResult holds pass/fail counts for one iteration's tests,
// produced either by real execution or by simulation.
//
// Invariants:
//
//	PassedTests + FailedTests == TotalTests when TotalTests > 0.
//	Success is false whenever TotalTests == 0.
//	len(Errors) <= MaxExecutionErrors.
type TestExecutionResult struct {
	Success       bool     `json:"success"`
	TotalTests    int      `json:"total_tests"`
	PassedTests   int      `json:"passed_tests"`
	FailedTests   int      `json:"failed_tests"`
	ExecutionTime float64  `json:"execution_time"`
	Output        string   `json:"output,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Simulated     bool     `json:"simulated"`
}

// MaxExecutionErrors caps the error lines kept per execution.
const MaxExecutionErrors = 10

// AddError appends an error line, respecting the cap.
func (r *TestExecutionResult) AddError(msg string) {
	if len(r.Errors) < MaxExecutionErrors {
		r.Errors = append(r.Errors, msg)
	}
}

// =============================================================================
// QualityMetrics
// =============================================================================

// QualityMetrics holds the seven heuristic quality sub-scores computed
// over a blob of generated test code, each in [0,1], plus raw counts and
// derived strength/weakness summaries.
type QualityMetrics struct {
	TestCount      int `json:"test_count"`
	AssertionCount int `json:"assertion_count"`

	Completeness     float64 `json:"completeness"`
	Variety          float64 `json:"variety"`
	EdgeCase         float64 `json:"edge_case"`
	AssertionDensity float64 `json:"assertion_density"`
	Readability      float64 `json:"readability"`
	Isolation        float64 `json:"isolation"`
	TaskAlignment    float64 `json:"task_alignment"`

	OverallQuality float64 `json:"overall_quality"`

	DetectedLanguage string `json:"detected_language,omitempty"`

	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// =============================================================================
// Aggregate results
// =============================================================================

// TDDEvaluation aggregates the whole iteration sequence into one score.
//
// Accept is a tri-state: nil means the TDD loop was inconclusive (no
// iterations ran) and the final decision must defer to the risk
// assessment alone.
type TDDEvaluation struct {
	TDDScore        float64         `json:"tdd_score"`
	Accept          *bool           `json:"accept"`
	TaskRelevance   float64         `json:"task_relevance"`
	TestQuality     float64         `json:"test_quality"`
	TestsPassed     int             `json:"tests_passed"`
	TestsTotal      int             `json:"tests_total"`
	IssuesDetected  []string        `json:"issues_detected"`
	Recommendations []string        `json:"recommendations"`
	Metrics         *QualityMetrics `json:"metrics,omitempty"`
}

// RiskAssessment is the LLM-side heuristic risk verdict for a proposed
// change, produced independently of the TDD loop.
type RiskAssessment struct {
	Accept            bool     `json:"accept"`
	HallucinationRisk float64  `json:"hallucination_risk"`
	InconsistencyRisk float64  `json:"inconsistency_risk"`
	RecursiveRisk     float64  `json:"recursive_risk"`
	AlignmentScore    float64  `json:"alignment_score"`
	IssuesDetected    []string `json:"issues_detected"`
	Recommendations   []string `json:"recommendations"`
	Analysis          string   `json:"analysis,omitempty"`
}

// EvaluationResult is the final per-suggestion verdict returned to
// callers. Immutable once returned.
type EvaluationResult struct {
	ID               string          `json:"id"`
	Accept           bool            `json:"accept"`
	Reason           string          `json:"reason"`
	TDDScore         float64         `json:"tdd_score"`
	TaskRelevance    float64         `json:"task_relevance"`
	TestQuality      float64         `json:"test_quality"`
	DetectedLanguage string          `json:"detected_language,omitempty"`
	IssuesDetected   []string        `json:"issues_detected"`
	Recommendations  []string        `json:"recommendations"`
	Metrics          *QualityMetrics `json:"metrics,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
