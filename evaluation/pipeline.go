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
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/execution"
	"github.com/AleutianAI/sentinel/generation"
	"github.com/AleutianAI/sentinel/quality"
	"github.com/AleutianAI/sentinel/telemetry"
)

// =============================================================================
// End-to-end evaluator
// =============================================================================

// Evaluator is the full per-suggestion pipeline: generate tests,
// run them, score the aggregate, ask the risk analyzer, and combine.
//
// Thread Safety: safe for concurrent use. Concurrent evaluations
// naturally serialize on the shared completion client when it is
// wrapped in an llm.Gate.
type Evaluator struct {
	orchestrator *generation.Orchestrator
	engine       *execution.Engine
	risk         *RiskAnalyzer
	log          *slog.Logger
}

// NewEvaluator wires the pipeline stages together.
func NewEvaluator(orchestrator *generation.Orchestrator, engine *execution.Engine,
	risk *RiskAnalyzer, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{orchestrator: orchestrator, engine: engine, risk: risk, log: log}
}

// Evaluate runs the whole pipeline for one proposed change.
//
// Description:
//
//	Stages run in order: the TDD generation loop, per-iteration test
//	execution (skipping iterations with empty test code), aggregate
//	TDD scoring, the LLM risk assessment, and the final combination.
//	Stage failures degrade rather than abort: a dead generation loop
//	yields the inconclusive TDD verdict, which defers the decision to
//	the risk assessment. Only invalid input returns an error.
func (e *Evaluator) Evaluate(ctx context.Context, task *datatypes.TaskContext) (datatypes.EvaluationResult, error) {
	if err := task.Validate(); err != nil {
		return datatypes.EvaluationResult{}, err
	}

	ctx, span := tracer.Start(ctx, "evaluation.Evaluate")
	defer span.End()

	language := task.Language
	if language == "" {
		language = quality.DetectLanguage(task.ProposedCode)
	}
	span.SetAttributes(attribute.String("language", language))

	iterations, err := e.orchestrator.Run(ctx, task)
	if err != nil {
		e.log.Error("test generation loop failed", "error", err)
		// EvaluateTDD with no iterations produces the inconclusive
		// verdict; the risk assessment then decides alone.
		iterations = nil
	}

	execResults := make([]datatypes.TestExecutionResult, len(iterations))
	for i, it := range iterations {
		if it.TestCode == "" {
			continue
		}
		execResults[i] = e.engine.Run(ctx, it.TestCode, task.ProposedCode, language,
			it.Iteration, task.TaskDescription)
	}

	tdd := EvaluateTDD(iterations, execResults, task.ProposedCode, task.TaskDescription)
	risk := e.risk.Analyze(ctx, task.ProposedCode, task.TaskDescription)

	accept, result := Combine(tdd, risk)
	if result.DetectedLanguage == "" {
		result.DetectedLanguage = language
	}
	telemetry.ObserveEvaluation(accept, tdd.TDDScore, tdd.TestQuality)

	e.log.Info("evaluation complete",
		"id", result.ID,
		"accept", accept,
		"tdd_score", tdd.TDDScore,
		"language", result.DetectedLanguage,
		"iterations", len(iterations),
	)
	return result, nil
}
