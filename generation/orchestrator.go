// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package generation

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/llm"
	"github.com/AleutianAI/sentinel/quality"
	"github.com/AleutianAI/sentinel/telemetry"
)

var tracer = otel.Tracer("sentinel.generation")

// =============================================================================
// Orchestrator
// =============================================================================

// Orchestrator runs the iterative test-generation loop against a
// completion client.
//
// Thread Safety: safe for concurrent use; per-call state stays on the
// stack and the fallback toggle is atomic.
type Orchestrator struct {
	client llm.Client
	sink   telemetry.Sink
	log    *slog.Logger

	// useFallback substitutes a scaffold for failed iterations instead
	// of leaving the iteration's test code empty. Read per iteration so
	// a live toggle takes effect mid-loop.
	useFallback atomic.Bool
}

// SetUseFallback toggles scaffold substitution for failed iterations.
// Safe to call while evaluations are running; the next failed
// iteration sees the new value.
func (o *Orchestrator) SetUseFallback(v bool) {
	o.useFallback.Store(v)
}

// NewOrchestrator builds an Orchestrator. A nil sink disables message
// logging; a nil logger falls back to slog.Default().
func NewOrchestrator(client llm.Client, sink telemetry.Sink, log *slog.Logger) *Orchestrator {
	if sink == nil {
		sink = telemetry.NoOpSink{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{client: client, sink: sink, log: log}
}

// Run executes the full TDD loop for a task.
//
// Description:
//
//	Executes iterations 1..MaxIterations sequentially, strictly in
//	order. Each iteration composes a phase-specific prompt (base +
//	language guidance + adaptive strategy), sends it to the client,
//	and cleans the returned test code. A failed iteration records the
//	error with empty test code (or a fallback scaffold when fallback
//	substitution is enabled); the loop always continues so later
//	phases still run.
//
// Inputs:
//
//	ctx - Cancels the loop between iterations and aborts the in-flight
//	      completion call.
//	task - Validated task context. Language is detected from the
//	       proposed code when unset.
//
// Outputs:
//
//	[]datatypes.IterationResult - One entry per iteration, in order.
//	error - Non-nil only for invalid input or context cancellation.
func (o *Orchestrator) Run(ctx context.Context, task *datatypes.TaskContext) ([]datatypes.IterationResult, error) {
	if ctx == nil {
		return nil, llm.ErrNilContext
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	language := task.Language
	if language == "" {
		language = quality.DetectLanguage(task.ProposedCode)
	}

	ctx, span := tracer.Start(ctx, "generation.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("language", language),
		attribute.Int("max_iterations", task.MaxIterations),
	)

	results := make([]datatypes.IterationResult, 0, task.MaxIterations)
	for iteration := 1; iteration <= task.MaxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results = append(results, o.runIteration(ctx, task, language, iteration))
	}
	return results, nil
}

// GenerateSingle runs one iteration of the loop, used by callers that
// drive the cycle themselves.
func (o *Orchestrator) GenerateSingle(ctx context.Context, task *datatypes.TaskContext, iteration int) (datatypes.IterationResult, error) {
	if err := task.Validate(); err != nil {
		return datatypes.IterationResult{}, err
	}
	if iteration < 1 || iteration > task.MaxIterations {
		return datatypes.IterationResult{}, datatypes.ErrBadIterations
	}
	language := task.Language
	if language == "" {
		language = quality.DetectLanguage(task.ProposedCode)
	}
	return o.runIteration(ctx, task, language, iteration), nil
}

func (o *Orchestrator) runIteration(ctx context.Context, task *datatypes.TaskContext, language string, iteration int) datatypes.IterationResult {
	prompt := o.buildPrompt(task, language, iteration)

	o.sink.LogMessage(telemetry.DirectionOutgoing, "tdd_request", map[string]any{
		"iteration":      iteration,
		"max_iterations": task.MaxIterations,
		"language":       language,
		"prompt_length":  len(prompt),
	})

	start := time.Now()
	raw, err := o.client.Complete(ctx, prompt)
	telemetry.ObserveGeneration(o.client.Name(), time.Since(start), err)

	result := datatypes.IterationResult{Iteration: iteration, Language: language}
	if err != nil {
		o.log.Warn("test generation failed",
			"iteration", iteration, "provider", o.client.Name(), "error", err)
		result.Error = err.Error()
		if o.useFallback.Load() {
			telemetry.ObserveExecutionFallback("generation_error")
			result.TestCode = FallbackTests(task.ProposedCode, language, iteration, task.TaskDescription)
		}
	} else {
		result.TestCode = CleanupTests(raw, language)
	}

	o.sink.LogMessage(telemetry.DirectionIncoming, "tdd_tests", map[string]any{
		"iteration":   iteration,
		"language":    language,
		"code_length": len(result.TestCode),
		"fallback":    err != nil,
	})
	return result
}

// buildPrompt layers the base prompt with language guidance and the
// adaptive strategy section.
func (o *Orchestrator) buildPrompt(task *datatypes.TaskContext, language string, iteration int) string {
	prompt := BuildBasePrompt(task.ProposedCode, language, iteration, task.MaxIterations,
		task.TaskDescription, task.OriginalCode)
	prompt = EnhanceWithLanguage(prompt, language, iteration, task.MaxIterations)
	return EnhanceWithStrategy(prompt, task.ProposedCode, language, task.TaskDescription,
		iteration, task.MaxIterations)
}
