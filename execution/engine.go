// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package execution runs generated tests against proposed code in a
// throwaway workspace, with a simulation path for languages where no
// local toolchain invocation is practical.
package execution

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/telemetry"
)

var tracer = otel.Tracer("sentinel.execution")

// DefaultTimeout bounds a single test run.
const DefaultTimeout = 30 * time.Second

// fileExtensions maps languages to source file extensions inside the
// scratch workspace.
var fileExtensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"csharp":     ".cs",
	"cpp":        ".cpp",
	"rust":       ".rs",
	"go":         ".go",
	"ruby":       ".rb",
}

// =============================================================================
// Engine
// =============================================================================

// Engine executes one iteration's tests.
//
// Thread Safety: safe for concurrent use. Each run gets its own
// temporary directory.
type Engine struct {
	Timeout time.Duration
	log     *slog.Logger
}

// NewEngine builds an Engine with the default 30s run timeout.
func NewEngine(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{Timeout: DefaultTimeout, log: log}
}

// Run executes the tests for one iteration and returns parsed results.
//
// Description:
//
//	Writes the implementation and test code to a temporary directory,
//	rewrites test imports to reference the implementation file, and
//	runs the language's test command. Languages without a runnable
//	command here (everything except Python and JavaScript) fall back
//	to quality-based simulation, as do command failures and timeouts
//	with no parseable output. The result always satisfies
//	passed+failed == total with total >= 1.
func (e *Engine) Run(ctx context.Context, testCode, implCode, language string,
	iteration int, taskDescription string) datatypes.TestExecutionResult {

	language = strings.ToLower(language)
	ctx, span := tracer.Start(ctx, "execution.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("language", language),
		attribute.Int("iteration", iteration),
	)

	dir, err := os.MkdirTemp("", "sentinel-tests-*")
	if err != nil {
		e.log.Warn("could not create scratch workspace, simulating", "error", err)
		telemetry.ObserveExecutionFallback("workspace_error")
		return Simulate(testCode, implCode, language, iteration, taskDescription)
	}
	defer os.RemoveAll(dir)

	ext, ok := fileExtensions[language]
	if !ok {
		ext = ".txt"
	}
	implPath := filepath.Join(dir, "implementation"+ext)
	testPath := filepath.Join(dir, "test"+ext)
	if err := os.WriteFile(implPath, []byte(implCode), 0o600); err != nil {
		telemetry.ObserveExecutionFallback("workspace_error")
		return Simulate(testCode, implCode, language, iteration, taskDescription)
	}
	adjusted := AdjustImports(testCode, language, "implementation")
	if err := os.WriteFile(testPath, []byte(adjusted), 0o600); err != nil {
		telemetry.ObserveExecutionFallback("workspace_error")
		return Simulate(testCode, implCode, language, iteration, taskDescription)
	}

	cmd := testCommand(language, testPath)
	if len(cmd) == 0 {
		telemetry.ObserveExecutionFallback("no_runner")
		return Simulate(testCode, implCode, language, iteration, taskDescription)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	proc := exec.CommandContext(runCtx, cmd[0], cmd[1:]...)
	proc.Dir = dir
	out, runErr := proc.CombinedOutput()
	elapsed := time.Since(start).Seconds()

	if runCtx.Err() == context.DeadlineExceeded {
		e.log.Error("test execution timed out", "language", language, "iteration", iteration)
		result := datatypes.TestExecutionResult{ExecutionTime: elapsed, Output: string(out)}
		result.AddError("Test execution timed out")
		return normalize(result)
	}
	if runErr != nil && len(out) == 0 {
		e.log.Warn("test runner unavailable, simulating",
			"language", language, "error", runErr)
		telemetry.ObserveExecutionFallback("runner_error")
		return Simulate(testCode, implCode, language, iteration, taskDescription)
	}

	result := ParseOutput(language, string(out), elapsed)
	return normalize(result)
}

// testCommand returns the argv for a language's test runner, or nil
// when the language is simulation-only.
func testCommand(language, testPath string) []string {
	switch language {
	case "python":
		return []string{"python", "-m", "pytest", testPath, "-v"}
	case "javascript":
		return []string{"npx", "jest", testPath, "--verbose"}
	}
	return nil
}

// normalize enforces the count arithmetic the rest of the pipeline
// relies on: passed+failed == total, total >= 1, success iff no
// failures.
func normalize(r datatypes.TestExecutionResult) datatypes.TestExecutionResult {
	if r.TotalTests < r.PassedTests+r.FailedTests {
		r.TotalTests = r.PassedTests + r.FailedTests
	}
	if r.PassedTests+r.FailedTests < r.TotalTests {
		r.FailedTests = r.TotalTests - r.PassedTests
	}
	if r.TotalTests < 1 {
		r.TotalTests = 1
		r.PassedTests = 0
		r.FailedTests = 1
	}
	r.Success = r.FailedTests == 0
	return r
}

// =============================================================================
// Import rewriting
// =============================================================================

var (
	pyImportRe     = regexp.MustCompile(`from\s+\w+\s+import|import\s+\w+`)
	pyFromRe       = regexp.MustCompile(`from\s+(\w+)\s+import`)
	pyPlainRe      = regexp.MustCompile(`(?m)^\s*import\s+(\w+)`)
	jsImportRe     = regexp.MustCompile(`(require|import)\s+.*from`)
	jsImportPathRe = regexp.MustCompile(`(require|import)(\s+.*from\s+)['"][^'"]+['"]`)
)

// AdjustImports rewrites test imports to target the scratch
// implementation module.
func AdjustImports(testCode, language, implModule string) string {
	switch strings.ToLower(language) {
	case "python":
		if pyImportRe.MatchString(testCode) {
			testCode = pyFromRe.ReplaceAllString(testCode, "from "+implModule+" import")
			testCode = pyPlainRe.ReplaceAllString(testCode, "import "+implModule)
		} else {
			testCode = "from " + implModule + " import *\n\n" + testCode
		}
	case "javascript", "typescript":
		if jsImportRe.MatchString(testCode) {
			testCode = jsImportPathRe.ReplaceAllString(testCode, `$1$2'./`+implModule+`'`)
		} else if strings.EqualFold(language, "javascript") {
			testCode = fmt.Sprintf("const { ...implementation } = require('./%s');\n\n", implModule) + testCode
		} else {
			testCode = fmt.Sprintf("import * as implementation from './%s';\n\n", implModule) + testCode
		}
	case "cpp":
		if !strings.Contains(testCode, `#include "implementation.h"`) {
			testCode = "#include \"implementation.h\"\n" + testCode
		}
	}
	return testCode
}
