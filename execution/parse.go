// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package execution

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/AleutianAI/sentinel/datatypes"
)

// =============================================================================
// Framework output parsers
// =============================================================================

var (
	pytestSummaryRe  = regexp.MustCompile(`(\d+) passed,?\s*(\d+) failed`)
	pytestPassedRe   = regexp.MustCompile(`(\d+) passed`)
	jestSummaryRe    = regexp.MustCompile(`Tests:.*?(\d+) passed,.*?(\d+) failed,.*?(\d+) total`)
	gtestTotalRe     = regexp.MustCompile(`\[==========\]\s*(\d+) tests`)
	gtestPassedRe    = regexp.MustCompile(`\[  PASSED  \]\s*(\d+) tests?`)
	junitSummaryRe   = regexp.MustCompile(`Tests run: (\d+), Failures: (\d+), Errors: (\d+)`)
	genericTotalRe   = regexp.MustCompile(`(?i)(\d+)(?:\s+|-)(?:tests?|specs?)`)
	genericPassedRe  = regexp.MustCompile(`(?i)(\d+)(?:\s+|-)(?:passing|passed|ok)`)
	genericFailedRe  = regexp.MustCompile(`(?i)(\d+)(?:\s+|-)(?:failing|failed|errors?|broken)`)
	genericSuccessRe = regexp.MustCompile(`(?i)success|all\s+tests\s+passed`)
	errorLineRe      = regexp.MustCompile(`(?i)error|fail|exception|assertion|FAILED`)
)

// ParseOutput extracts test counts from framework output.
//
// Description:
//
//	Knows the summary formats of pytest, Jest, Google Test, and JUnit.
//	When the language-specific parse finds nothing it falls back to
//	generic "N tests / N passed / N failed" patterns and infers the
//	missing count when two of the three are known. Failed runs collect
//	up to the error-line cap from the output.
func ParseOutput(language, output string, executionTime float64) datatypes.TestExecutionResult {
	result := datatypes.TestExecutionResult{
		ExecutionTime: executionTime,
		Output:        output,
	}

	switch strings.ToLower(language) {
	case "python":
		if m := pytestSummaryRe.FindStringSubmatch(output); m != nil {
			result.PassedTests = atoi(m[1])
			result.FailedTests = atoi(m[2])
			result.TotalTests = result.PassedTests + result.FailedTests
			result.Success = result.FailedTests == 0
		} else if m := pytestPassedRe.FindStringSubmatch(output); m != nil {
			result.PassedTests = atoi(m[1])
			result.TotalTests = result.PassedTests
			result.Success = true
		}
	case "javascript", "typescript":
		if m := jestSummaryRe.FindStringSubmatch(output); m != nil {
			result.PassedTests = atoi(m[1])
			result.FailedTests = atoi(m[2])
			result.TotalTests = atoi(m[3])
			result.Success = result.FailedTests == 0
		}
	case "cpp":
		if m := gtestTotalRe.FindStringSubmatch(output); m != nil {
			result.TotalTests = atoi(m[1])
			if pm := gtestPassedRe.FindStringSubmatch(output); pm != nil {
				result.PassedTests = atoi(pm[1])
			}
			result.FailedTests = result.TotalTests - result.PassedTests
			result.Success = result.FailedTests == 0
		}
	case "java":
		if m := junitSummaryRe.FindStringSubmatch(output); m != nil {
			total := atoi(m[1])
			failures := atoi(m[2]) + atoi(m[3])
			result.TotalTests = total
			result.FailedTests = failures
			result.PassedTests = total - failures
			result.Success = failures == 0
		}
	}

	if result.TotalTests == 0 {
		parseGeneric(&result, output)
	}

	if !result.Success {
		for _, line := range strings.Split(output, "\n") {
			if errorLineRe.MatchString(line) {
				result.AddError(strings.TrimSpace(line))
			}
		}
	}
	return result
}

// parseGeneric applies framework-neutral count patterns and fills in
// whichever of passed/failed can be inferred from the total.
func parseGeneric(result *datatypes.TestExecutionResult, output string) {
	if m := genericTotalRe.FindStringSubmatch(output); m != nil {
		result.TotalTests = atoi(m[1])
	}
	if m := genericPassedRe.FindStringSubmatch(output); m != nil {
		result.PassedTests = atoi(m[1])
	}
	if m := genericFailedRe.FindStringSubmatch(output); m != nil {
		result.FailedTests = atoi(m[1])
	}

	if result.TotalTests == 0 {
		return
	}
	switch {
	case result.PassedTests == 0 && result.FailedTests == 0:
		if genericSuccessRe.MatchString(output) {
			result.PassedTests = result.TotalTests
			result.Success = true
		}
	case result.PassedTests > 0 && result.FailedTests == 0:
		// Mismatched runner output can report more passes than tests;
		// never infer a negative count.
		result.FailedTests = max(0, result.TotalTests-result.PassedTests)
		result.Success = result.FailedTests == 0
	case result.FailedTests > 0 && result.PassedTests == 0:
		result.PassedTests = max(0, result.TotalTests-result.FailedTests)
		result.Success = result.FailedTests == 0
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
