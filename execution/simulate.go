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
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/sentinel/datatypes"
	"github.com/AleutianAI/sentinel/quality"
)

// =============================================================================
// Simulated execution
// =============================================================================

// simulationPassCap bounds the simulated pass ratio so simulated runs
// never look perfect.
const simulationPassCap = 0.95

// Simulate produces an execution result without running anything.
//
// Description:
//
//	Scores the tests with the quality heuristics and derives the pass
//	ratio as min(0.95, quality + iteration*0.1): better tests and
//	later iterations pass more. Test count comes from language test
//	declaration patterns, with an assertion-based estimate (roughly
//	two assertions per test) when none match and a floor of one. The
//	result is marked Simulated so downstream consumers can tell it
//	apart from a real run.
func Simulate(testCode, implCode, language string, iteration int,
	taskDescription string) datatypes.TestExecutionResult {

	metrics := quality.Evaluate(testCode, taskDescription, implCode, language)

	total := countSimulatedTests(testCode, language)
	passRatio := metrics.OverallQuality + float64(iteration)*0.1
	if passRatio > simulationPassCap {
		passRatio = simulationPassCap
	}
	passed := int(float64(total) * passRatio)
	failed := total - passed

	return datatypes.TestExecutionResult{
		Success:       failed == 0,
		TotalTests:    total,
		PassedTests:   passed,
		FailedTests:   failed,
		ExecutionTime: 0.1 * float64(total),
		Output: fmt.Sprintf("Simulated test execution for %s - %d/%d tests passed",
			language, passed, total),
		Simulated: true,
	}
}

// simulationTestPatterns declares what counts as one test per language
// for the simulated run.
var simulationTestPatterns = map[string][]*regexp.Regexp{
	"python": {
		regexp.MustCompile(`def\s+test_\w+\s*\(`),
		regexp.MustCompile(`self\.assert\w+\(`),
	},
	"javascript": {
		regexp.MustCompile(`it\s*\(\s*['"]`),
		regexp.MustCompile(`test\s*\(\s*['"]`),
	},
	"typescript": {
		regexp.MustCompile(`it\s*\(\s*['"]`),
		regexp.MustCompile(`test\s*\(\s*['"]`),
	},
	"java": {
		regexp.MustCompile(`@Test`),
		regexp.MustCompile(`public\s+void\s+test\w+`),
	},
	"cpp": {
		regexp.MustCompile(`TEST\s*\(`),
		regexp.MustCompile(`TEST_F\s*\(`),
	},
}

var genericSimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`test`),
	regexp.MustCompile(`assert`),
}

var simAssertionRe = regexp.MustCompile(`(?i)assert|expect|should`)

func countSimulatedTests(testCode, language string) int {
	patterns, ok := simulationTestPatterns[strings.ToLower(language)]
	if !ok {
		patterns = genericSimPatterns
	}

	count := 0
	for _, re := range patterns {
		count += len(re.FindAllString(testCode, -1))
	}

	if count == 0 {
		if assertions := len(simAssertionRe.FindAllString(testCode, -1)); assertions > 0 {
			count = assertions / 2
			if count < 1 {
				count = 1
			}
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}
