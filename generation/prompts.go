// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package generation drives the iterative TDD test-generation loop:
// composing language- and iteration-aware prompts, invoking the
// completion collaborator, and collecting the returned test code.
package generation

import (
	"fmt"
	"strings"
)

// =============================================================================
// Iteration phases
// =============================================================================

// Phase identifies the canonical test-generation phase of an iteration.
// The five phases map 1:1 onto iterations for the default loop length;
// other loop lengths map via progress fraction.
type Phase int

const (
	PhaseBasic Phase = iota + 1
	PhaseExtended
	PhaseErrorHandling
	PhasePerformance
	PhaseReview
)

// PhaseFor maps an iteration to its canonical phase.
//
// Description:
//
//	The final iteration is always the comprehensive-review phase. For
//	earlier iterations the progress fraction iteration/maxIterations
//	selects the phase: <25% basic, <50% extended, <75% error handling,
//	otherwise performance. With the default five iterations this yields
//	the 1:1 mapping basic, extended, error handling, performance,
//	review.
func PhaseFor(iteration, maxIterations int) Phase {
	if iteration >= maxIterations {
		return PhaseReview
	}
	progress := float64(iteration) / float64(maxIterations)
	switch {
	case progress < 0.25:
		return PhaseBasic
	case progress < 0.5:
		return PhaseExtended
	case progress < 0.75:
		return PhaseErrorHandling
	default:
		return PhasePerformance
	}
}

// iterationInstructions holds the hand-authored instruction block per
// phase, indexed by Phase.
var iterationInstructions = map[Phase]string{
	PhaseBasic: `
For this first iteration, create basic tests that verify:
1. The function exists and is callable
2. It returns the correct result for basic input values (0, 1)
3. Include simple edge cases
4. Verify the behavior aligns with the task description
`,
	PhaseExtended: `
For the second iteration, extend test coverage to include:
1. Testing with larger inputs (5, 10)
2. Verify correctness of results with known values
3. Add more comprehensive edge cases
4. Ensure the implementation satisfies all requirements in the task description
`,
	PhaseErrorHandling: `
For the third iteration, focus on error handling:
1. Test behavior with invalid inputs (negative numbers, non-integers)
2. Check for potential exceptions or error conditions
3. Verify function handles boundary conditions correctly
4. Test edge cases specific to the task description
`,
	PhasePerformance: `
For the fourth iteration, focus on performance considerations:
1. Test with larger inputs that might cause stack overflow
2. Consider performance implications and possible optimizations
3. Suggest potential improvements to handle large inputs
4. Verify the implementation is efficient for the task described
`,
	PhaseReview: `
For the final iteration, conduct a comprehensive review:
1. Summarize test coverage
2. Identify any remaining gaps in testing
3. Suggest code improvements based on test findings
4. Provide a final assessment of code quality
5. Evaluate how well the implementation fulfills the task description
`,
}

const promptSuffix = `
Return ONLY the test code in the appropriate language, nothing else. Do not include explanations, just the executable test code that can be run directly.
For Python, use pytest or unittest framework.
Ensure tests are well-structured and follow best practices for the language.
`

// =============================================================================
// Prompt assembly
// =============================================================================

// BuildBasePrompt composes the core TDD prompt for one iteration.
//
// Description:
//
//	Embeds the code under test, optional task description, optional
//	original code (only when it differs from the current code), and the
//	phase-specific instruction block, ending with the return-only-code
//	suffix. Language and pattern guidance are layered on separately by
//	the orchestrator.
func BuildBasePrompt(code, language string, iteration, maxIterations int,
	taskDescription, originalCode string) string {

	var b strings.Builder
	fmt.Fprintf(&b, `
You are a test-driven development expert. Generate unit tests for the following %s code:

`+"```%s\n%s\n```\n", language, language, code)

	if taskDescription != "" {
		fmt.Fprintf(&b, `
The code is intended to: %s

Make sure your tests verify that the code correctly fulfills this purpose.
`, taskDescription)
	}

	if originalCode != "" && originalCode != code {
		fmt.Fprintf(&b, `
This is a modification of the original code:

`+"```%s\n%s\n```\n"+`
Your tests should verify that the modifications maintain correct behavior and fulfill the intended purpose.
`, language, originalCode)
	}

	b.WriteString(iterationInstructions[PhaseFor(iteration, maxIterations)])
	b.WriteString(promptSuffix)
	return b.String()
}

// =============================================================================
// Response cleanup
// =============================================================================

// CleanupTests normalizes LLM-generated test code.
//
// Description:
//
//	Strips markdown code-fence markers and, for Python, prepends a
//	defensive framework import when the framework name appears without
//	any import statement. The returned text is trimmed.
func CleanupTests(testCode, language string) string {
	testCode = strings.ReplaceAll(testCode, "```"+strings.ToLower(language), "")
	testCode = strings.ReplaceAll(testCode, "```", "")

	if strings.EqualFold(language, "python") && !strings.Contains(testCode, "import ") {
		if strings.Contains(testCode, "unittest") {
			testCode = "import unittest\n\n" + testCode
		} else if strings.Contains(testCode, "pytest") {
			testCode = "import pytest\n\n" + testCode
		}
	}
	return strings.TrimSpace(testCode)
}
