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
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/sentinel/analysis"
)

// =============================================================================
// Adaptive test strategy
// =============================================================================

// Strategy captures the adaptive plan for one generation iteration:
// what to focus on, which pattern drives the emphasis, and which
// frameworks to suggest.
type Strategy struct {
	Focus             string
	PrimaryPattern    string
	SecondaryPatterns []string
	TestTypes         []string
	Frameworks        []string
	PatternGuidance   string
}

// BuildStrategy derives the adaptive test strategy for an iteration.
//
// Description:
//
//	Ranks programming patterns over the code and task text. With no
//	pattern matched the strategy is a generic functional/edge-case
//	plan on the language's default frameworks. Otherwise the top
//	pattern supplies test types, specialized frameworks, and a
//	guidance block, with the focus string derived from loop progress.
func BuildStrategy(code, language, taskDescription string, iteration, maxIterations int) Strategy {
	patterns := analysis.IdentifyPatterns(code, taskDescription)
	if len(patterns) == 0 {
		return Strategy{
			Focus:      fmt.Sprintf("Iteration %d standard tests", iteration),
			TestTypes:  []string{"functional", "edge_cases"},
			Frameworks: defaultFrameworks(language),
		}
	}

	primary := patterns[0]
	data := analysis.Patterns[primary]

	s := Strategy{
		Focus:             fmt.Sprintf("Iteration %d %s", iteration, focusLabel(iteration, maxIterations)),
		PrimaryPattern:    primary,
		SecondaryPatterns: patterns[1:],
		TestTypes:         data.TestFocus,
		Frameworks:        patternFrameworks(primary, language),
		PatternGuidance:   patternGuidance(primary, iteration, maxIterations),
	}
	slog.Debug("built adaptive test strategy",
		"pattern", primary, "iteration", iteration, "max_iterations", maxIterations)
	return s
}

// focusLabel names the testing emphasis for the loop progress point.
func focusLabel(iteration, maxIterations int) string {
	progress := float64(iteration) / float64(maxIterations)
	switch {
	case progress < 0.25:
		return "basic functionality tests"
	case progress < 0.5:
		return "extended functionality tests"
	case progress < 0.75:
		return "error handling tests"
	case iteration < maxIterations:
		return "performance and edge case tests"
	default:
		return "comprehensive review"
	}
}

var defaultFrameworkTable = map[string][]string{
	"python":     {"pytest", "unittest"},
	"javascript": {"jest", "mocha"},
	"typescript": {"jest", "jasmine"},
	"java":       {"junit", "testng"},
	"csharp":     {"nunit", "xunit"},
	"go":         {"testing", "testify"},
	"ruby":       {"rspec", "minitest"},
	"php":        {"phpunit", "codeception"},
	"rust":       {"cargo test", "quickcheck"},
	"swift":      {"xctest", "quick"},
	"kotlin":     {"junit", "kotlintest"},
}

func defaultFrameworks(language string) []string {
	if fws, ok := defaultFrameworkTable[strings.ToLower(language)]; ok {
		return fws
	}
	return []string{"standard testing library"}
}

// specializedFrameworkTable lists pattern-specific framework additions
// per language. Defaults are appended after these, deduplicated.
var specializedFrameworkTable = map[string]map[string][]string{
	"data_structure": {
		"python":     {"pytest", "hypothesis"},
		"java":       {"junit", "jqwik"},
		"javascript": {"jest", "fast-check"},
	},
	"algorithm": {
		"python":     {"pytest", "hypothesis"},
		"java":       {"junit", "jmh"},
		"javascript": {"jest", "benchmark.js"},
	},
	"api_service": {
		"python":     {"pytest", "requests-mock", "responses"},
		"javascript": {"jest", "nock", "supertest"},
		"java":       {"mockito", "wiremock"},
	},
	"concurrency": {
		"python":     {"pytest", "pytest-asyncio"},
		"java":       {"junit", "testcontainers"},
		"javascript": {"jest", "supertest"},
	},
	"database": {
		"python":     {"pytest", "sqlalchemy"},
		"javascript": {"jest", "knex"},
		"java":       {"junit", "testcontainers"},
	},
}

func patternFrameworks(pattern, language string) []string {
	defaults := defaultFrameworks(language)
	specialized := specializedFrameworkTable[pattern][strings.ToLower(language)]
	if len(specialized) == 0 {
		return defaults
	}
	combined := append([]string(nil), specialized...)
	for _, fw := range defaults {
		present := false
		for _, c := range combined {
			if c == fw {
				present = true
				break
			}
		}
		if !present {
			combined = append(combined, fw)
		}
	}
	return combined
}

var guidanceTemplates = map[string]string{
	"data_structure": `
For this %[2]s implementation, focus on testing:
1. Basic operations (%[1]s)
2. Edge cases (empty, single item, maximum capacity)
3. Error handling for invalid operations
4. Performance with larger data sets
`,
	"algorithm": `
For this algorithm, focus on testing:
1. Correctness with various inputs
2. Edge cases (empty input, single item, large inputs)
3. Performance characteristics
4. Expected complexity (time and space)
`,
	"api_service": `
For this API/service, focus on testing:
1. Correct handling of valid requests
2. Proper error responses for invalid inputs
3. Authentication and authorization if applicable
4. Edge cases in the request/response cycle
`,
	"file_io": `
For this file I/O code, focus on testing:
1. Correct reading/writing of valid files
2. Proper error handling for invalid files or permissions
3. Resource management (file handles being closed)
4. Performance with larger files if relevant
`,
	"string_processing": `
For this string processing code, focus on testing:
1. Correct handling of valid strings
2. Edge cases (empty string, very long strings, special characters)
3. Unicode and internationalization if relevant
4. Performance with larger inputs
`,
	"auth": `
For this authentication code, focus on testing:
1. Successful authentication with valid credentials
2. Rejection of invalid credentials
3. Proper security practices (password hashing, etc.)
4. Login attempt rate limiting if applicable
`,
	"mathematical": `
For this mathematical code, focus on testing:
1. Correctness for normal inputs
2. Edge cases (zero, negative numbers, very large numbers)
3. Precision and floating-point issues if relevant
4. Performance for complex calculations
`,
	"database": `
For this database code, focus on testing:
1. Correct data creation, reading, updating, and deletion
2. Proper error handling for database failures
3. Transaction management if applicable
4. Performance with larger datasets
`,
	"concurrency": `
For this concurrent code, focus on testing:
1. Correct behavior in single-threaded execution
2. Thread safety and race conditions
3. Deadlock prevention
4. Performance under concurrent load
`,
	"ui_graphics": `
For this UI/graphics code, focus on testing:
1. Correct rendering of components
2. Proper handling of user interactions
3. Visual consistency and layout
4. Performance and responsiveness
`,
}

const genericGuidance = `
For this code, focus on testing:
1. Basic functionality
2. Edge cases
3. Error handling
4. Performance considerations
`

// namedStructureTypes drives the structure-type substitution in the
// data_structure guidance template.
var namedStructureTypes = map[string]bool{
	"stack": true, "queue": true, "list": true, "tree": true,
	"graph": true, "hash": true, "map": true, "dictionary": true,
}

func patternGuidance(pattern string, iteration, maxIterations int) string {
	data := analysis.Patterns[pattern]
	operations := strings.Join(data.Operations, ", ")

	structureType := ""
	if pattern == "data_structure" {
		for _, kw := range data.Keywords {
			if namedStructureTypes[kw] {
				structureType = kw
				break
			}
		}
		if structureType == "" {
			structureType = "data structure"
		}
	}

	template, ok := guidanceTemplates[pattern]
	if !ok {
		template = genericGuidance
	}
	guidance := template
	if strings.Contains(template, "%[1]s") {
		guidance = fmt.Sprintf(template, operations, structureType)
	}

	var iterationGuidance string
	switch {
	case iteration == 1:
		iterationGuidance = "Focus on basic functionality tests in this first iteration."
	case iteration == maxIterations:
		iterationGuidance = "As this is the final iteration, provide a comprehensive assessment of the code."
	case iteration == 2:
		iterationGuidance = "Now that basic tests are done, focus on more comprehensive test cases."
	case iteration == 3:
		iterationGuidance = "Focus on error handling and edge cases in this iteration."
	default:
		iterationGuidance = "Focus on performance and advanced scenarios in this iteration."
	}

	return guidance + "\n\n" + iterationGuidance
}

// EnhanceWithStrategy appends the adaptive strategy section to a base
// prompt.
func EnhanceWithStrategy(basePrompt, code, language, taskDescription string,
	iteration, maxIterations int) string {

	s := BuildStrategy(code, language, taskDescription, iteration, maxIterations)

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n")
	fmt.Fprintf(&b, "\n# Adaptive Test Strategy\nFocus: %s\n\n", s.Focus)

	if s.PrimaryPattern != "" {
		fmt.Fprintf(&b, "Detected pattern: %s\n", s.PrimaryPattern)
		if len(s.SecondaryPatterns) > 0 {
			fmt.Fprintf(&b, "Secondary patterns: %s\n", strings.Join(s.SecondaryPatterns, ", "))
		}
		b.WriteString("\n")
	}
	if len(s.TestTypes) > 0 {
		fmt.Fprintf(&b, "Key areas to test: %s\n", strings.Join(s.TestTypes, ", "))
	}
	if len(s.Frameworks) > 0 {
		top := s.Frameworks
		if len(top) > 2 {
			top = top[:2]
		}
		fmt.Fprintf(&b, "Recommended testing frameworks: %s\n\n", strings.Join(top, ", "))
	}
	if s.PatternGuidance != "" {
		fmt.Fprintf(&b, "Pattern-specific guidance:\n%s\n", s.PatternGuidance)
	}

	fmt.Fprintf(&b, `
Remember to adapt these tests to the specific requirements of the task: %q
Your tests should be thorough yet focused on the most relevant aspects for this type of code.
`, taskDescription)

	return b.String()
}
