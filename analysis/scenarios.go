// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// Requirements
// =============================================================================

var requirementIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)should\s+\w+`),
	regexp.MustCompile(`(?i)must\s+\w+`),
	regexp.MustCompile(`(?i)needs?\s+to\s+\w+`),
	regexp.MustCompile(`(?i)implement\s+\w+`),
	regexp.MustCompile(`(?i)create\s+\w+`),
	regexp.MustCompile(`(?i)develop\s+\w+`),
	regexp.MustCompile(`(?i)add\s+\w+`),
	regexp.MustCompile(`(?i)support\s+\w+`),
	regexp.MustCompile(`(?i)handle\s+\w+`),
	regexp.MustCompile(`(?i)ensure\s+\w+`),
	regexp.MustCompile(`(?i)allow\s+\w+`),
	regexp.MustCompile(`(?i)provide\s+\w+`),
}

// ExtractRequirements pulls functional requirements out of a task
// description by scanning sentences for requirement indicators
// ("should", "must", "handle", ...). When none match, every sentence
// with substance becomes an implicit requirement.
func ExtractRequirements(text string) []string {
	sentences := splitSentences(text)

	var requirements []string
	seen := make(map[string]bool)
	add := func(sentence string) {
		if req := cleanRequirement(sentence); req != "" && !seen[req] {
			seen[req] = true
			requirements = append(requirements, req)
		}
	}

	for _, sentence := range sentences {
		for _, indicator := range requirementIndicators {
			if indicator.MatchString(sentence) {
				add(sentence)
				break
			}
		}
	}
	if len(requirements) == 0 {
		for _, sentence := range sentences {
			add(sentence)
		}
	}
	return requirements
}

// =============================================================================
// Domain testing patterns
// =============================================================================

// TestingPattern groups the setup steps, strategies, and edge cases
// characteristic of testing one task domain.
type TestingPattern struct {
	Setup      []string
	Strategies []string
	EdgeCases  []string
}

var testingPatterns = map[string]TestingPattern{
	DomainAPI: {
		Setup:      []string{"create client", "instantiate api", "mock server"},
		Strategies: []string{"validate response codes", "check headers", "verify payloads"},
		EdgeCases:  []string{"timeout", "server error", "malformed response", "rate limiting"},
	},
	DomainDataProcessing: {
		Setup:      []string{"prepare input data", "setup processing pipeline"},
		Strategies: []string{"verify output format", "validate transformations", "check performance"},
		EdgeCases:  []string{"empty dataset", "malformed data", "extremely large dataset"},
	},
	DomainAlgorithm: {
		Setup:      []string{"initialize algorithm", "prepare test cases"},
		Strategies: []string{"verify correctness", "test time complexity", "validate optimizations"},
		EdgeCases:  []string{"worst-case inputs", "already sorted data", "duplicate values"},
	},
	DomainUserInterface: {
		Setup:      []string{"render component", "simulate user environment"},
		Strategies: []string{"check rendering", "test interactions", "verify state changes"},
		EdgeCases:  []string{"mobile viewport", "accessibility", "different browsers/platforms"},
	},
	DomainDatabase: {
		Setup:      []string{"create test database", "seed initial data"},
		Strategies: []string{"verify CRUD operations", "test transactions", "validate constraints"},
		EdgeCases:  []string{"connection failure", "concurrent access", "data corruption"},
	},
	DomainSecurity: {
		Setup:      []string{"create authenticated context", "prepare secure environment"},
		Strategies: []string{"test authentication", "verify authorization", "check data protection"},
		EdgeCases:  []string{"invalid credentials", "expired tokens", "injection attempts"},
	},
}

// TestingPatternFor returns the testing pattern for a domain, with ok
// false for domains without one (general).
func TestingPatternFor(domain string) (TestingPattern, bool) {
	tp, ok := testingPatterns[domain]
	return tp, ok
}

// =============================================================================
// Scenario generation
// =============================================================================

var conceptScenarios = map[string][]string{
	"validation": {
		"Test input validation for all parameters",
		"Test validation error messages are helpful and accurate",
	},
	"sort": {
		"Test sorting with pre-sorted input",
		"Test sorting with reverse-sorted input",
		"Test sorting stability with equal elements",
		"Test sorting performance with large datasets",
	},
	"search": {
		"Test searching for existing elements",
		"Test searching for non-existent elements",
		"Test search with duplicate elements",
		"Test search performance with large datasets",
	},
	"transform": {
		"Test transformation preserves all required data",
		"Test transformation correctly handles all formats",
		"Test transformation error handling for invalid formats",
	},
	"async": {
		"Test asynchronous operations complete correctly",
		"Test handling of concurrent requests",
		"Test proper error propagation in async context",
	},
	"io": {
		"Test file operations with valid and invalid paths",
		"Test handling of IO errors",
		"Test proper resource cleanup after operations",
	},
}

var scenarioConceptOrder = []string{"validation", "sort", "search", "transform", "async", "io"}

var priorityEdgeConcepts = []string{"error", "validation", "edge", "performance", "security"}

// TestScenarios turns requirements, concepts, and edge cases into a
// deduplicated scenario list.
//
// Description:
//
//	Requirements become "Test that code correctly ..." scenarios, then
//	concept-specific standard scenarios and domain strategies are
//	appended. Edge cases come last: all of them when there are five or
//	fewer, otherwise priority concepts first with a soft cap of ten
//	scenarios total before the remainder is cut. Dedup is
//	case-insensitive exact match.
func TestScenarios(requirements []string, concepts map[string]bool,
	edgeCases []string, domain string) []string {

	var scenarios []string
	for _, req := range requirements {
		scenarios = append(scenarios, "Test that code correctly "+req)
	}

	for _, concept := range scenarioConceptOrder {
		if concepts[concept] {
			scenarios = append(scenarios, conceptScenarios[concept]...)
		}
	}

	if tp, ok := testingPatterns[domain]; ok {
		for _, strategy := range tp.Strategies {
			scenarios = append(scenarios, "Test "+strategy)
		}
	}

	if len(edgeCases) <= 5 {
		scenarios = append(scenarios, edgeCases...)
	} else {
		var priority, other []string
		for _, ec := range edgeCases {
			lower := strings.ToLower(ec)
			isPriority := false
			for _, concept := range priorityEdgeConcepts {
				if strings.Contains(lower, concept) {
					isPriority = true
					break
				}
			}
			if isPriority {
				priority = append(priority, ec)
			} else {
				other = append(other, ec)
			}
		}
		scenarios = append(scenarios, priority...)
		if remaining := 10 - len(scenarios); remaining > 0 {
			if remaining > len(other) {
				remaining = len(other)
			}
			scenarios = append(scenarios, other[:remaining]...)
		}
	}

	var unique []string
	seen := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		norm := strings.ToLower(s)
		if !seen[norm] {
			seen[norm] = true
			unique = append(unique, s)
		}
	}
	return unique
}

// =============================================================================
// Task analysis aggregate
// =============================================================================

// TaskAnalysis bundles everything the matcher learned about one task.
type TaskAnalysis struct {
	KeyTerms        map[string]bool
	KeyRequirements []string
	Concepts        []string
	EdgeCases       []string
	TestScenarios   []string
	Domain          string
}

// Analyze runs the full task-analysis pipeline over one description.
//
// Description:
//
//	Convenience wrapper combining term extraction, concept matching,
//	requirement extraction, edge-case identification, domain
//	classification, and scenario generation. An empty description
//	yields a zero-value analysis with domain "general"; that is a
//	defined floor, not an error.
func Analyze(taskDescription string) TaskAnalysis {
	if strings.TrimSpace(taskDescription) == "" {
		return TaskAnalysis{Domain: DomainGeneral}
	}

	keyTerms := ExtractKeyTerms(taskDescription)
	concepts := IdentifyConcepts(taskDescription, keyTerms)
	requirements := ExtractRequirements(taskDescription)
	edgeCases := IdentifyEdgeCases(taskDescription, concepts)
	domain := IdentifyDomain(taskDescription, keyTerms, concepts)
	scenarios := TestScenarios(requirements, concepts, edgeCases, domain)

	conceptList := make([]string, 0, len(concepts))
	for c := range concepts {
		conceptList = append(conceptList, c)
	}
	sort.Strings(conceptList)

	return TaskAnalysis{
		KeyTerms:        keyTerms,
		KeyRequirements: requirements,
		Concepts:        conceptList,
		EdgeCases:       edgeCases,
		TestScenarios:   scenarios,
		Domain:          domain,
	}
}
