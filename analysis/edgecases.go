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
	"strings"
)

// =============================================================================
// Edge-case catalog
// =============================================================================

// edgeCaseConceptOrder fixes the order canned lists are emitted in.
var edgeCaseConceptOrder = []string{
	"numeric", "string", "array", "map", "error", "async",
	"performance", "io", "network", "concurrency", "memory",
}

// conceptEdgeCases holds canned edge-case prompts per concept.
var conceptEdgeCases = map[string][]string{
	"numeric": {
		"Test with zero values",
		"Test with negative numbers",
		"Test with very large numbers",
		"Test with decimal/floating point values",
		"Test with minimum/maximum allowed values",
		"Test with NaN or infinity values",
		"Test with numeric overflow/underflow",
	},
	"string": {
		"Test with empty strings",
		"Test with very long strings",
		"Test with special characters",
		"Test with unicode/non-ASCII characters",
		"Test with whitespace-only strings",
		"Test with strings containing escape characters",
		"Test with multi-line strings",
	},
	"array": {
		"Test with empty arrays/lists",
		"Test with very large arrays/lists",
		"Test with nested arrays/lists",
		"Test with duplicate elements",
		"Test with mixed type elements",
		"Test with pre-sorted and reverse-sorted arrays",
		"Test with arrays/lists containing null/None values",
	},
	"map": {
		"Test with empty dictionaries/maps",
		"Test with missing keys",
		"Test with nested dictionaries/maps",
		"Test with complex key types",
		"Test with very large dictionaries/maps",
		"Test with key collisions",
		"Test with null/None values in keys or values",
	},
	"error": {
		"Test error handling for invalid inputs",
		"Test error handling for boundary conditions",
		"Test error handling for resource failures",
		"Test error propagation through call stack",
		"Test error recovery mechanisms",
		"Test custom exceptions/error types",
		"Test proper error messaging",
	},
	"async": {
		"Test with concurrent operations",
		"Test with delayed responses",
		"Test with timeout conditions",
		"Test race conditions",
		"Test cancellation scenarios",
		"Test error handling in asynchronous code",
	},
	"performance": {
		"Test with large inputs for performance",
		"Test with worst-case scenarios",
		"Test memory usage with large inputs",
		"Test response time under load",
		"Test caching mechanisms",
		"Test scaling behavior",
	},
	"io": {
		"Test with empty files/streams",
		"Test with very large files/streams",
		"Test with corrupted input",
		"Test with file access permissions issues",
		"Test with network/connection failures",
	},
	"network": {
		"Test with network latency",
		"Test with connection failures",
		"Test with partial responses",
		"Test with timeouts",
		"Test with malformed responses",
	},
	"concurrency": {
		"Test with multiple concurrent threads/processes",
		"Test locking mechanisms",
		"Test for race conditions",
		"Test deadlock prevention",
		"Test thread scheduling scenarios",
	},
	"memory": {
		"Test memory allocation failures",
		"Test memory leak prevention",
		"Test with very large memory requirements",
		"Test memory cleanup/release",
		"Test memory fragmentation scenarios",
	},
}

var edgeCaseIndicators = []*regexp.Regexp{
	regexp.MustCompile(`edge\s+case`),
	regexp.MustCompile(`boundary`),
	regexp.MustCompile(`corner\s+case`),
	regexp.MustCompile(`limit`),
	regexp.MustCompile(`exception`),
	regexp.MustCompile(`error`),
	regexp.MustCompile(`handle`),
	regexp.MustCompile(`crash`),
	regexp.MustCompile(`fail`),
	regexp.MustCompile(`special\s+case`),
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]`)

var requirementPrefixRe = regexp.MustCompile(
	`(?i)^(you should|you need to|please|the code should|implement|create)`)

// IdentifyEdgeCases lists edge cases worth testing for a task.
//
// Description:
//
//	Emits the canned edge-case list for every present concept, in the
//	fixed concept-table order, then scans sentences for explicit
//	edge-case mentions ("boundary", "corner case", ...) and appends the
//	cleaned sentence text. Deduplication is by exact string only.
//
// Outputs:
//
//	[]string - Ordered edge-case prompts.
func IdentifyEdgeCases(text string, concepts map[string]bool) []string {
	var edgeCases []string
	for _, concept := range edgeCaseConceptOrder {
		if concepts[concept] {
			edgeCases = append(edgeCases, conceptEdgeCases[concept]...)
		}
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(edgeCases))
	for _, ec := range edgeCases {
		seen[ec] = true
	}
	for _, indicator := range edgeCaseIndicators {
		if !indicator.MatchString(lower) {
			continue
		}
		for _, sentence := range splitSentences(text) {
			if !indicator.MatchString(strings.ToLower(sentence)) {
				continue
			}
			if clean := cleanRequirement(sentence); clean != "" {
				entry := "Test " + clean
				if !seen[entry] {
					seen[entry] = true
					edgeCases = append(edgeCases, entry)
				}
			}
		}
	}
	return edgeCases
}

// splitSentences splits text on sentence-ending punctuation.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanRequirement strips boilerplate prefixes and punctuation from a
// requirement sentence. Returns "" when too little content remains.
func cleanRequirement(text string) string {
	text = requirementPrefixRe.ReplaceAllString(text, "")
	text = strings.Trim(text, ". \t\n,")
	if len(text) > 10 {
		return text
	}
	return ""
}
