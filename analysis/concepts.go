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

import "strings"

// =============================================================================
// Concept taxonomy
// =============================================================================

// conceptOrder fixes the enumeration order of the concept taxonomy.
// Edge-case lists and other ordered outputs follow this order, so it is
// part of the observable contract and must not be reshuffled casually.
var conceptOrder = []string{
	"numeric", "string", "boolean", "array", "object", "map", "set",
	"math", "sort", "search", "filter", "transform",
	"validation", "error", "edge", "performance", "async",
	"functional", "oop", "memory", "io", "network", "concurrency",
}

// conceptKeywords maps each concept tag to its trigger keywords. A tag
// is present when any keyword substring-matches the lowercased text.
var conceptKeywords = map[string][]string{
	"numeric":     {"integer", "int", "float", "double", "number", "decimal", "numeric"},
	"string":      {"string", "text", "str", "char", "character"},
	"boolean":     {"boolean", "bool", "flag", "true", "false"},
	"array":       {"array", "list", "sequence", "collection", "vector"},
	"object":      {"object", "class", "instance", "struct"},
	"map":         {"map", "dictionary", "dict", "hash", "key-value"},
	"set":         {"set", "unique"},
	"math":        {"add", "subtract", "multiply", "divide", "sum", "calculate", "compute"},
	"sort":        {"sort", "order", "arrange", "sequence"},
	"search":      {"search", "find", "locate", "query", "lookup"},
	"filter":      {"filter", "select", "where", "condition"},
	"transform":   {"transform", "convert", "parse", "format", "map"},
	"validation":  {"valid", "invalid", "validate", "check", "verify"},
	"error":       {"error", "exception", "failure", "crash", "handling"},
	"edge":        {"edge", "boundary", "limit", "max", "min", "empty", "full"},
	"performance": {"performance", "speed", "efficient", "optimize", "fast", "slow"},
	"async":       {"async", "synchronous", "concurrent", "parallel", "thread"},
	"functional":  {"functional", "pure", "immutable", "map", "reduce", "filter", "lambda"},
	"oop":         {"class", "object", "inheritance", "polymorphism", "encapsulation", "method"},
	"memory":      {"memory", "allocation", "deallocation", "leak", "pointer", "reference"},
	"io":          {"io", "input", "output", "file", "stream", "read", "write"},
	"network":     {"network", "http", "tcp", "udp", "socket", "request", "response"},
	"concurrency": {"thread", "mutex", "lock", "atomic", "concurrent", "parallel", "race"},
}

// termConcepts are key terms promoted directly to concept tags when
// they show up in the extracted term set.
var termConcepts = map[string]bool{
	"api": true, "database": true, "file": true, "async": true,
	"math": true, "string": true, "array": true, "object": true,
}

// IdentifyConcepts maps text to the closed concept taxonomy.
//
// Description:
//
//	A concept tag is added when any of its keywords substring-matches
//	the lowercased text. When keyTerms is non-nil, terms that are
//	themselves concept names (api, database, file, ...) are promoted to
//	tags as well. Pure and stateless.
//
// Inputs:
//
//	text - The text to scan (task description, code, or both).
//	keyTerms - Optional pre-extracted key terms; may be nil.
//
// Outputs:
//
//	map[string]bool - The set of present concept tags.
func IdentifyConcepts(text string, keyTerms map[string]bool) map[string]bool {
	lower := strings.ToLower(text)
	concepts := make(map[string]bool)

	for _, concept := range conceptOrder {
		for _, keyword := range conceptKeywords[concept] {
			if strings.Contains(lower, keyword) {
				concepts[concept] = true
				break
			}
		}
	}

	for term := range keyTerms {
		if termConcepts[term] {
			concepts[term] = true
		}
	}
	return concepts
}
