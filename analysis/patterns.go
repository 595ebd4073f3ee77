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
	"sort"
	"strings"
)

// =============================================================================
// Programming patterns
// =============================================================================

// Pattern describes one recognizable programming pattern and the test
// emphasis appropriate for it.
type Pattern struct {
	Name       string
	Keywords   []string
	Operations []string
	TestFocus  []string
}

// patternOrder fixes enumeration order; stable sort below preserves it
// for equal scores.
var patternOrder = []string{
	"data_structure", "algorithm", "api_service", "file_io",
	"string_processing", "auth", "mathematical", "database",
	"concurrency", "ui_graphics",
}

// Patterns is the closed programming-pattern catalog. Keyword hits
// score 2 (strong indicator), operation hits score 1.
var Patterns = map[string]Pattern{
	"data_structure": {
		Name:       "data_structure",
		Keywords:   []string{"stack", "queue", "list", "tree", "graph", "hash", "map", "set", "heap", "dictionary"},
		Operations: []string{"add", "remove", "insert", "delete", "get", "find", "search", "contains"},
		TestFocus:  []string{"correctness", "edge_cases", "performance"},
	},
	"algorithm": {
		Name:       "algorithm",
		Keywords:   []string{"sort", "search", "path", "traversal", "algorithm", "recursive", "iteration"},
		Operations: []string{"compute", "calculate", "solve", "optimize", "find"},
		TestFocus:  []string{"correctness", "edge_cases", "performance"},
	},
	"api_service": {
		Name:       "api_service",
		Keywords:   []string{"api", "endpoint", "service", "request", "response", "http", "rest", "graphql"},
		Operations: []string{"get", "post", "put", "delete", "fetch", "send"},
		TestFocus:  []string{"integration", "error_handling", "authentication"},
	},
	"file_io": {
		Name:       "file_io",
		Keywords:   []string{"file", "directory", "path", "read", "write", "stream", "io"},
		Operations: []string{"open", "close", "read", "write", "append", "delete"},
		TestFocus:  []string{"error_handling", "resource_management"},
	},
	"string_processing": {
		Name:       "string_processing",
		Keywords:   []string{"string", "text", "parse", "format", "regex", "match", "replace"},
		Operations: []string{"parse", "format", "match", "replace", "split", "join"},
		TestFocus:  []string{"correctness", "edge_cases", "localization"},
	},
	"auth": {
		Name:       "auth",
		Keywords:   []string{"auth", "authentication", "authorization", "permission", "role", "user", "login", "password"},
		Operations: []string{"login", "logout", "verify", "validate", "check"},
		TestFocus:  []string{"security", "edge_cases", "error_handling"},
	},
	"mathematical": {
		Name:       "mathematical",
		Keywords:   []string{"math", "calculate", "compute", "formula", "equation", "numeric"},
		Operations: []string{"calculate", "compute", "solve"},
		TestFocus:  []string{"precision", "edge_cases", "performance"},
	},
	"database": {
		Name:       "database",
		Keywords:   []string{"database", "db", "query", "sql", "nosql", "table", "collection", "document"},
		Operations: []string{"insert", "update", "delete", "select", "query", "find"},
		TestFocus:  []string{"data_integrity", "error_handling", "performance"},
	},
	"concurrency": {
		Name:       "concurrency",
		Keywords:   []string{"thread", "async", "concurrent", "parallel", "lock", "mutex", "semaphore"},
		Operations: []string{"wait", "notify", "lock", "unlock", "acquire", "release"},
		TestFocus:  []string{"race_conditions", "deadlocks", "performance"},
	},
	"ui_graphics": {
		Name:       "ui_graphics",
		Keywords:   []string{"ui", "interface", "graphic", "display", "render", "draw", "component"},
		Operations: []string{"render", "draw", "update", "refresh", "display"},
		TestFocus:  []string{"visual_correctness", "user_interaction", "performance"},
	},
}

// IdentifyPatterns ranks the programming patterns matching code+task.
//
// Description:
//
//	Scores each catalog pattern over the combined lowercased code and
//	task text: +2 per keyword substring hit, +1 per operation hit.
//	Returns pattern names with score > 0, highest score first; equal
//	scores keep catalog order.
//
// Outputs:
//
//	[]string - Ranked pattern names; empty when nothing matched.
func IdentifyPatterns(code, taskDescription string) []string {
	combined := strings.ToLower(code + " " + taskDescription)

	type scored struct {
		name  string
		score int
	}
	var matches []scored
	for _, name := range patternOrder {
		p := Patterns[name]
		score := 0
		for _, kw := range p.Keywords {
			if strings.Contains(combined, kw) {
				score += 2
			}
		}
		for _, op := range p.Operations {
			if strings.Contains(combined, op) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{name, score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}
