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
// Task domains
// =============================================================================

// Task domain categories.
const (
	DomainAPI            = "api"
	DomainDataProcessing = "data_processing"
	DomainAlgorithm      = "algorithm"
	DomainUserInterface  = "user_interface"
	DomainDatabase       = "database"
	DomainSecurity       = "security"
	DomainGeneral        = "general"
)

// domainOrder fixes both scoring enumeration and tie-breaking: the
// first domain in this order to reach the maximum score wins.
var domainOrder = []string{
	DomainAPI, DomainDataProcessing, DomainAlgorithm,
	DomainUserInterface, DomainDatabase, DomainSecurity,
}

var domainKeywords = map[string][]string{
	DomainAPI:            {"api", "endpoint", "rest", "http", "request", "response", "server"},
	DomainDataProcessing: {"process", "transform", "convert", "parse", "data", "pipeline"},
	DomainAlgorithm:      {"algorithm", "sort", "search", "compute", "calculate", "optimization"},
	DomainUserInterface:  {"ui", "interface", "display", "render", "component", "user"},
	DomainDatabase:       {"database", "db", "query", "sql", "nosql", "record", "store"},
	DomainSecurity:       {"security", "auth", "authentication", "encryption", "password", "token"},
}

// conceptDomainBonus maps a present concept to (domain, bonus) pairs
// folded into the domain scores.
type domainBonus struct {
	domain string
	bonus  int
}

var conceptDomainBonuses = map[string][]domainBonus{
	"network":    {{DomainAPI, 2}},
	"async":      {{DomainAPI, 2}},
	"transform":  {{DomainDataProcessing, 2}},
	"filter":     {{DomainDataProcessing, 2}},
	"sort":       {{DomainAlgorithm, 2}},
	"search":     {{DomainAlgorithm, 2}},
	"math":       {{DomainAlgorithm, 2}},
	"validation": {{DomainUserInterface, 1}},
	"map":        {{DomainDatabase, 1}},
	"object":     {{DomainDatabase, 1}},
	"error":      {{DomainSecurity, 1}},
}

// IdentifyDomain classifies a task into one domain category.
//
// Description:
//
//	Each domain scores 1 point per keyword substring-present in the
//	lowercased text and 2 points per keyword present in the key-term
//	set, plus fixed concept-derived bonuses. The arg-max domain wins;
//	ties break to the earliest domain in the fixed enumeration order
//	(api, data_processing, algorithm, user_interface, database,
//	security). An all-zero board returns "general".
//
// Outputs:
//
//	string - One of the Domain* constants.
func IdentifyDomain(text string, keyTerms, concepts map[string]bool) string {
	lower := strings.ToLower(text)

	scores := make(map[string]int, len(domainOrder))
	for _, domain := range domainOrder {
		score := 0
		for _, kw := range domainKeywords[domain] {
			if strings.Contains(lower, kw) {
				score++
			}
			if keyTerms[kw] {
				score += 2
			}
		}
		scores[domain] = score
	}

	for concept := range concepts {
		for _, b := range conceptDomainBonuses[concept] {
			scores[b.domain] += b.bonus
		}
	}

	best, bestScore := DomainGeneral, 0
	for _, domain := range domainOrder {
		if scores[domain] > bestScore {
			best, bestScore = domain, scores[domain]
		}
	}
	return best
}
