// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analysis provides the lexical and concept-matching heuristics
// that turn free-text task descriptions and code into structured signals
// for test generation and scoring.
//
// Every function here is pure: same input, same output, no hidden state.
// The keyword and pattern tables are versioned constant data kept apart
// from control flow so they can be tuned without touching logic.
package analysis

import (
	"regexp"
	"strings"
)

// =============================================================================
// Stopwords
// =============================================================================

// stopwords are common English and generic coding words excluded from
// key-term extraction.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"if": true, "then": true, "else": true, "when": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "by": true,
	"for": true, "with": true, "about": true, "against": true,
	"between": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true,
	"from": true, "up": true, "down": true, "is": true, "am": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "shall": true,
	"should": true, "can": true, "could": true, "may": true, "might": true,
	"must": true, "ought": true, "i": true, "you": true, "he": true,
	"she": true, "it": true, "we": true, "they": true, "this": true,
	"that": true, "these": true, "those": true, "who": true, "which": true,
	"all": true, "any": true, "both": true, "each": true, "few": true,
	"more": true, "most": true, "some": true, "such": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "just": true,
	"code": true, "function": true, "class": true, "method": true,
	"implement": true, "create": true, "make": true, "write": true,
	"following": true, "using": true,
}

var (
	nonWordRe   = regexp.MustCompile(`[^\w\s]`)
	camelCaseRe = regexp.MustCompile(`[A-Z][a-z]+(?:[A-Z][a-z]+)+`)
	snakeCaseRe = regexp.MustCompile(`\b[a-z]+(?:_[a-z]+)+\b`)
)

// =============================================================================
// Key-term extraction
// =============================================================================

// ExtractKeyTerms pulls technical terms out of free text.
//
// Description:
//
//	Lowercases, strips punctuation, tokenizes on whitespace, drops
//	stopwords and tokens of length <= 2. CamelCase runs in the original
//	text and snake_case runs are folded in (lowercased) as additional
//	terms, since compound identifiers are the strongest signal a task
//	description carries.
//
// Inputs:
//
//	text - Arbitrary free text. Empty text yields an empty set.
//
// Outputs:
//
//	map[string]bool - The term set. No ordering; deterministic content.
func ExtractKeyTerms(text string) map[string]bool {
	terms := make(map[string]bool)
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	for _, word := range strings.Fields(cleaned) {
		if !stopwords[word] && len(word) > 2 {
			terms[word] = true
		}
	}

	for _, m := range camelCaseRe.FindAllString(text, -1) {
		terms[strings.ToLower(m)] = true
	}
	for _, m := range snakeCaseRe.FindAllString(text, -1) {
		terms[m] = true
	}
	return terms
}

// TermPresence computes the fraction of terms appearing in text.
//
// Description:
//
//	A term counts as present on a word-boundary match or a plain
//	substring match. Substring matching is an intentional policy, not a
//	bug: it raises recall for compound identifiers ("sort" inside
//	"quicksort"). Returns 0.0 for an empty term set; that is the defined
//	floor, not an error.
//
// Outputs:
//
//	float64 - In [0,1].
func TermPresence(terms map[string]bool, text string) float64 {
	if len(terms) == 0 {
		return 0.0
	}
	lower := strings.ToLower(text)
	present := 0
	for term := range terms {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if (err == nil && re.MatchString(lower)) || strings.Contains(lower, term) {
			present++
		}
	}
	return float64(present) / float64(len(terms))
}
