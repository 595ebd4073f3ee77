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
	"strings"
	"testing"
)

func TestExtractRequirements(t *testing.T) {
	text := "The code should parse the configuration file. It must handle missing keys gracefully."
	got := ExtractRequirements(text)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got[0] != "parse the configuration file" {
		t.Errorf("got[0] = %q", got[0])
	}
	if !strings.Contains(got[1], "handle missing keys") {
		t.Errorf("got[1] = %q", got[1])
	}
}

func TestExtractRequirements_ImplicitFallback(t *testing.T) {
	// No indicator verbs: every substantive sentence becomes implicit.
	got := ExtractRequirements("A queue with constant time operations.")
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: %v", len(got), got)
	}
}

func TestTestingPatternFor(t *testing.T) {
	if _, ok := TestingPatternFor(DomainAPI); !ok {
		t.Error("api domain should have a testing pattern")
	}
	if _, ok := TestingPatternFor(DomainGeneral); ok {
		t.Error("general domain should have no testing pattern")
	}
}

func TestTestScenarios(t *testing.T) {
	requirements := []string{"reverse the input string"}
	concepts := map[string]bool{"sort": true}
	edgeCases := []string{"Test with empty strings", "Test with very long strings"}

	got := TestScenarios(requirements, concepts, edgeCases, DomainAPI)

	if got[0] != "Test that code correctly reverse the input string" {
		t.Errorf("got[0] = %q", got[0])
	}
	var hasSort, hasStrategy, hasEdge bool
	for _, s := range got {
		if strings.Contains(s, "pre-sorted input") {
			hasSort = true
		}
		if strings.Contains(s, "validate response codes") {
			hasStrategy = true
		}
		if s == "Test with empty strings" {
			hasEdge = true
		}
	}
	if !hasSort || !hasStrategy || !hasEdge {
		t.Errorf("missing scenario groups (sort=%v strategy=%v edge=%v): %v",
			hasSort, hasStrategy, hasEdge, got)
	}
}

func TestTestScenarios_EdgeCasePriority(t *testing.T) {
	edgeCases := []string{
		"Test with nested arrays/lists",
		"Test error handling for invalid inputs",
		"Test with duplicate elements",
		"Test validation error messages",
		"Test with mixed type elements",
		"Test performance with large datasets",
	}

	got := TestScenarios(nil, nil, edgeCases, DomainGeneral)

	// Priority cases (error, validation, performance) must come before
	// the remainder.
	idxOf := func(s string) int {
		for i, v := range got {
			if v == s {
				return i
			}
		}
		return -1
	}
	errIdx := idxOf("Test error handling for invalid inputs")
	nestedIdx := idxOf("Test with nested arrays/lists")
	if errIdx == -1 {
		t.Fatalf("priority case missing: %v", got)
	}
	if nestedIdx != -1 && errIdx > nestedIdx {
		t.Errorf("priority edge case ordered after non-priority: %v", got)
	}
}

func TestTestScenarios_Dedup(t *testing.T) {
	got := TestScenarios(
		[]string{"handle timeouts"},
		nil,
		[]string{"Test that code correctly handle timeouts"},
		DomainGeneral,
	)
	if len(got) != 1 {
		t.Errorf("duplicate not removed: %v", got)
	}
}

func TestAnalyze(t *testing.T) {
	got := Analyze("Implement a rest api endpoint that should validate the request payload")

	if got.Domain != DomainAPI {
		t.Errorf("Domain = %q, want %q", got.Domain, DomainAPI)
	}
	if len(got.KeyRequirements) == 0 {
		t.Error("expected at least one requirement")
	}
	if len(got.TestScenarios) == 0 {
		t.Error("expected scenarios")
	}
	found := false
	for _, c := range got.Concepts {
		if c == "validation" {
			found = true
		}
	}
	if !found {
		t.Errorf("Concepts = %v, want validation present", got.Concepts)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	got := Analyze("   ")
	if got.Domain != DomainGeneral {
		t.Errorf("Domain = %q, want general", got.Domain)
	}
	if len(got.TestScenarios) != 0 || len(got.KeyRequirements) != 0 {
		t.Errorf("expected zero-value analysis, got %+v", got)
	}
}
