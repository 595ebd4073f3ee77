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
	"strings"
	"testing"
)

const stackCode = `
class Stack:
    def push(self, item):
        self.items.append(item)

    def pop(self):
        return self.items.pop()
`

func TestBuildStrategy_PatternMatch(t *testing.T) {
	s := BuildStrategy(stackCode, "python", "implement a stack", 1, 5)

	if s.PrimaryPattern != "data_structure" {
		t.Fatalf("PrimaryPattern = %q, want data_structure", s.PrimaryPattern)
	}
	if !strings.Contains(s.Focus, "basic functionality") {
		t.Errorf("Focus = %q, want first-iteration label", s.Focus)
	}
	if len(s.TestTypes) == 0 {
		t.Error("TestTypes is empty for a matched pattern")
	}
	if len(s.Frameworks) == 0 || s.Frameworks[0] != "pytest" {
		t.Errorf("Frameworks = %v, want pytest first", s.Frameworks)
	}
	// hypothesis comes from the data_structure specialization.
	found := false
	for _, fw := range s.Frameworks {
		if fw == "hypothesis" {
			found = true
		}
	}
	if !found {
		t.Errorf("Frameworks = %v, missing hypothesis", s.Frameworks)
	}
	if !strings.Contains(s.PatternGuidance, "stack") {
		t.Errorf("PatternGuidance does not name the structure type: %q", s.PatternGuidance)
	}
}

func TestBuildStrategy_NoPattern(t *testing.T) {
	s := BuildStrategy("x = 1", "python", "", 2, 5)

	if s.PrimaryPattern != "" {
		t.Errorf("PrimaryPattern = %q, want empty", s.PrimaryPattern)
	}
	if len(s.TestTypes) != 2 || s.TestTypes[0] != "functional" {
		t.Errorf("TestTypes = %v, want generic plan", s.TestTypes)
	}
	if len(s.Frameworks) == 0 || s.Frameworks[0] != "pytest" {
		t.Errorf("Frameworks = %v, want language defaults", s.Frameworks)
	}
}

func TestDefaultFrameworks_Unknown(t *testing.T) {
	fws := defaultFrameworks("cobol")
	if len(fws) != 1 || fws[0] != "standard testing library" {
		t.Errorf("defaultFrameworks(cobol) = %v", fws)
	}
}

func TestPatternFrameworks_Dedup(t *testing.T) {
	// data_structure/python specializes to [pytest hypothesis]; the
	// python defaults [pytest unittest] must merge without repeats.
	fws := patternFrameworks("data_structure", "python")
	want := []string{"pytest", "hypothesis", "unittest"}
	if len(fws) != len(want) {
		t.Fatalf("patternFrameworks = %v, want %v", fws, want)
	}
	for i, fw := range want {
		if fws[i] != fw {
			t.Errorf("patternFrameworks[%d] = %q, want %q", i, fws[i], fw)
		}
	}
}

func TestFocusLabel(t *testing.T) {
	tests := []struct {
		iteration, max int
		want           string
	}{
		{1, 5, "basic functionality tests"},
		{2, 5, "extended functionality tests"},
		{3, 5, "error handling tests"},
		{4, 5, "performance and edge case tests"},
		{5, 5, "comprehensive review"},
	}

	for _, tt := range tests {
		if got := focusLabel(tt.iteration, tt.max); got != tt.want {
			t.Errorf("focusLabel(%d, %d) = %q, want %q", tt.iteration, tt.max, got, tt.want)
		}
	}
}

func TestPatternGuidance_IterationTail(t *testing.T) {
	first := patternGuidance("algorithm", 1, 5)
	if !strings.Contains(first, "first iteration") {
		t.Errorf("iteration 1 guidance missing tail: %q", first)
	}
	last := patternGuidance("algorithm", 5, 5)
	if !strings.Contains(last, "comprehensive assessment") {
		t.Errorf("final iteration guidance missing tail: %q", last)
	}
}

func TestEnhanceWithStrategy(t *testing.T) {
	prompt := EnhanceWithStrategy("BASE", stackCode, "python", "implement a stack", 1, 5)

	if !strings.HasPrefix(prompt, "BASE") {
		t.Error("enhanced prompt does not start with the base prompt")
	}
	for _, want := range []string{
		"# Adaptive Test Strategy",
		"Detected pattern: data_structure",
		"Recommended testing frameworks: pytest, hypothesis",
		`"implement a stack"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("enhanced prompt missing %q", want)
		}
	}
}
