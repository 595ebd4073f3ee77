// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package execution

import (
	"strings"
	"testing"
)

const simTestCode = `
def test_add_basic():
    assert add(1, 1) == 2

def test_add_zero():
    assert add(0, 0) == 0

def test_add_negative():
    assert add(-1, 1) == 0
`

func TestSimulate(t *testing.T) {
	r := Simulate(simTestCode, "def add(a, b):\n    return a + b", "python", 1, "add two numbers")

	if !r.Simulated {
		t.Error("result not marked Simulated")
	}
	if r.TotalTests != 3 {
		t.Errorf("TotalTests = %d, want 3", r.TotalTests)
	}
	if r.PassedTests+r.FailedTests != r.TotalTests {
		t.Errorf("counts do not add up: %d + %d != %d",
			r.PassedTests, r.FailedTests, r.TotalTests)
	}
	if r.Success != (r.FailedTests == 0) {
		t.Error("Success inconsistent with FailedTests")
	}
	if !strings.Contains(r.Output, "Simulated test execution for python") {
		t.Errorf("Output = %q", r.Output)
	}
}

func TestSimulate_LaterIterationsPassMore(t *testing.T) {
	early := Simulate(simTestCode, "", "python", 1, "")
	late := Simulate(simTestCode, "", "python", 9, "")
	if late.PassedTests < early.PassedTests {
		t.Errorf("later iteration passed fewer tests: %d < %d",
			late.PassedTests, early.PassedTests)
	}
}

func TestSimulate_PassCap(t *testing.T) {
	// Even at an absurd iteration the simulated ratio stays below 1.0,
	// so at least one of the 20 tests fails.
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("def test_case_")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString("():\n    assert True\n\n")
	}
	r := Simulate(b.String(), "", "python", 100, "")
	if r.FailedTests == 0 {
		t.Error("pass cap not applied, want at least one simulated failure")
	}
	if r.PassedTests > 19 {
		t.Errorf("PassedTests = %d, want <= 19 under the 0.95 cap", r.PassedTests)
	}
}

func TestCountSimulatedTests(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		language string
		want     int
	}{
		{"python defs", simTestCode, "python", 3},
		{"javascript its", "it('a', () => {});\ntest('b', () => {});", "javascript", 2},
		{"java annotations", "@Test\nvoid a() {}\n@Test\nvoid b() {}", "java", 2},
		{"assertion estimate", "assert x\nassert y\nassert z\nassert w", "python", 2},
		{"floor of one", "nothing here", "python", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countSimulatedTests(tt.code, tt.language); got != tt.want {
				t.Errorf("countSimulatedTests() = %d, want %d", got, tt.want)
			}
		})
	}
}
