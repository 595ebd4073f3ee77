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
	"context"
	"strings"
	"testing"

	"github.com/AleutianAI/sentinel/datatypes"
)

func TestEngine_Run_SimulationOnlyLanguage(t *testing.T) {
	e := NewEngine(nil)
	r := e.Run(context.Background(), simTestCode, "def add(a, b):\n    return a + b",
		"rust", 1, "")

	if !r.Simulated {
		t.Error("languages without a runner should simulate")
	}
	if r.TotalTests < 1 {
		t.Errorf("TotalTests = %d, want >= 1", r.TotalTests)
	}
	if r.PassedTests+r.FailedTests != r.TotalTests {
		t.Error("counts do not add up")
	}
}

func TestTestCommand(t *testing.T) {
	if cmd := testCommand("python", "/tmp/test.py"); len(cmd) == 0 || cmd[0] != "python" {
		t.Errorf("python command = %v", cmd)
	}
	if cmd := testCommand("javascript", "/tmp/test.js"); len(cmd) == 0 || cmd[0] != "npx" {
		t.Errorf("javascript command = %v", cmd)
	}
	if cmd := testCommand("java", "/tmp/Test.java"); cmd != nil {
		t.Errorf("java command = %v, want nil", cmd)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   datatypes.TestExecutionResult
		want datatypes.TestExecutionResult
	}{
		{
			name: "zero counts become one failure",
			in:   datatypes.TestExecutionResult{},
			want: datatypes.TestExecutionResult{TotalTests: 1, FailedTests: 1},
		},
		{
			name: "total raised to match parts",
			in:   datatypes.TestExecutionResult{TotalTests: 2, PassedTests: 2, FailedTests: 1},
			want: datatypes.TestExecutionResult{TotalTests: 3, PassedTests: 2, FailedTests: 1},
		},
		{
			name: "failed fills the gap",
			in:   datatypes.TestExecutionResult{TotalTests: 5, PassedTests: 3},
			want: datatypes.TestExecutionResult{TotalTests: 5, PassedTests: 3, FailedTests: 2},
		},
		{
			name: "all passed is success",
			in:   datatypes.TestExecutionResult{TotalTests: 4, PassedTests: 4},
			want: datatypes.TestExecutionResult{TotalTests: 4, PassedTests: 4, Success: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.in)
			if got.TotalTests != tt.want.TotalTests ||
				got.PassedTests != tt.want.PassedTests ||
				got.FailedTests != tt.want.FailedTests ||
				got.Success != tt.want.Success {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdjustImports_Python(t *testing.T) {
	rewritten := AdjustImports("from mymodule import add\n\ndef test_a():\n    assert add(1, 1) == 2",
		"python", "implementation")
	if !strings.Contains(rewritten, "from implementation import add") {
		t.Errorf("import not rewritten:\n%s", rewritten)
	}

	plain := AdjustImports("import mymodule\n\ndef test_a():\n    assert mymodule.add(1, 1) == 2",
		"python", "implementation")
	if !strings.Contains(plain, "import implementation") {
		t.Errorf("plain import not rewritten:\n%s", plain)
	}

	bare := AdjustImports("def test_a():\n    assert add(1, 1) == 2", "python", "implementation")
	if !strings.HasPrefix(bare, "from implementation import *") {
		t.Errorf("star import not prepended:\n%s", bare)
	}
}

func TestAdjustImports_JavaScript(t *testing.T) {
	rewritten := AdjustImports("import { add } from './mymodule';\n\ntest('a', () => {});",
		"javascript", "implementation")
	if !strings.Contains(rewritten, "'./implementation'") {
		t.Errorf("import path not rewritten:\n%s", rewritten)
	}

	bare := AdjustImports("test('a', () => {});", "javascript", "implementation")
	if !strings.Contains(bare, "require('./implementation')") {
		t.Errorf("require not prepended:\n%s", bare)
	}
}

func TestAdjustImports_Cpp(t *testing.T) {
	out := AdjustImports("TEST(Add, Basic) {}", "cpp", "implementation")
	if !strings.HasPrefix(out, "#include \"implementation.h\"") {
		t.Errorf("header not prepended:\n%s", out)
	}
	// Idempotent when the include is already present.
	again := AdjustImports(out, "cpp", "implementation")
	if strings.Count(again, "#include \"implementation.h\"") != 1 {
		t.Error("include duplicated on second pass")
	}
}
