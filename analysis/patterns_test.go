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

import "testing"

func TestIdentifyPatterns(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		task      string
		wantFirst string
		wantEmpty bool
	}{
		{
			name: "stack implementation ranks data_structure first",
			code: `class Stack:
    def push(self, item): self.items.insert(0, item)
    def pop(self): return self.items.pop()
    def contains(self, item): return item in self.items`,
			task:      "implement a stack with push and pop",
			wantFirst: "data_structure",
		},
		{
			name:      "http client ranks api_service first",
			code:      "resp = http.get(endpoint); send(request)",
			task:      "fetch data from the rest api endpoint and post the response",
			wantFirst: "api_service",
		},
		{
			name:      "no signal",
			code:      "x = 1",
			task:      "",
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyPatterns(tt.code, tt.task)
			if tt.wantEmpty {
				if len(got) != 0 {
					t.Fatalf("IdentifyPatterns() = %v, want empty", got)
				}
				return
			}
			if len(got) == 0 {
				t.Fatal("IdentifyPatterns() returned no patterns")
			}
			if got[0] != tt.wantFirst {
				t.Errorf("first pattern = %q, want %q (all: %v)", got[0], tt.wantFirst, got)
			}
		})
	}
}

func TestIdentifyPatterns_StableTies(t *testing.T) {
	// Text hitting exactly one keyword in two catalogs keeps catalog
	// order on the tie.
	got := IdentifyPatterns("", "regex versus formula")
	// string_processing (regex, match? no) and mathematical (formula)
	// both score 2; string_processing comes first in the catalog.
	if len(got) < 2 {
		t.Fatalf("got %v, want two patterns", got)
	}
	if got[0] != "string_processing" || got[1] != "mathematical" {
		t.Errorf("tie order = %v, want [string_processing mathematical ...]", got)
	}
}
