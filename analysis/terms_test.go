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
	"math"
	"testing"
)

func TestExtractKeyTerms(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "drops stopwords and short tokens",
			text:        "implement a function to sort the list",
			wantPresent: []string{"sort", "list"},
			wantAbsent:  []string{"implement", "the", "a", "to", "function"},
		},
		{
			name:        "keeps snake_case identifiers",
			text:        "update the sorted_list helper",
			wantPresent: []string{"sorted_list", "helper", "update"},
			wantAbsent:  []string{"the"},
		},
		{
			name:        "folds CamelCase identifiers",
			text:        "fix BinarySearch for edge inputs",
			wantPresent: []string{"binarysearch", "edge", "inputs"},
			wantAbsent:  []string{"for"},
		},
		{
			name:       "empty text",
			text:       "",
			wantAbsent: []string{"anything"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := ExtractKeyTerms(tt.text)
			for _, term := range tt.wantPresent {
				if !terms[term] {
					t.Errorf("ExtractKeyTerms(%q) missing %q, got %v", tt.text, term, terms)
				}
			}
			for _, term := range tt.wantAbsent {
				if terms[term] {
					t.Errorf("ExtractKeyTerms(%q) should not contain %q", tt.text, term)
				}
			}
		})
	}
}

func TestTermPresence(t *testing.T) {
	tests := []struct {
		name  string
		terms map[string]bool
		text  string
		want  float64
	}{
		{
			name:  "all present",
			terms: map[string]bool{"stack": true, "push": true},
			text:  "def push(self, item): self.stack.append(item)",
			want:  1.0,
		},
		{
			name:  "substring match counts",
			terms: map[string]bool{"sort": true},
			text:  "quicksort implementation",
			want:  1.0,
		},
		{
			name:  "half present",
			terms: map[string]bool{"stack": true, "zebra": true},
			text:  "stack based parser",
			want:  0.5,
		},
		{
			name:  "none present",
			terms: map[string]bool{"zebra": true},
			text:  "stack based parser",
			want:  0.0,
		},
		{
			name:  "empty term set floors at zero",
			terms: map[string]bool{},
			text:  "anything",
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TermPresence(tt.terms, tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TermPresence() = %v, want %v", got, tt.want)
			}
		})
	}
}
