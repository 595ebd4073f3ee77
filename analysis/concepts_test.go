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

func TestIdentifyConcepts(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		keyTerms    map[string]bool
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "sorting task",
			text:        "sort the array of integers",
			wantPresent: []string{"sort", "array", "numeric"},
			wantAbsent:  []string{"network", "concurrency"},
		},
		{
			name:        "error handling task",
			text:        "handle the exception when the request fails",
			wantPresent: []string{"error", "network"},
		},
		{
			name:        "key terms promoted",
			text:        "something unrelated",
			keyTerms:    map[string]bool{"database": true, "api": true},
			wantPresent: []string{"database", "api"},
		},
		{
			name:       "empty text",
			text:       "",
			wantAbsent: []string{"numeric", "string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concepts := IdentifyConcepts(tt.text, tt.keyTerms)
			for _, c := range tt.wantPresent {
				if !concepts[c] {
					t.Errorf("IdentifyConcepts(%q) missing concept %q, got %v", tt.text, c, concepts)
				}
			}
			for _, c := range tt.wantAbsent {
				if concepts[c] {
					t.Errorf("IdentifyConcepts(%q) should not contain %q", tt.text, c)
				}
			}
		})
	}
}

func TestIdentifyDomain(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"rest api", "build a rest api endpoint for http requests", DomainAPI},
		{"algorithm", "optimize the sort algorithm to compute results faster", DomainAlgorithm},
		{"database", "write a sql query against the records table in the database", DomainDatabase},
		{"security", "add token based authentication with password hashing", DomainSecurity},
		{"no signal", "greet the visitor warmly", DomainGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyTerms := ExtractKeyTerms(tt.text)
			concepts := IdentifyConcepts(tt.text, keyTerms)
			if got := IdentifyDomain(tt.text, keyTerms, concepts); got != tt.want {
				t.Errorf("IdentifyDomain(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
