// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scripted Client for tests.
//
// Description:
//
//	Responses are returned in order; once exhausted, the last response
//	repeats. Err, when set, is returned for every call. Prompts are
//	recorded for later inspection. Delay, when set, sleeps before
//	answering so gate serialization can be observed in tests.
//
// Thread Safety:
//
//	MockClient is safe for concurrent use.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Delay     time.Duration

	calls   int
	prompts []string
}

var _ Client = (*MockClient)(nil)

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.calls++

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	idx := m.calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// Calls reports how many completions were requested.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns a copy of the recorded prompts.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Name implements Client.
func (m *MockClient) Name() string { return "mock" }

// Model implements Client.
func (m *MockClient) Model() string { return "mock-model" }
