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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient tracks how many Complete calls are in flight at once.
type countingClient struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (c *countingClient) Complete(ctx context.Context, prompt string) (string, error) {
	n := c.inFlight.Add(1)
	for {
		seen := c.maxSeen.Load()
		if n <= seen || c.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	c.inFlight.Add(-1)
	return "ok", nil
}

func (c *countingClient) Name() string  { return "counting" }
func (c *countingClient) Model() string { return "counting-model" }

func TestGate_SerializesCalls(t *testing.T) {
	inner := &countingClient{}
	gate := NewGate(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := gate.Complete(context.Background(), "p")
			assert.NoError(t, err)
			assert.Equal(t, "ok", out)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inner.maxSeen.Load(),
		"gate admitted more than one call at a time")
}

func TestGate_CancelledWhileQueued(t *testing.T) {
	inner := &MockClient{Responses: []string{"ok"}, Delay: 100 * time.Millisecond}
	gate := NewGate(inner)

	// Occupy the slot.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = gate.Complete(context.Background(), "holder")
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := gate.Complete(ctx, "waiter")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	<-done
	// The cancelled waiter never reached the inner client.
	assert.Equal(t, 1, inner.Calls())
}

func TestGate_NilContext(t *testing.T) {
	gate := NewGate(&MockClient{Responses: []string{"ok"}})
	//nolint:staticcheck // deliberate nil context
	_, err := gate.Complete(nil, "p")
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestGate_Passthrough(t *testing.T) {
	gate := NewGate(&MockClient{Responses: []string{"ok"}})
	assert.Equal(t, "mock", gate.Name())
	assert.Equal(t, "mock-model", gate.Model())

	out, err := gate.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGate_ReleasesSlotAfterError(t *testing.T) {
	inner := &MockClient{Err: assert.AnError}
	gate := NewGate(inner)

	_, err := gate.Complete(context.Background(), "p")
	require.Error(t, err)

	// The slot is free again; a second call does not deadlock.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = gate.Complete(ctx, "p")
	assert.ErrorIs(t, err, assert.AnError)
}
